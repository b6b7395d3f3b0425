package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"
	"pluginsummary/internal/config"
	"pluginsummary/internal/credential"
	"pluginsummary/internal/markdown"
	"pluginsummary/internal/popup"
	"pluginsummary/internal/server"
	"strings"

	"github.com/spf13/cobra"
)

type summarizeOptions struct {
	raw      bool
	htmlPath string
	wordWrap int
}

func newRootCommand(cfg config.Config, log *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "pluginsummary",
		Short:         "Generate livestream summaries of WordPress.org plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSummarizeCommand(cfg, log), newServeCommand(cfg, log))

	return root
}

func newSummarizeCommand(cfg config.Config, log *slog.Logger) *cobra.Command {
	var opts summarizeOptions

	cmd := &cobra.Command{
		Use:   "summarize [url or text]...",
		Short: "Summarize plugin pages given as arguments or found in stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := args
			if len(inputs) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				inputs = []string{string(raw)}
			}

			urls, err := collectPageURLs(inputs)
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				return errors.New("no plugin page URLs found")
			}

			return runSummarize(cmd, cfg, log, urls, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the Markdown without terminal rendering")
	cmd.Flags().StringVar(&opts.htmlPath, "html", "", "also write the rendered popup HTML to this file")
	cmd.Flags().IntVar(&opts.wordWrap, "width", markdown.DefaultWordWrap, "terminal word wrap width")

	return cmd
}

func runSummarize(
	cmd *cobra.Command,
	cfg config.Config,
	log *slog.Logger,
	urls []string,
	opts summarizeOptions,
) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	d, err := initDeps(ctx, cfg, terminalNotifier{out: stderr}, log)
	if err != nil {
		return err
	}
	defer d.close(ctx, log)

	controller := popup.NewController(
		d.provider,
		d.scraper,
		d.summarizer,
		log,
		popup.WithPrompter(terminalPrompter{in: os.Stdin, out: stderr}),
	)

	var popups []*popup.Popup
	failed := 0

	for _, pageURL := range urls {
		p := controller.Click(ctx, pageURL)

		switch p.State {
		case popup.StateRendered:
			if err = printSummary(cmd.OutOrStdout(), p, opts, log); err != nil {
				return err
			}
			popups = append(popups, p)
		case popup.StateErrorDisplayed:
			printError(stderr, p.Notice)
			popups = append(popups, p)
			failed++
		case popup.StateAborted:
			return fmt.Errorf("%w: %s", credential.ErrAbsentCredential, p.Notice)
		default:
			return fmt.Errorf("summary stopped in state %s", p.State)
		}
	}

	if opts.htmlPath != "" {
		if err = os.WriteFile(opts.htmlPath, []byte(popupDocument(urls, popups)), 0o600); err != nil {
			return fmt.Errorf("write HTML: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d summaries failed", failed, len(urls))
	}

	return nil
}

func printSummary(out io.Writer, p *popup.Popup, opts summarizeOptions, log *slog.Logger) error {
	text := p.Summary
	if !opts.raw {
		rendered, err := markdown.ToTerminal(p.Summary, opts.wordWrap)
		if err != nil {
			log.Warn("Failed to render summary for terminal so raw Markdown will be printed",
				"error", err)
		}
		text = rendered
	}

	if _, err := fmt.Fprintln(out, text); err != nil {
		return fmt.Errorf("print summary: %w", err)
	}

	return nil
}

func popupDocument(urls []string, popups []*popup.Popup) string {
	var b strings.Builder

	b.WriteString("<!doctype html>\n<html>\n<head><meta charset=\"utf-8\"><title>")
	b.WriteString(popup.Title)
	b.WriteString("</title></head>\n<body>\n")

	for i, p := range popups {
		b.WriteString("<section>\n<h2>")
		b.WriteString(popup.Title)
		b.WriteString("</h2>\n")
		if i < len(urls) {
			b.WriteString("<p><a href=\"")
			b.WriteString(html.EscapeString(urls[i]))
			b.WriteString("\">")
			b.WriteString(html.EscapeString(urls[i]))
			b.WriteString("</a></p>\n")
		}
		b.WriteString("<div class=\"summary-content\">")
		b.WriteString(p.Content)
		b.WriteString("</div>\n</section>\n")
	}

	b.WriteString("</body>\n</html>\n")

	return b.String()
}

func newServeCommand(cfg config.Config, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve plugin pages with the summary button injected",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			d, err := initDeps(ctx, cfg, credential.NotifierFunc(func(ctx context.Context, notice credential.Notice) {
				log.InfoContext(ctx, "Credential notice",
					"notice", notice.String())
			}), log)
			if err != nil {
				return err
			}
			defer d.close(ctx, log)

			controller := popup.NewController(d.provider, d.scraper, d.summarizer, log)
			srv := server.New(cfg.ListenAddr, d.scraper, controller, d.provider, log)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Run()
			}()

			select {
			case err = <-errCh:
				return fmt.Errorf("run server: %w", err)
			case <-ctx.Done():
				log.InfoContext(ctx, "Shutdown signal is received",
					"listenAddr", cfg.ListenAddr)
			}

			if err = srv.Shutdown(); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			log.InfoContext(ctx, "Server is stopped")

			return nil
		},
	}
}
