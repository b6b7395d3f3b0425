package popup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"pluginsummary/internal/credential"
	"pluginsummary/internal/markdown"
	"pluginsummary/internal/plugin"
	"pluginsummary/internal/summarizer"
	"time"
)

type CredentialSource interface {
	Acquire(ctx context.Context, prompter credential.Prompter) (credential.Credential, error)
}

type PageScraper interface {
	Scrape(ctx context.Context, pageURL string) plugin.Page
}

type Renderer func(source string) (string, error)

type Controller struct {
	credentials CredentialSource
	scraper     PageScraper
	summarizer  summarizer.Summarizer
	render      Renderer
	prompter    credential.Prompter
	log         *slog.Logger
}

type Option func(*Controller)

// WithPrompter lets clicks ask for a missing credential in place. Without
// it an absent credential surfaces as InputRequired.
func WithPrompter(p credential.Prompter) Option {
	return func(c *Controller) { c.prompter = p }
}

// WithRenderer replaces the Markdown to HTML renderer.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.render = r }
}

func NewController(
	credentials CredentialSource,
	scraper PageScraper,
	s summarizer.Summarizer,
	log *slog.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		credentials: credentials,
		scraper:     scraper,
		summarizer:  s,
		render:      markdown.ToHTML,
		log:         log,
	}
	for _, o := range opts {
		o(c)
	}

	return c
}

// Click runs one summary flow for pageURL. Errors never escape; they end up
// in the returned popup.
func (c *Controller) Click(ctx context.Context, pageURL string) *Popup {
	start := time.Now()
	p := newPopup()

	p.State = StateAwaitingCredential

	cred, err := c.credentials.Acquire(ctx, c.prompter)
	switch {
	case errors.Is(err, credential.ErrInputRequired):
		p.InputRequired = true
		p.Notice = credential.NoticeMissing.String()
		c.log.InfoContext(ctx, "API key input is required",
			"pageURL", pageURL)

		return p
	case errors.Is(err, credential.ErrAbsentCredential):
		p.State = StateAborted
		p.Notice = credential.NoticeMissing.String()
		p.Content = markdown.ErrorHTML(p.Notice)
		c.log.WarnContext(ctx, "Summary is aborted",
			"error", err,
			"pageURL", pageURL,
			"state", p.State.String())

		return p
	case err != nil:
		c.displayError(ctx, p, pageURL, fmt.Errorf("%w: %w", errCredentialUnavailable, err))

		return p
	}

	p.State = StateAwaitingCompletion
	p.Visible = true

	page := c.scraper.Scrape(ctx, pageURL)

	summary, err := c.summarizer.Summarize(ctx, cred, plugin.BuildPrompt(page))
	if err != nil {
		c.displayError(ctx, p, pageURL, err)

		return p
	}

	p.Summary = summary

	content, err := c.render(summary)
	if err != nil {
		c.displayError(ctx, p, pageURL, err)

		return p
	}

	p.State = StateRendered
	p.Content = content
	c.log.InfoContext(ctx, "Summary is rendered",
		"pageURL", pageURL,
		"title", page.Title,
		"summaryLen", len(summary),
		"elapsedSeconds", time.Since(start).Seconds())

	return p
}

func (c *Controller) displayError(ctx context.Context, p *Popup, pageURL string, err error) {
	p.State = StateErrorDisplayed
	p.Visible = true
	p.Notice = userMessage(err)
	p.Content = markdown.ErrorHTML(p.Notice)
	c.log.ErrorContext(ctx, "Failed to generate summary",
		"error", err,
		"pageURL", pageURL,
		"state", p.State.String())
}

var errCredentialUnavailable = errors.New("failed to read OpenAI API key")

func userMessage(err error) string {
	switch {
	case errors.Is(err, errCredentialUnavailable):
		return "Failed to read OpenAI API key"
	case errors.Is(err, summarizer.ErrTransport):
		return "Failed to connect to OpenAI API"
	case errors.Is(err, summarizer.ErrMalformedResponse):
		return "Failed to generate summary"
	default:
		return err.Error()
	}
}
