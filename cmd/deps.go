package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"pluginsummary/internal/config"
	"pluginsummary/internal/credential"
	"pluginsummary/internal/database"
	"pluginsummary/internal/plugin"
	"pluginsummary/internal/summarizer"
	"strings"
)

type deps struct {
	db         *database.Database
	provider   *credential.Provider
	scraper    *plugin.Scraper
	summarizer *summarizer.OpenAISummarizer
}

func initDeps(
	ctx context.Context,
	cfg config.Config,
	notifier credential.Notifier,
	log *slog.Logger,
) (*deps, error) {
	dbPath := strings.TrimSpace(cfg.DBPath)

	db, err := database.New(ctx, dbPath, log)
	if err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}
	log.InfoContext(ctx, "DB is initialized",
		"dbPath", dbPath)

	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		log.InfoContext(ctx, "Using configured API key",
			"envVar", "OPENAI_API_KEY")
	}

	return &deps{
		db:         db,
		provider:   credential.NewProvider(db, cfg.OpenAIAPIKey, notifier, log),
		scraper:    plugin.NewScraper(cfg.PageFetchTimeout, log),
		summarizer: summarizer.NewOpenAISummarizer(cfg.OpenAIBaseURL),
	}, nil
}

func (d *deps) close(ctx context.Context, log *slog.Logger) {
	if err := d.db.Close(); err != nil {
		log.ErrorContext(ctx, "Failed to close db",
			"error", err)
	}
}

// collectPageURLs keeps arguments that are plugin page URLs and mines the
// rest as free text.
func collectPageURLs(inputs []string) ([]string, error) {
	var urls []string
	var errs []error
	seen := make(map[string]struct{})

	add := func(u string) {
		_, slug := plugin.IsPageURL(u)
		key := plugin.PageURL(slug)
		if _, ok := seen[key]; ok {
			return
		}

		seen[key] = struct{}{}
		urls = append(urls, u)
	}

	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if ok, _ := plugin.IsPageURL(input); ok {
			add(input)

			continue
		}

		found, err := plugin.FindPageURLs(input)
		if err != nil {
			errs = append(errs, fmt.Errorf("find page URLs: %w", err))

			continue
		}

		for _, u := range found {
			add(u)
		}
	}

	return urls, errors.Join(errs...)
}
