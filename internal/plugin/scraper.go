package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	DefaultFetchTimeout = 20 * time.Second
)

type Scraper struct {
	client *http.Client
	log    *slog.Logger
}

func NewScraper(timeout time.Duration, log *slog.Logger) *Scraper {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	return &Scraper{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Fetch downloads pageURL and parses it into a document.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	pageURL = strings.TrimSpace(pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req) //nolint:gosec // plugin directory URL
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			s.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"pageURL", pageURL,
				"operation", "Fetch")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}

	return doc, nil
}

// Scrape reads the plugin fields from pageURL. A page that cannot be
// fetched yields placeholders.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) Page {
	doc, err := s.Fetch(ctx, pageURL)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch plugin page so placeholders will be used",
			"error", err,
			"pageURL", pageURL)

		return PlaceholderPage(pageURL)
	}

	page := Extract(doc, pageURL)
	s.log.DebugContext(ctx, "Plugin page is scraped",
		"pageURL", pageURL,
		"title", page.Title,
		"author", page.Author)

	return page
}
