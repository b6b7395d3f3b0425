package popup_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"pluginsummary/internal/credential"
	"pluginsummary/internal/plugin"
	"pluginsummary/internal/popup"
	"pluginsummary/internal/summarizer"
	"strings"
	"sync/atomic"
	"testing"
)

const pageURL = "https://wordpress.org/plugins/akismet/"

type memoryStore struct {
	values map[string]string
}

func (s *memoryStore) GetSetting(_ context.Context, key string) (string, bool, error) {
	value, ok := s.values[key]

	return value, ok, nil
}

func (s *memoryStore) SetSetting(_ context.Context, key string, value string) error {
	s.values[key] = value

	return nil
}

type cancellingPrompter struct{}

func (cancellingPrompter) PromptCredential(_ context.Context) (string, error) {
	return "", credential.ErrPromptCancelled
}

type stubScraper struct {
	calls atomic.Int32
}

func (s *stubScraper) Scrape(_ context.Context, pageURL string) plugin.Page {
	s.calls.Add(1)

	page := plugin.PlaceholderPage(pageURL)
	page.Title = "Akismet"

	return page
}

type stubSummarizer struct {
	summary string
	err     error
	prompt  string
}

func (s *stubSummarizer) Summarize(_ context.Context, _ credential.Credential, prompt string) (string, error) {
	s.prompt = prompt

	return s.summary, s.err
}

func newCompletionServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestClickRendersSummary(t *testing.T) {
	srv, calls := newCompletionServer(t,
		`{"choices":[{"message":{"content":"- Blocks spam\n- Free for personal sites"}}]}`)

	store := &memoryStore{values: map[string]string{credential.StoreKey: "sk-stored"}}
	provider := credential.NewProvider(store, "", nil, slog.Default())
	scraper := &stubScraper{}

	c := popup.NewController(provider, scraper, summarizer.NewOpenAISummarizer(srv.URL), slog.Default())

	p := c.Click(context.Background(), pageURL)

	if p.State != popup.StateRendered {
		t.Fatalf("unexpected state: %s", p.State)
	}

	if !p.Visible {
		t.Fatalf("expected popup to be visible")
	}

	if !strings.Contains(p.Content, "<li>Blocks spam</li>") {
		t.Fatalf("expected rendered HTML, got %q", p.Content)
	}

	if calls.Load() != 1 || scraper.calls.Load() != 1 {
		t.Fatalf("expected one request and one scrape, got %d and %d", calls.Load(), scraper.calls.Load())
	}
}

func TestClickWithoutCredentialAborts(t *testing.T) {
	srv, calls := newCompletionServer(t, `{"choices":[{"message":{"content":"unused"}}]}`)

	provider := credential.NewProvider(&memoryStore{values: map[string]string{}}, "", nil, slog.Default())
	scraper := &stubScraper{}

	c := popup.NewController(
		provider,
		scraper,
		summarizer.NewOpenAISummarizer(srv.URL),
		slog.Default(),
		popup.WithPrompter(cancellingPrompter{}),
	)

	p := c.Click(context.Background(), pageURL)

	if p.State != popup.StateAborted || !p.State.Terminal() {
		t.Fatalf("unexpected state: %s", p.State)
	}

	if p.Visible {
		t.Fatalf("expected popup to stay hidden")
	}

	if calls.Load() != 0 || scraper.calls.Load() != 0 {
		t.Fatalf("expected no outbound work, got %d requests and %d scrapes", calls.Load(), scraper.calls.Load())
	}
}

type lockedStore struct{}

func (lockedStore) GetSetting(_ context.Context, _ string) (string, bool, error) {
	return "", false, errors.New("database is locked")
}

func (lockedStore) SetSetting(_ context.Context, _ string, _ string) error {
	return errors.New("database is locked")
}

func TestClickStoreFailureIsDisplayedAsError(t *testing.T) {
	provider := credential.NewProvider(lockedStore{}, "", nil, slog.Default())
	scraper := &stubScraper{}
	stub := &stubSummarizer{summary: "unused"}

	c := popup.NewController(provider, scraper, stub, slog.Default(),
		popup.WithPrompter(cancellingPrompter{}))

	p := c.Click(context.Background(), pageURL)

	if p.State != popup.StateErrorDisplayed {
		t.Fatalf("unexpected state: %s", p.State)
	}

	if p.Notice != "Failed to read OpenAI API key" {
		t.Fatalf("unexpected notice: %q", p.Notice)
	}

	if p.Notice == credential.NoticeMissing.String() {
		t.Fatalf("expected store failure not to be reported as a missing key")
	}

	if scraper.calls.Load() != 0 || stub.prompt != "" {
		t.Fatalf("expected no scrape and no request")
	}
}

func TestClickWithoutPrompterRequiresInput(t *testing.T) {
	provider := credential.NewProvider(&memoryStore{values: map[string]string{}}, "", nil, slog.Default())
	stub := &stubSummarizer{summary: "unused"}

	c := popup.NewController(provider, &stubScraper{}, stub, slog.Default())

	p := c.Click(context.Background(), pageURL)

	if p.State != popup.StateAwaitingCredential || p.State.Terminal() {
		t.Fatalf("unexpected state: %s", p.State)
	}

	if !p.InputRequired || p.Visible {
		t.Fatalf("expected hidden popup requiring input, got %+v", p)
	}

	if stub.prompt != "" {
		t.Fatalf("expected summarizer not to be called")
	}
}

func TestClickDisplaysErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "transport",
			err:  summarizer.ErrTransport,
			want: "Error: Failed to connect to OpenAI API",
		},
		{
			name: "malformed",
			err:  summarizer.ErrMalformedResponse,
			want: "Error: Failed to generate summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := credential.NewProvider(nil, "sk-env", nil, slog.Default())
			stub := &stubSummarizer{err: tt.err}

			c := popup.NewController(provider, &stubScraper{}, stub, slog.Default())

			p := c.Click(context.Background(), pageURL)

			if p.State != popup.StateErrorDisplayed {
				t.Fatalf("unexpected state: %s", p.State)
			}

			if !p.Visible {
				t.Fatalf("expected popup to be visible")
			}

			if !strings.Contains(p.Content, tt.want) || !strings.Contains(p.Content, "color: red;") {
				t.Fatalf("unexpected content: %q", p.Content)
			}
		})
	}
}

func TestClickRendererFailure(t *testing.T) {
	provider := credential.NewProvider(nil, "sk-env", nil, slog.Default())
	stub := &stubSummarizer{summary: "text"}

	c := popup.NewController(provider, &stubScraper{}, stub, slog.Default(),
		popup.WithRenderer(func(string) (string, error) { return "", errors.New("render broke") }))

	p := c.Click(context.Background(), pageURL)

	if p.State != popup.StateErrorDisplayed || p.Summary != "text" {
		t.Fatalf("unexpected popup: %+v", p)
	}

	if !strings.Contains(stub.prompt, "Plugin Title: Akismet") {
		t.Fatalf("expected prompt to be built from scraped page, got %q", stub.prompt)
	}
}

func TestClickRestartsAtIdle(t *testing.T) {
	provider := credential.NewProvider(nil, "sk-env", nil, slog.Default())
	stub := &stubSummarizer{err: summarizer.ErrTransport}

	c := popup.NewController(provider, &stubScraper{}, stub, slog.Default())

	if p := c.Click(context.Background(), pageURL); p.State != popup.StateErrorDisplayed {
		t.Fatalf("unexpected first state: %s", p.State)
	}

	stub.err = nil
	stub.summary = "Recovered"

	p := c.Click(context.Background(), pageURL)
	if p.State != popup.StateRendered || !strings.Contains(p.Content, "Recovered") {
		t.Fatalf("unexpected second popup: %+v", p)
	}
}
