package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"pluginsummary/internal/credential"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	Model           = openai.ChatModelGPT4o
	MaxTokens int64 = 500
)

// OpenAISummarizer calls OpenAI's Chat Completions API. The credential is
// passed per call and never kept on the client.
type OpenAISummarizer struct {
	client openai.Client
}

// NewOpenAISummarizer builds a summarizer that talks to baseURL, or to the
// SDK default when baseURL is empty. Retries are disabled.
func NewOpenAISummarizer(baseURL string) *OpenAISummarizer {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAISummarizer{
		client: openai.NewClient(opts...),
	}
}

func (s *OpenAISummarizer) Summarize(
	ctx context.Context,
	cred credential.Credential,
	prompt string,
) (string, error) {
	if cred == "" {
		return "", credential.ErrAbsentCredential
	}

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(MaxTokens),
	}, option.WithAPIKey(string(cred)))
	if err != nil {
		return "", classifyError(err)
	}

	if completion == nil {
		return "", fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrMalformedResponse)
	}

	summary := strings.TrimSpace(completion.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("%w: first choice has no content", ErrMalformedResponse)
	}

	return summary, nil
}

func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %w", ErrMalformedResponse, apiErr.StatusCode, err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return fmt.Errorf("%w: decode response: %w", ErrMalformedResponse, err)
}
