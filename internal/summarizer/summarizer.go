package summarizer

import (
	"context"
	"errors"
	"pluginsummary/internal/credential"
)

var (
	// ErrTransport wraps network level failures: DNS, refused connections,
	// cancelled contexts.
	ErrTransport = errors.New("failed to connect to OpenAI API")
	// ErrMalformedResponse means a response arrived but carried no usable
	// choice content.
	ErrMalformedResponse = errors.New("failed to generate summary")
)

// Summarizer turns a prompt into summary text.
type Summarizer interface {
	Summarize(ctx context.Context, cred credential.Credential, prompt string) (string, error)
}
