package credential

import (
	"context"
	"errors"
)

// StoreKey is the settings key the API key is persisted under.
const StoreKey = "openai_api_key"

var (
	// ErrAbsentCredential means no key could be resolved; the caller must
	// not issue any request.
	ErrAbsentCredential = errors.New("API key is absent")
	// ErrInputRequired means nothing is stored yet and the operator has to
	// supply a key through the UI layer.
	ErrInputRequired = errors.New("API key input is required")
	// ErrPromptCancelled is returned by a Prompter when the operator backs out.
	ErrPromptCancelled = errors.New("API key prompt is cancelled")
)

// Credential is an opaque bearer token for the completion API.
type Credential string

type Notice int

const (
	NoticeSaved Notice = iota
	NoticeMissing
)

func (n Notice) String() string {
	switch n {
	case NoticeSaved:
		return "OpenAI API key saved."
	case NoticeMissing:
		return "OpenAI API key is required to generate summaries."
	default:
		return "unknown notice"
	}
}

type Store interface {
	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key string, value string) error
}

type Prompter interface {
	PromptCredential(ctx context.Context) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

type NotifierFunc func(ctx context.Context, notice Notice)

func (f NotifierFunc) Notify(ctx context.Context, notice Notice) {
	f(ctx, notice)
}
