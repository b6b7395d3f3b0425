package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

type Provider struct {
	store      Store
	configured Credential
	notifier   Notifier
	log        *slog.Logger

	mu       sync.Mutex
	resolved Credential
}

// NewProvider builds a provider. A non-empty configured credential is used
// as is and the store is never consulted.
func NewProvider(
	store Store,
	configured string,
	notifier Notifier,
	log *slog.Logger,
) *Provider {
	return &Provider{
		store:      store,
		configured: Credential(strings.TrimSpace(configured)),
		notifier:   notifier,
		log:        log,
	}
}

// Resolve returns the credential without any prompt. ErrInputRequired is
// returned when nothing is configured or stored.
func (p *Provider) Resolve(ctx context.Context) (Credential, error) {
	if p.configured != "" {
		return p.configured, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resolved != "" {
		return p.resolved, nil
	}

	if p.store == nil {
		return "", ErrInputRequired
	}

	value, ok, err := p.store.GetSetting(ctx, StoreKey)
	if err != nil {
		return "", fmt.Errorf("get setting: %w", err)
	}

	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", ErrInputRequired
	}

	p.resolved = Credential(value)

	return p.resolved, nil
}

// Supply persists operator input. Empty input emits the missing notice and
// yields ErrAbsentCredential.
func (p *Provider) Supply(ctx context.Context, input string) (Credential, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		p.notify(ctx, NoticeMissing)

		return "", ErrAbsentCredential
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store != nil {
		if err := p.store.SetSetting(ctx, StoreKey, input); err != nil {
			return "", fmt.Errorf("set setting: %w", err)
		}
	}

	p.resolved = Credential(input)
	p.log.InfoContext(ctx, "API key is stored",
		"key", StoreKey,
		"persisted", p.store != nil)

	p.notify(ctx, NoticeSaved)

	return p.resolved, nil
}

// Acquire resolves the credential and falls back to prompter when input is
// required. A nil prompter leaves ErrInputRequired to the caller.
func (p *Provider) Acquire(ctx context.Context, prompter Prompter) (Credential, error) {
	cred, err := p.Resolve(ctx)
	if err == nil || !errors.Is(err, ErrInputRequired) || prompter == nil {
		return cred, err
	}

	input, err := prompter.PromptCredential(ctx)
	if err != nil && !errors.Is(err, ErrPromptCancelled) {
		return "", fmt.Errorf("prompt credential: %w", err)
	}
	if err != nil {
		p.log.InfoContext(ctx, "API key prompt is cancelled",
			"key", StoreKey)

		input = ""
	}

	return p.Supply(ctx, input)
}

func (p *Provider) notify(ctx context.Context, notice Notice) {
	if p.notifier == nil {
		return
	}

	p.notifier.Notify(ctx, notice)
}
