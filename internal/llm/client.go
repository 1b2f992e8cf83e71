// Package llm holds the completion contract, its provider backends and the
// extractor that turns a free-text reply into JSON.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sharkin/internal/config"
)

// Request is a single text completion.
type Request struct {
	Phase       string // label for logs and call records, e.g. "hooks/generation"
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Completer issues one completion per call. Implementations never retry.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

var (
	// ErrProvider matches every *ProviderError.
	ErrProvider = errors.New("completion provider error")
	// ErrEmptyCompletion is wrapped when the provider answered with no text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// ProviderError is a failed completion: transport, auth, rate limit or an
// empty reply. It is distinct from a ParseError.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// New builds the Completer selected by cfg.
func New(cfg *config.Config) (Completer, error) {
	timeout := cfg.LLMTimeout()
	switch cfg.LLM.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicClient(AnthropicConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: timeout,
		}), nil
	case config.ProviderGemini:
		return NewGeminiClient(context.Background(), GeminiConfig{
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: timeout,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// TraceFunc observes a finished completion. raw is empty when err is set.
type TraceFunc func(ctx context.Context, req Request, raw string, err error)

type traced struct {
	Completer
	trace TraceFunc
}

// WithTrace wraps c so that fn sees every completion after it returns.
func WithTrace(c Completer, fn TraceFunc) Completer {
	if fn == nil {
		return c
	}
	return &traced{Completer: c, trace: fn}
}

func (t *traced) Complete(ctx context.Context, req Request) (string, error) {
	raw, err := t.Completer.Complete(ctx, req)
	t.trace(ctx, req, raw, err)
	return raw, err
}

// withDefaultTimeout bounds ctx when the caller set no deadline.
func withDefaultTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
