package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anoopvm/coconut-advisor-go/internal/metrics"
)

// ErrNoProviders is returned when no provider has an API key configured.
var ErrNoProviders = errors.New("no llm providers configured")

// candidate is one (provider, model) pair in the fallback chain.
type candidate struct {
	completer Completer
	model     string
}

// FallbackCompleter runs the 3-layer fallback strategy across every
// configured (provider, model) pair: retry with backoff on the pair, then the
// next model of the provider, then the next provider.
type FallbackCompleter struct {
	candidates []candidate
	retry      RetryConfig
	timeout    time.Duration
}

// New builds the fallback chain from cfg. Providers without an API key are
// skipped; ErrNoProviders is returned when none remain.
func New(ctx context.Context, cfg Config) (*FallbackCompleter, error) {
	if len(cfg.Providers) == 0 {
		cfg.Providers = DefaultProviders
	}

	var candidates []candidate
	for _, p := range cfg.ConfiguredProviders() {
		pc := cfg.providerConfig(p)
		models := pc.Models
		if len(models) == 0 {
			models = defaultModels(p)
		}
		for _, model := range models {
			c, err := buildCompleter(ctx, p, pc.APIKey, model)
			if err != nil {
				return nil, fmt.Errorf("build %s completer: %w", p, err)
			}
			candidates = append(candidates, candidate{completer: c, model: model})
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoProviders
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = DefaultMaxRetryAttempts
	}
	if retry.InitialDelay <= 0 {
		retry.InitialDelay = DefaultInitialRetryDelay
	}
	if retry.MaxDelay <= 0 {
		retry.MaxDelay = DefaultMaxRetryDelay
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &FallbackCompleter{candidates: candidates, retry: retry, timeout: timeout}, nil
}

func defaultModels(p Provider) []string {
	switch p {
	case ProviderGemini:
		return DefaultGeminiModels
	case ProviderGroq:
		return DefaultGroqModels
	case ProviderCerebras:
		return DefaultCerebrasModels
	default:
		return nil
	}
}

func buildCompleter(ctx context.Context, p Provider, apiKey, model string) (Completer, error) {
	if p == ProviderGemini {
		return newGeminiCompleter(ctx, apiKey, model)
	}
	return newOpenAICompleter(p, apiKey, model)
}

// Complete walks the candidate chain until one call succeeds. Each candidate
// gets its own timeout and retry budget. The last error is returned when the
// whole chain is exhausted.
func (f *FallbackCompleter) Complete(ctx context.Context, req Request) (string, error) {
	var lastErr error

	for i, c := range f.candidates {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		var text string
		start := time.Now()
		err := withRetry(ctx, f.retry,
			func(attempt int, err error) {
				slog.DebugContext(ctx, "retrying completion",
					"provider", c.completer.Provider(),
					"model", c.model,
					"attempt", attempt,
					"error", err)
			},
			func() error {
				callCtx, cancel := context.WithTimeout(ctx, f.timeout)
				defer cancel()
				var callErr error
				text, callErr = c.completer.Complete(callCtx, req)
				return callErr
			})
		if err == nil {
			metrics.Global().RecordCompletion(string(c.completer.Provider()), "success", time.Since(start).Seconds())
			return text, nil
		}
		metrics.Global().RecordCompletion(string(c.completer.Provider()), "error", time.Since(start).Seconds())
		lastErr = err

		if errors.Is(err, context.Canceled) {
			return "", err
		}
		if i < len(f.candidates)-1 {
			slog.InfoContext(ctx, "falling back to next completion candidate",
				"failed_provider", c.completer.Provider(),
				"failed_model", c.model,
				"action", Classify(err).String(),
				"error", err)
		}
	}

	return "", fmt.Errorf("all completion candidates failed: %w", lastErr)
}

// Provider returns the primary provider in the chain.
func (f *FallbackCompleter) Provider() Provider {
	if len(f.candidates) == 0 {
		return ""
	}
	return f.candidates[0].completer.Provider()
}

// Close closes every completer in the chain.
func (f *FallbackCompleter) Close() error {
	var errs []error
	for _, c := range f.candidates {
		if err := c.completer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
