package llm

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Action is the decision taken after a failed completion call.
type Action int

const (
	// ActionRetry retries the same provider and model after backoff.
	ActionRetry Action = iota
	// ActionFallback moves on to the next model or provider.
	ActionFallback
	// ActionFail aborts immediately (permanent error).
	ActionFail
)

// String returns a human-readable string for the action.
func (a Action) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionFallback:
		return "fallback"
	case ActionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// CallError wraps a provider error with the context needed for the
// retry/fallback decision.
type CallError struct {
	Err        error
	Provider   Provider
	Model      string
	StatusCode int
}

func (e *CallError) Error() string {
	if e.StatusCode > 0 {
		return e.Err.Error() + " (status: " + strconv.Itoa(e.StatusCode) + ")"
	}
	return e.Err.Error()
}

func (e *CallError) Unwrap() error { return e.Err }

// wrapCallError attaches provider/model context to err.
func wrapCallError(err error, provider Provider, model string, statusCode int) error {
	if err == nil {
		return nil
	}
	return &CallError{Err: err, Provider: provider, Model: model, StatusCode: statusCode}
}

// Classify decides how to react to a failed completion:
//   - rate limits, timeouts and 5xx are transient → retry
//   - quota/billing exhaustion → fallback to another model or provider
//   - auth and request errors (400/401/403/404/422) → fail
func Classify(err error) Action {
	if err == nil {
		return ActionFail
	}
	if errors.Is(err, context.Canceled) {
		return ActionFail
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ActionRetry
	}

	var callErr *CallError
	if errors.As(err, &callErr) && callErr.StatusCode > 0 {
		return classifyStatus(callErr.StatusCode)
	}

	msg := strings.ToLower(err.Error())

	// Quota exhaustion will not recover within a request, skip straight to
	// the next model/provider.
	if containsAny(msg, "quota", "daily limit", "monthly limit", "billing") {
		return ActionFallback
	}
	if containsAny(msg, "429", "rate limit", "too many requests", "resource_exhausted") {
		return ActionRetry
	}
	if containsAny(msg, "500", "502", "503", "504", "unavailable", "overloaded",
		"internal server error", "bad gateway", "gateway timeout", "capacity") {
		return ActionRetry
	}
	if containsAny(msg, "408", "timeout", "deadline", "connection") {
		return ActionRetry
	}
	if containsAny(msg, "400", "bad request", "malformed", "invalid") {
		return ActionFail
	}
	if containsAny(msg, "401", "unauthorized", "unauthenticated", "invalid api key") {
		return ActionFail
	}
	if containsAny(msg, "403", "forbidden", "permission denied") {
		return ActionFail
	}
	if containsAny(msg, "404", "not found") {
		return ActionFail
	}

	// Unknown errors are assumed transient.
	return ActionRetry
}

func classifyStatus(code int) Action {
	switch {
	case code == http.StatusTooManyRequests,
		code == http.StatusRequestTimeout,
		code == http.StatusConflict:
		return ActionRetry
	case code >= 500:
		return ActionRetry
	case code >= 400:
		return ActionFail
	default:
		return ActionRetry
	}
}

// IsPermanent reports whether err should abort without retrying.
func IsPermanent(err error) bool { return Classify(err) == ActionFail }

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
