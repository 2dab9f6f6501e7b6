// Package intent classifies farmer queries into coconut farming topics.
//
// The pipeline is deterministic-first: a single keyword hit decides without
// any remote call; only inconclusive queries reach the completion service,
// behind the shared response cache.
package intent

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/anoopvm/coconut-advisor-go/internal/cache"
	"github.com/anoopvm/coconut-advisor-go/internal/ctxutil"
	"github.com/anoopvm/coconut-advisor-go/internal/llm"
	"github.com/anoopvm/coconut-advisor-go/internal/metrics"
	"github.com/anoopvm/coconut-advisor-go/internal/nlu"
	"github.com/anoopvm/coconut-advisor-go/internal/ratelimit"
)

// Source records which stage produced a classification.
type Source string

const (
	SourceKeyword  Source = "keyword"
	SourceCache    Source = "cache"
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// historyTurns is how many recent user turns the prompt includes.
const historyTurns = 4

// classifyMaxTokens bounds the model's JSON reply.
const classifyMaxTokens = 100

// classifyTemperature keeps classification near-deterministic.
const classifyTemperature = 0.3

// Result is the outcome of classifying one query. ClarifyingQuestion is set
// only when Intent is ambiguous.
type Result struct {
	Intent             nlu.Intent `json:"intent"`
	ClarifyingQuestion string     `json:"clarifying_question,omitempty"`
	Source             Source     `json:"-"`
}

// Ambiguous reports whether the result needs clarification.
func (r Result) Ambiguous() bool { return r.Intent == nlu.IntentAmbiguous }

// Classifier routes queries to intents via keywords, cache and the
// completion service, in that order.
type Classifier struct {
	cache     *cache.Store
	completer llm.Completer
	limiter   *ratelimit.KeyedLimiter
	group     singleflight.Group
}

// NewClassifier creates a classifier. completer may be nil, in which case
// inconclusive queries degrade directly to the ambiguous fallback. limiter
// bounds completion calls per sender; nil disables the budget.
func NewClassifier(store *cache.Store, completer llm.Completer, limiter *ratelimit.KeyedLimiter) *Classifier {
	return &Classifier{cache: store, completer: completer, limiter: limiter}
}

// Classify determines the intent of rawQuery. priorIntent is the previously
// classified intent slot, used to discriminate cache entries of context-
// dependent follow-ups; pass "" when none exists. history is the recent
// user-only turns, most recent last. Classify never fails: any remote error
// degrades to an uncached ambiguous result.
func (c *Classifier) Classify(ctx context.Context, rawQuery string, history []string, priorIntent nlu.Intent) Result {
	normalized := nlu.Normalize(rawQuery)
	m := metrics.Global()

	// A single keyword hit is confident on its own, skip cache and model.
	if matches := nlu.Match(normalized); len(matches) == 1 {
		m.RecordClassification(string(SourceKeyword), matches[0].String())
		return Result{Intent: matches[0], Source: SourceKeyword}
	}

	key := cache.Key("classify", normalized, priorIntent.String())
	if v, ok := c.cache.Get(key); ok {
		if cached, ok := v.(Result); ok {
			cached.Source = SourceCache
			m.RecordCacheHit("classify")
			m.RecordClassification(string(SourceCache), cached.Intent.String())
			return cached
		}
	}
	m.RecordCacheMiss("classify")

	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}

	// Identical concurrent misses share one model call.
	v, err, _ := c.group.Do(key, func() (any, error) {
		return c.classifyRemote(ctx, rawQuery, history, key), nil
	})
	if err != nil {
		return ambiguousFallback()
	}
	result := v.(Result)
	m.RecordClassification(string(result.Source), result.Intent.String())
	return result
}

// classifyRemote asks the completion service and caches a successfully
// parsed result. Failures return the synthetic ambiguous result, which is
// never cached.
func (c *Classifier) classifyRemote(ctx context.Context, rawQuery string, history []string, key string) Result {
	if c.completer == nil {
		return ambiguousFallback()
	}

	if c.limiter != nil && !c.limiter.Allow(ctxutil.GetSenderID(ctx)) {
		slog.WarnContext(ctx, "sender exhausted the completion budget, degrading to ambiguous",
			"query_length", len(rawQuery))
		return ambiguousFallback()
	}

	text, err := c.completer.Complete(ctx, llm.Request{
		Prompt:      buildClassifyPrompt(rawQuery, history),
		Temperature: classifyTemperature,
		MaxTokens:   classifyMaxTokens,
	})
	if err != nil {
		slog.WarnContext(ctx, "intent classification failed, degrading to ambiguous",
			"query_length", len(rawQuery),
			"error", err)
		return ambiguousFallback()
	}

	result, ok := parseResult(text)
	if !ok {
		slog.WarnContext(ctx, "intent classification returned unparseable output, degrading to ambiguous",
			"output_length", len(text))
		return ambiguousFallback()
	}

	c.cache.Put(key, result)
	result.Source = SourceModel
	return result
}

func ambiguousFallback() Result {
	return Result{
		Intent:             nlu.IntentAmbiguous,
		ClarifyingQuestion: GenericClarification,
		Source:             SourceFallback,
	}
}

// parseResult decodes the model's strict-JSON reply. Code fences are
// tolerated; anything else malformed, or an intent outside the enumeration,
// is a recoverable failure.
func parseResult(text string) (Result, bool) {
	text = stripCodeFence(strings.TrimSpace(text))

	var r Result
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return Result{}, false
	}
	if r.Intent == nlu.IntentAmbiguous {
		if r.ClarifyingQuestion == "" {
			r.ClarifyingQuestion = GenericClarification
		}
		return r, true
	}
	if !nlu.IsTopic(r.Intent) {
		return Result{}, false
	}
	r.ClarifyingQuestion = ""
	return r, true
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
