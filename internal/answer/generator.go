// Package answer generates grounded replies for classified queries. Every
// generated text is validated against the knowledge subsection it was
// grounded on; rejected or failed generations degrade to the raw subsection
// so the farmer always gets an answer.
package answer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anoopvm/coconut-advisor-go/internal/cache"
	"github.com/anoopvm/coconut-advisor-go/internal/ctxutil"
	"github.com/anoopvm/coconut-advisor-go/internal/knowledge"
	"github.com/anoopvm/coconut-advisor-go/internal/llm"
	"github.com/anoopvm/coconut-advisor-go/internal/metrics"
	"github.com/anoopvm/coconut-advisor-go/internal/nlu"
	"github.com/anoopvm/coconut-advisor-go/internal/ratelimit"
)

// NoInformation is returned for intents outside the knowledge base; no
// remote call is made in that case.
const NoInformation = "Sorry, I don't have information on that topic yet. I can help with coconut cultivation, varieties, fertilizers, irrigation, pests, diseases, harvesting and intercropping."

// historyTurns is how many recent user turns the prompt includes.
const historyTurns = 6

// answerMaxTokens bounds the generated reply.
const answerMaxTokens = 500

// answerTemperature keeps generation close to the supplied facts.
const answerTemperature = 0.3

// Generator produces answers for classified intents.
type Generator struct {
	cache     *cache.Store
	completer llm.Completer
	validator *Validator
	limiter   *ratelimit.KeyedLimiter
}

// NewGenerator creates a generator. completer may be nil, in which case
// every answer is the knowledge-base fallback. limiter bounds completion
// calls per sender; nil disables the budget.
func NewGenerator(store *cache.Store, completer llm.Completer, validator *Validator, limiter *ratelimit.KeyedLimiter) *Generator {
	return &Generator{cache: store, completer: completer, validator: validator, limiter: limiter}
}

// Answer produces a reply for rawQuery under the already-classified intent.
// history is the recent user-only turns, most recent last. The result is
// never empty and the method never fails; remote errors and validation
// rejections degrade to the intent's knowledge subsection.
func (g *Generator) Answer(ctx context.Context, intent nlu.Intent, rawQuery string, history []string) string {
	m := metrics.Global()

	if _, ok := knowledge.Lookup(intent); !ok {
		m.RecordAnswer("no_information")
		return NoInformation
	}

	normalized := nlu.Normalize(rawQuery)
	key := cache.Key("answer", intent.String(), normalized)
	if v, ok := g.cache.Get(key); ok {
		if text, ok := v.(string); ok && text != "" {
			m.RecordCacheHit("answer")
			m.RecordAnswer("cached")
			return text
		}
	}
	m.RecordCacheMiss("answer")

	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}

	text, outcome := g.generate(ctx, intent, rawQuery, history)
	m.RecordAnswer(outcome)
	// A throttled turn is transient; caching it would pin the degraded text
	// for the whole TTL.
	if outcome != "rate_limited" {
		g.cache.Put(key, text)
	}
	return text
}

func (g *Generator) generate(ctx context.Context, intent nlu.Intent, rawQuery string, history []string) (string, string) {
	if g.completer == nil {
		return knowledge.FallbackText(intent), "fallback"
	}

	if g.limiter != nil && !g.limiter.Allow(ctxutil.GetSenderID(ctx)) {
		slog.WarnContext(ctx, "sender exhausted the completion budget, using knowledge fallback",
			"intent", intent)
		return knowledge.FallbackText(intent), "rate_limited"
	}

	generated, err := g.completer.Complete(ctx, llm.Request{
		Prompt:      buildAnswerPrompt(intent, rawQuery, history),
		Temperature: answerTemperature,
		MaxTokens:   answerMaxTokens,
	})
	if err != nil {
		slog.WarnContext(ctx, "answer generation failed, using knowledge fallback",
			"intent", intent,
			"error", err)
		return knowledge.FallbackText(intent), "fallback"
	}

	generated = strings.TrimSpace(generated)
	if generated == "" {
		return knowledge.FallbackText(intent), "fallback"
	}

	if g.validator != nil && !g.validator.Validate(generated, knowledge.SectionText(intent)) {
		slog.WarnContext(ctx, "generated answer rejected by validation, using knowledge fallback",
			"intent", intent,
			"answer_length", len(generated))
		return knowledge.FallbackText(intent), "fallback"
	}

	return generated, "generated"
}
