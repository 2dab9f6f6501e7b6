package pipeline

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/anoopvm/coconut-advisor-go/internal/knowledge"
	"github.com/anoopvm/coconut-advisor-go/internal/nlu"
)

// maxSegments bounds remote-call fan-out and response length per turn.
const maxSegments = 3

// NotUnderstood is emitted when no segment of a multi-part query produced
// any output.
const NotUnderstood = "Sorry, I couldn't understand your question. Could you rephrase it, for example by asking about one coconut farming topic at a time?"

var (
	sentenceRe    = regexp.MustCompile(`[.?!]+`)
	conjunctionRe = regexp.MustCompile(`(?i)\band\b|\balso\b|,`)
)

// RespondMulti handles a possibly multi-part query. Queries that do not
// segment into several parts delegate to the single-query path. Each retained
// segment is classified and answered independently against the shared cache;
// duplicate intents contribute nothing.
func (p *Pipeline) RespondMulti(ctx context.Context, rawQuery string, history []string, priorIntent nlu.Intent) Outcome {
	segments := splitSegments(rawQuery)
	if len(segments) <= 1 {
		return p.Respond(ctx, rawQuery, history, priorIntent)
	}
	if len(segments) > maxSegments {
		segments = segments[:maxSegments]
	}

	var sections []string
	var seen []nlu.Intent
	for _, seg := range segments {
		result := p.classifier.Classify(ctx, seg, history, priorIntent)
		if result.Ambiguous() {
			sections = append(sections, "**Clarification needed**: "+result.ClarifyingQuestion)
			continue
		}
		if slices.Contains(seen, result.Intent) {
			continue
		}
		seen = append(seen, result.Intent)
		text := p.generator.Answer(ctx, result.Intent, seg, history)
		sections = append(sections, "**"+knowledge.Title(result.Intent)+"**: "+text)
	}

	if len(sections) == 0 {
		return Outcome{Text: NotUnderstood}
	}
	return Outcome{Text: strings.Join(sections, "\n"), Intents: seen}
}

// splitSegments cuts a query into independent sub-queries: sentence
// boundaries first, then conjunctions and commas when the query is a single
// sentence.
func splitSegments(rawQuery string) []string {
	segments := cleanSplit(sentenceRe.Split(rawQuery, -1))
	if len(segments) > 1 {
		return segments
	}
	return cleanSplit(conjunctionRe.Split(rawQuery, -1))
}

func cleanSplit(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
