// Package pipeline orchestrates classification and answer generation for a
// conversational turn, including the multi-intent splitting path.
package pipeline

import (
	"context"

	"github.com/anoopvm/coconut-advisor-go/internal/answer"
	"github.com/anoopvm/coconut-advisor-go/internal/intent"
	"github.com/anoopvm/coconut-advisor-go/internal/nlu"
)

// Outcome is what a turn emits back to the dialogue engine.
type Outcome struct {
	// Text is the user-facing reply. Never empty.
	Text string
	// Intents are the distinct non-ambiguous intents answered this turn, in
	// encounter order. Empty when the turn only asked for clarification.
	Intents []nlu.Intent
	// Clarifying is true when Text is a clarifying question rather than an
	// answer. Single-query turns only; multi-intent turns inline their
	// clarification requests.
	Clarifying bool
}

// Pipeline wires the classifier and generator together.
type Pipeline struct {
	classifier *intent.Classifier
	generator  *answer.Generator
}

// New creates a pipeline.
func New(classifier *intent.Classifier, generator *answer.Generator) *Pipeline {
	return &Pipeline{classifier: classifier, generator: generator}
}

// Respond handles a single-query turn: classify, then answer or ask for
// clarification.
func (p *Pipeline) Respond(ctx context.Context, rawQuery string, history []string, priorIntent nlu.Intent) Outcome {
	result := p.classifier.Classify(ctx, rawQuery, history, priorIntent)
	if result.Ambiguous() {
		return Outcome{Text: result.ClarifyingQuestion, Clarifying: true}
	}
	text := p.generator.Answer(ctx, result.Intent, rawQuery, history)
	return Outcome{Text: text, Intents: []nlu.Intent{result.Intent}}
}
