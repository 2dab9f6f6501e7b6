// Package advisory implements the question-answering actions: the
// single-query pipeline and the multi-intent splitter.
package advisory

import (
	"context"
	"log/slog"

	"github.com/anoopvm/coconut-advisor-go/internal/bot"
	"github.com/anoopvm/coconut-advisor-go/internal/nlu"
	"github.com/anoopvm/coconut-advisor-go/internal/pipeline"
	"github.com/anoopvm/coconut-advisor-go/internal/rasa"
)

// Slot names shared with the dialogue engine.
const (
	SlotClassifiedIntent = "classified_intent"
	SlotIntentList       = "intent_list"
)

// EmptyQueryPrompt is uttered when the action runs without a user message.
const EmptyQueryPrompt = "What would you like to know about coconut farming?"

// historyWindow bounds how many past user turns are handed to the pipeline.
const historyWindow = 6

// Handler holds the shared pipeline behind both actions.
type Handler struct {
	pipeline *pipeline.Pipeline
}

// NewHandler creates the advisory handler.
func NewHandler(p *pipeline.Pipeline) *Handler {
	return &Handler{pipeline: p}
}

// Actions returns the actions this module contributes.
func (h *Handler) Actions() []bot.Action {
	return []bot.Action{
		&answerQueryAction{h: h},
		&multiIntentAction{h: h},
	}
}

type answerQueryAction struct{ h *Handler }

func (a *answerQueryAction) Name() string { return "action_answer_query" }

// Run classifies the latest message and answers it. A confident intent is
// persisted as conversation state; a clarifying question mutates nothing.
func (a *answerQueryAction) Run(ctx context.Context, tracker *rasa.Tracker, dispatcher *rasa.Dispatcher) error {
	query := tracker.LatestMessage.Text
	if query == "" {
		dispatcher.Utter(EmptyQueryPrompt)
		return nil
	}

	prior := nlu.Intent(tracker.Slot(SlotClassifiedIntent))
	history := tracker.RecentUserMessages(historyWindow)

	outcome := a.h.pipeline.Respond(ctx, query, history, prior)
	dispatcher.Utter(outcome.Text)

	if !outcome.Clarifying && len(outcome.Intents) > 0 {
		dispatcher.Emit(rasa.SlotSet(SlotClassifiedIntent, outcome.Intents[0].String()))
	}

	slog.DebugContext(ctx, "answered query",
		"sender_id", tracker.SenderID,
		"clarifying", outcome.Clarifying,
		"intents", outcome.Intents)
	return nil
}

type multiIntentAction struct{ h *Handler }

func (m *multiIntentAction) Name() string { return "action_handle_multi_intent" }

// Run splits the latest message into sub-queries and answers each distinct
// intent once, persisting the ordered intent list.
func (m *multiIntentAction) Run(ctx context.Context, tracker *rasa.Tracker, dispatcher *rasa.Dispatcher) error {
	query := tracker.LatestMessage.Text
	if query == "" {
		dispatcher.Utter(EmptyQueryPrompt)
		return nil
	}

	prior := nlu.Intent(tracker.Slot(SlotClassifiedIntent))
	history := tracker.RecentUserMessages(historyWindow)

	outcome := m.h.pipeline.RespondMulti(ctx, query, history, prior)
	dispatcher.Utter(outcome.Text)

	if len(outcome.Intents) > 0 {
		names := make([]string, 0, len(outcome.Intents))
		for _, it := range outcome.Intents {
			names = append(names, it.String())
		}
		dispatcher.Emit(rasa.SlotSet(SlotIntentList, names))
		dispatcher.Emit(rasa.SlotSet(SlotClassifiedIntent, names[len(names)-1]))
	}

	slog.DebugContext(ctx, "answered multi-intent query",
		"sender_id", tracker.SenderID,
		"intent_count", len(outcome.Intents))
	return nil
}
