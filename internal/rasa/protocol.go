// Package rasa defines the action-server webhook protocol: the request the
// dialogue engine POSTs for a custom action and the events/responses the
// server returns.
package rasa

import "encoding/json"

// Request is the webhook payload for a custom action run.
type Request struct {
	NextAction string  `json:"next_action"`
	SenderID   string  `json:"sender_id"`
	Tracker    Tracker `json:"tracker"`
}

// Tracker carries the conversation state relevant to actions.
type Tracker struct {
	SenderID      string          `json:"sender_id"`
	Slots         map[string]any  `json:"slots"`
	LatestMessage LatestMessage   `json:"latest_message"`
	Events        []TrackerEvent  `json:"events"`
	Raw           json.RawMessage `json:"-"`
}

// LatestMessage is the most recent user message with its NLU annotations.
type LatestMessage struct {
	Text   string `json:"text"`
	Intent struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"intent"`
	Entities []Entity `json:"entities"`
}

// Entity is one extracted entity of the latest message.
type Entity struct {
	Entity string `json:"entity"`
	Value  any    `json:"value"`
}

// TrackerEvent is a past conversation event. Only user events carry text.
type TrackerEvent struct {
	Event string `json:"event"`
	Text  string `json:"text,omitempty"`
}

// Slot returns the string value of a slot, or "" when absent or non-string.
func (t *Tracker) Slot(name string) string {
	v, ok := t.Slots[name]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RecentUserMessages returns up to limit most recent user-event texts in
// chronological order, excluding the latest message itself when it is the
// final user event.
func (t *Tracker) RecentUserMessages(limit int) []string {
	var texts []string
	for _, e := range t.Events {
		if e.Event == "user" && e.Text != "" {
			texts = append(texts, e.Text)
		}
	}
	if n := len(texts); n > 0 && texts[n-1] == t.LatestMessage.Text {
		texts = texts[:n-1]
	}
	if len(texts) > limit {
		texts = texts[len(texts)-limit:]
	}
	return texts
}

// Event is a state mutation returned to the dialogue engine.
type Event map[string]any

// SlotSet builds a slot_set event.
func SlotSet(name string, value any) Event {
	return Event{"event": "slot", "name": name, "value": value}
}

// AllSlotsReset builds a reset_slots event clearing every slot.
func AllSlotsReset() Event {
	return Event{"event": "reset_slots"}
}

// Message is one bot utterance in the webhook response.
type Message struct {
	Text string `json:"text"`
}

// Response is the webhook response body.
type Response struct {
	Events    []Event   `json:"events"`
	Responses []Message `json:"responses"`
}

// Dispatcher collects utterances and events during an action run, mirroring
// the SDK's collecting dispatcher.
type Dispatcher struct {
	messages []Message
	events   []Event
}

// Utter queues a text message for the user.
func (d *Dispatcher) Utter(text string) {
	d.messages = append(d.messages, Message{Text: text})
}

// Emit queues events for the dialogue engine.
func (d *Dispatcher) Emit(events ...Event) {
	d.events = append(d.events, events...)
}

// Response assembles the webhook response. Slices are never nil so the JSON
// encodes as [] rather than null.
func (d *Dispatcher) Response() Response {
	resp := Response{Events: d.events, Responses: d.messages}
	if resp.Events == nil {
		resp.Events = []Event{}
	}
	if resp.Responses == nil {
		resp.Responses = []Message{}
	}
	return resp
}
