// Package bot defines the custom-action abstraction and the registry the
// webhook handler dispatches through.
package bot

import (
	"context"
	"fmt"
	"sort"

	"github.com/anoopvm/coconut-advisor-go/internal/rasa"
)

// Action is one named custom action the dialogue engine can invoke. Run
// collects utterances and events on the dispatcher; it returns an error only
// for infrastructure failures, never for user-level conditions (those become
// utterances instead).
type Action interface {
	Name() string
	Run(ctx context.Context, tracker *rasa.Tracker, dispatcher *rasa.Dispatcher) error
}

// UnknownActionError reports a dispatch for an action nobody registered.
type UnknownActionError struct {
	Action string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action %q", e.Action)
}

// Registry maps action names to implementations.
type Registry struct {
	actions map[string]Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

// Register adds actions to the registry. Duplicate names panic: that is a
// wiring bug, not a runtime condition.
func (r *Registry) Register(actions ...Action) {
	for _, a := range actions {
		if _, exists := r.actions[a.Name()]; exists {
			panic(fmt.Sprintf("action %q registered twice", a.Name()))
		}
		r.actions[a.Name()] = a
	}
}

// Names returns the registered action names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for n := range r.actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the action named in req and assembles the webhook response.
func (r *Registry) Dispatch(ctx context.Context, req *rasa.Request) (rasa.Response, error) {
	action, ok := r.actions[req.NextAction]
	if !ok {
		return rasa.Response{}, &UnknownActionError{Action: req.NextAction}
	}

	var dispatcher rasa.Dispatcher
	if err := action.Run(ctx, &req.Tracker, &dispatcher); err != nil {
		return rasa.Response{}, fmt.Errorf("run action %q: %w", req.NextAction, err)
	}
	return dispatcher.Response(), nil
}
