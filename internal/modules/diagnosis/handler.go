// Package diagnosis exposes the crop diagnostic rule engine as a custom
// action.
package diagnosis

import (
	"context"
	"log/slog"

	"github.com/anoopvm/coconut-advisor-go/internal/bot"
	rules "github.com/anoopvm/coconut-advisor-go/internal/diagnosis"
	"github.com/anoopvm/coconut-advisor-go/internal/rasa"
)

// Slot names the diagnostic conversation collects.
const (
	SlotCropType         = "crop_type"
	SlotCropColor        = "crop_color"
	SlotWaterFrequency   = "water_frequency"
	SlotSoilType         = "soil_type"
	SlotWeatherCondition = "weather_condition"
)

// Handler contributes the diagnosis action.
type Handler struct{}

// NewHandler creates the diagnosis handler.
func NewHandler() *Handler { return &Handler{} }

// Actions returns the actions this module contributes.
func (h *Handler) Actions() []bot.Action {
	return []bot.Action{&diagnoseAction{}}
}

type diagnoseAction struct{}

func (a *diagnoseAction) Name() string { return "action_provide_diagnosis" }

// Run evaluates the rule engine over the collected slots, reports the
// diagnosis and resets the form for the next conversation.
func (a *diagnoseAction) Run(ctx context.Context, tracker *rasa.Tracker, dispatcher *rasa.Dispatcher) error {
	obs := rules.Observation{
		CropType:         tracker.Slot(SlotCropType),
		LeafColor:        tracker.Slot(SlotCropColor),
		WaterFrequency:   tracker.Slot(SlotWaterFrequency),
		SoilType:         tracker.Slot(SlotSoilType),
		WeatherCondition: tracker.Slot(SlotWeatherCondition),
	}

	dispatcher.Utter(rules.Report(obs))
	dispatcher.Emit(rasa.AllSlotsReset())

	slog.DebugContext(ctx, "provided diagnosis",
		"sender_id", tracker.SenderID,
		"crop_type", obs.CropType,
		"soil_type", obs.SoilType)
	return nil
}
