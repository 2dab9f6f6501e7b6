// Package weather exposes the current-weather and forecast reports as custom
// actions. Remote failures never propagate; the farmer always gets a message.
package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anoopvm/coconut-advisor-go/internal/bot"
	"github.com/anoopvm/coconut-advisor-go/internal/rasa"
	owm "github.com/anoopvm/coconut-advisor-go/internal/weather"
)

// Slot names shared with the dialogue engine.
const (
	SlotLocation           = "location"
	SlotCurrentWeather     = "current_weather"
	SlotCurrentTemperature = "current_temperature"
)

// User-facing messages for the short-circuit and failure paths.
const (
	missingLocationWeather  = "I need a location to check the weather. Please specify a city or town."
	missingLocationForecast = "I need a location to check the weather forecast. Please specify a city or town."
	weatherFetchFailed      = "Sorry, there was an error fetching the weather information. Please try again later."
	forecastFetchFailed     = "Sorry, there was an error fetching the weather forecast. Please try again later."
)

// Handler contributes the weather actions.
type Handler struct {
	client *owm.Client
}

// NewHandler creates the weather handler. client may be nil when the API key
// is not configured; both actions then degrade to the fetch-failed message.
func NewHandler(client *owm.Client) *Handler {
	return &Handler{client: client}
}

// Actions returns the actions this module contributes.
func (h *Handler) Actions() []bot.Action {
	return []bot.Action{
		&currentWeatherAction{h: h},
		&forecastAction{h: h},
	}
}

type currentWeatherAction struct{ h *Handler }

func (a *currentWeatherAction) Name() string { return "action_get_weather" }

// Run reports current conditions with farming advice and stores the weather
// state as slots for the diagnostic conversation.
func (a *currentWeatherAction) Run(ctx context.Context, tracker *rasa.Tracker, dispatcher *rasa.Dispatcher) error {
	location := tracker.Slot(SlotLocation)
	if location == "" {
		dispatcher.Utter(missingLocationWeather)
		return nil
	}
	if a.h.client == nil {
		dispatcher.Utter(weatherFetchFailed)
		return nil
	}

	cur, err := a.h.client.Current(ctx, location)
	if err != nil {
		var notFound *owm.NotFoundError
		if errors.As(err, &notFound) {
			dispatcher.Utter(fmt.Sprintf("Sorry, I couldn't find weather information for %s. Please check if the location name is correct.", location))
			return nil
		}
		slog.WarnContext(ctx, "current weather fetch failed",
			"location", location,
			"error", err)
		dispatcher.Utter(weatherFetchFailed)
		return nil
	}

	dispatcher.Utter(owm.Report(location, cur))
	dispatcher.Emit(
		rasa.SlotSet(SlotCurrentWeather, cur.Description()),
		rasa.SlotSet(SlotCurrentTemperature, cur.Main.Temp),
	)
	return nil
}

type forecastAction struct{ h *Handler }

func (a *forecastAction) Name() string { return "action_get_weather_forecast" }

// Run reports the three-day noon-sample forecast with a planning note.
func (a *forecastAction) Run(ctx context.Context, tracker *rasa.Tracker, dispatcher *rasa.Dispatcher) error {
	location := tracker.Slot(SlotLocation)
	if location == "" {
		dispatcher.Utter(missingLocationForecast)
		return nil
	}
	if a.h.client == nil {
		dispatcher.Utter(forecastFetchFailed)
		return nil
	}

	fc, err := a.h.client.Forecast(ctx, location)
	if err != nil {
		var notFound *owm.NotFoundError
		if errors.As(err, &notFound) {
			dispatcher.Utter(fmt.Sprintf("Sorry, I couldn't find forecast information for %s.", location))
			return nil
		}
		slog.WarnContext(ctx, "forecast fetch failed",
			"location", location,
			"error", err)
		dispatcher.Utter(forecastFetchFailed)
		return nil
	}

	dispatcher.Utter(owm.ForecastReport(location, fc))
	return nil
}
