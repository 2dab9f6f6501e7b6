package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoopvm/coconut-advisor-go/internal/rasa"
	owm "github.com/anoopvm/coconut-advisor-go/internal/weather"
)

func newTestHandler(t *testing.T, handler http.HandlerFunc) *Handler {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := owm.NewClient(owm.Config{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)
	return NewHandler(client)
}

func trackerWithLocation(location string) *rasa.Tracker {
	slots := map[string]any{}
	if location != "" {
		slots[SlotLocation] = location
	}
	return &rasa.Tracker{SenderID: "farmer-1", Slots: slots}
}

func TestCurrentWeatherReportsAndSetsSlots(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		w.Write([]byte(`{"weather":[{"description":"light rain"}],"main":{"temp":26.4,"humidity":88},"wind":{"speed":4.1}}`))
	})
	action := h.Actions()[0]
	require.Equal(t, "action_get_weather", action.Name())

	var d rasa.Dispatcher
	require.NoError(t, action.Run(context.Background(), trackerWithLocation("Kochi"), &d))

	resp := d.Response()
	require.Len(t, resp.Responses, 1)
	assert.Contains(t, resp.Responses[0].Text, "Weather in Kochi:")
	assert.Contains(t, resp.Responses[0].Text, "Farming advice: Consider postponing any spraying")

	require.Len(t, resp.Events, 2)
	assert.Equal(t, SlotCurrentWeather, resp.Events[0]["name"])
	assert.Equal(t, "light rain", resp.Events[0]["value"])
	assert.Equal(t, SlotCurrentTemperature, resp.Events[1]["name"])
	assert.InDelta(t, 26.4, resp.Events[1]["value"].(float64), 0.001)
}

func TestCurrentWeatherMissingLocation(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil)
	var d rasa.Dispatcher
	require.NoError(t, h.Actions()[0].Run(context.Background(), trackerWithLocation(""), &d))

	resp := d.Response()
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, missingLocationWeather, resp.Responses[0].Text)
	assert.Empty(t, resp.Events)
}

func TestCurrentWeatherUnknownLocation(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod":"404"}`, http.StatusNotFound)
	})

	var d rasa.Dispatcher
	require.NoError(t, h.Actions()[0].Run(context.Background(), trackerWithLocation("Nowhere"), &d))

	resp := d.Response()
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, "Sorry, I couldn't find weather information for Nowhere. Please check if the location name is correct.", resp.Responses[0].Text)
	assert.Empty(t, resp.Events)
}

func TestCurrentWeatherServerError(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	var d rasa.Dispatcher
	require.NoError(t, h.Actions()[0].Run(context.Background(), trackerWithLocation("Kochi"), &d))

	resp := d.Response()
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, weatherFetchFailed, resp.Responses[0].Text)
}

func TestForecastReports(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forecast", r.URL.Path)
		w.Write([]byte(`{"list":[
			{"dt_txt":"2026-09-02 12:00:00","weather":[{"description":"clear sky"}],"main":{"temp":29}},
			{"dt_txt":"2026-09-03 12:00:00","weather":[{"description":"light rain"}],"main":{"temp":25}}
		]}`))
	})
	action := h.Actions()[1]
	require.Equal(t, "action_get_weather_forecast", action.Name())

	var d rasa.Dispatcher
	require.NoError(t, action.Run(context.Background(), trackerWithLocation("Kochi"), &d))

	resp := d.Response()
	require.Len(t, resp.Responses, 1)
	assert.Contains(t, resp.Responses[0].Text, "Weather forecast for Kochi:")
	assert.Contains(t, resp.Responses[0].Text, "2026-09-02: Clear sky, 29°C")
	assert.Contains(t, resp.Responses[0].Text, "Farming plan: Rain is expected")
	assert.Empty(t, resp.Events)
}

func TestForecastMissingLocation(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil)
	var d rasa.Dispatcher
	require.NoError(t, h.Actions()[1].Run(context.Background(), trackerWithLocation(""), &d))

	resp := d.Response()
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, missingLocationForecast, resp.Responses[0].Text)
}

func TestNilClientDegrades(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil)
	var d rasa.Dispatcher
	require.NoError(t, h.Actions()[0].Run(context.Background(), trackerWithLocation("Kochi"), &d))

	resp := d.Response()
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, weatherFetchFailed, resp.Responses[0].Text)
}
