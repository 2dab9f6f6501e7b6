package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anoopvm/coconut-advisor-go/internal/metrics"
)

func TestFarmingAdviceRuleOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		description string
		temperature float64
		humidity    int
		want        string
	}{
		{"rain wins over heat", "light rain", 35, 50, "postponing any spraying"},
		{"thunderstorm", "thunderstorm", 20, 50, "postponing any spraying"},
		{"hot", "haze", 31, 50, "High temperatures"},
		{"cold", "mist", 5, 50, "Low temperatures"},
		{"clear dry", "clear sky", 25, 30, "low humidity"},
		{"clear humid", "clear sky", 25, 60, "Good weather for most farming activities"},
		{"cloudy", "overcast clouds", 25, 50, "transplanting"},
		{"humid fallback", "haze", 25, 85, "fungal diseases"},
		{"default", "haze", 25, 50, "acceptable for general farming"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FarmingAdvice(tt.description, tt.temperature, tt.humidity)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestReportFormat(t *testing.T) {
	t.Parallel()

	var cur Current
	cur.Weather = append(cur.Weather, struct {
		Description string `json:"description"`
	}{"scattered clouds"})
	cur.Main.Temp = 27.5
	cur.Main.Humidity = 65
	cur.Wind.Speed = 3.2

	got := Report("Kochi", &cur)
	assert.True(t, strings.HasPrefix(got, "Weather in Kochi:\n"), got)
	assert.Contains(t, got, "• Condition: Scattered clouds")
	assert.Contains(t, got, "• Temperature: 27.5°C")
	assert.Contains(t, got, "• Humidity: 65%")
	assert.Contains(t, got, "• Wind speed: 3.2 m/s")
	assert.Contains(t, got, "\n\nFarming advice: ")
}

func entry(dtTxt, desc string, temp float64) ForecastEntry {
	var e ForecastEntry
	e.DtTxt = dtTxt
	e.Weather = append(e.Weather, struct {
		Description string `json:"description"`
	}{desc})
	e.Main.Temp = temp
	return e
}

func TestForecastReportPicksNoonEntry(t *testing.T) {
	t.Parallel()

	fc := &Forecast{List: []ForecastEntry{
		entry("2026-09-02 09:00:00", "few clouds", 24),
		entry("2026-09-02 12:00:00", "clear sky", 29),
		entry("2026-09-02 15:00:00", "haze", 30),
		entry("2026-09-03 09:00:00", "mist", 22),
		entry("2026-09-04 12:00:00", "broken clouds", 26),
		entry("2026-09-05 12:00:00", "clear sky", 28),
	}}

	got := ForecastReport("Kochi", fc)
	assert.True(t, strings.HasPrefix(got, "Weather forecast for Kochi:\n\n"), got)
	assert.Contains(t, got, "2026-09-02: Clear sky, 29°C")
	// No noon slot on the 3rd, first entry stands in.
	assert.Contains(t, got, "2026-09-03: Mist, 22°C")
	assert.Contains(t, got, "2026-09-04: Broken clouds, 26°C")
	// Only three days are reported.
	assert.NotContains(t, got, "2026-09-05")
	assert.Contains(t, got, "Farming plan: Weather looks favorable")
}

func TestForecastReportRainPlan(t *testing.T) {
	t.Parallel()

	fc := &Forecast{List: []ForecastEntry{
		entry("2026-09-02 09:00:00", "light rain", 24),
		entry("2026-09-02 12:00:00", "clear sky", 29),
		entry("2026-09-03 12:00:00", "clear sky", 28),
	}}

	got := ForecastReport("Kochi", fc)
	assert.Contains(t, got, "Farming plan: Rain is expected")
}

func TestClientCurrent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "Kochi", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Write([]byte(`{"weather":[{"description":"light rain"}],"main":{"temp":26.4,"humidity":88},"wind":{"speed":4.1}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	cur, err := c.Current(context.Background(), "Kochi")
	require.NoError(t, err)
	assert.Equal(t, "light rain", cur.Description())
	assert.InDelta(t, 26.4, cur.Main.Temp, 0.001)
	assert.Equal(t, 88, cur.Main.Humidity)
	assert.InDelta(t, 4.1, cur.Wind.Speed, 0.001)
}

func TestClientNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"cod":"404"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Current(context.Background(), "Nowhere")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Nowhere", nf.Location)
}

// Swaps the process-wide metrics instance, so it must not run in parallel
// with the other client tests.
func TestClientDecodeFailureIsCounted(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	prev := metrics.Global()
	metrics.InitGlobal(m)
	defer metrics.InitGlobal(prev)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"list": [truncated`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Forecast(context.Background(), "Kochi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")

	got := testutil.ToFloat64(m.WeatherRequestsTotal.WithLabelValues("forecast", "error"))
	assert.Equal(t, 1.0, got)
}

func TestClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{})
	assert.Error(t, err)
}
