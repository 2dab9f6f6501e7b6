package diagnosis

import (
	"strings"
	"testing"
)

func TestDiagnoseDecisionList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		obs  Observation
		want string // distinguishing substring of the expected advice
	}{
		{
			name: "overwatering when frequent watering in mild weather",
			obs:  Observation{WaterFrequency: "daily", WeatherCondition: "cloudy"},
			want: "overwatering",
		},
		{
			name: "underwatering when sparse watering in dry heat",
			obs:  Observation{WaterFrequency: "once a week", WeatherCondition: "hot and dry"},
			want: "underwatered",
		},
		{
			name: "nitrogen deficiency on sandy soil",
			obs:  Observation{WaterFrequency: "once a week", WeatherCondition: "cloudy", SoilType: "sandy"},
			want: "nitrogen deficiency",
		},
		{
			name: "iron deficiency on waterlogged clay",
			obs:  Observation{WaterFrequency: "once a day", WeatherCondition: "very hot", SoilType: "clay"},
			want: "iron deficiency",
		},
		{
			name: "fungal disease in humid weather",
			obs:  Observation{WaterFrequency: "once a week", WeatherCondition: "humid", SoilType: "loam"},
			want: "fungal disease",
		},
		{
			name: "generic advice when nothing matches",
			obs:  Observation{WaterFrequency: "once a week", WeatherCondition: "mild", SoilType: "loam"},
			want: "multiple factors",
		},
		{
			name: "overwatering wins over sandy-soil rule",
			obs:  Observation{WaterFrequency: "twice a day", WeatherCondition: "cloudy", SoilType: "sandy"},
			want: "overwatering",
		},
		{
			name: "dry weather suppresses overwatering rule",
			obs:  Observation{WaterFrequency: "daily", WeatherCondition: "very hot", SoilType: "sandy"},
			want: "nitrogen deficiency",
		},
		{
			name: "empty observation falls through to generic",
			obs:  Observation{},
			want: "multiple factors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Diagnose(tt.obs)
			if got == "" {
				t.Fatal("Diagnose() returned empty advice")
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Diagnose() = %q, want advice containing %q", got, tt.want)
			}
		})
	}
}

func TestReportFormat(t *testing.T) {
	t.Parallel()

	obs := Observation{
		CropType:         "coconut",
		WaterFrequency:   "daily",
		SoilType:         "loam",
		WeatherCondition: "cloudy",
	}
	got := Report(obs)

	if !strings.HasPrefix(got, "Based on your information: coconut with yellow leaves, watering daily, loam soil, and cloudy weather.") {
		t.Errorf("Report() recap wrong: %q", got)
	}
	if !strings.Contains(got, "\n\nDiagnosis: ") {
		t.Errorf("Report() missing diagnosis separator: %q", got)
	}
}

func TestReportUsesProvidedLeafColor(t *testing.T) {
	t.Parallel()

	obs := Observation{CropType: "banana", LeafColor: "brown"}
	if got := Report(obs); !strings.Contains(got, "banana with brown leaves") {
		t.Errorf("Report() = %q, want brown leaves recap", got)
	}
}
