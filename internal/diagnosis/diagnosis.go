// Package diagnosis implements the rule-based crop diagnostic for yellow-leaf
// problems. Rules form an ordered decision list: the first matching rule wins,
// so rule order is part of the behavior.
package diagnosis

import (
	"fmt"
	"slices"
)

// DefaultLeafColor is assumed when the farmer does not report a leaf color.
const DefaultLeafColor = "yellow"

// Observation holds the collected slot values describing the crop's state.
// Fields may be empty when the farmer skipped a question.
type Observation struct {
	CropType         string
	LeafColor        string
	WaterFrequency   string
	SoilType         string
	WeatherCondition string
}

// Condition frequency and weather buckets used by the rules.
var (
	heavyWatering  = []string{"twice a day", "daily"}
	sparseWatering = []string{"rarely", "never", "once a week"}
	dailyWatering  = []string{"once a day", "twice a day", "daily"}
	dryWeather     = []string{"very hot", "hot and dry", "dry"}
	humidWeather   = []string{"humid", "rainy", "hot and humid"}
	sandySoils     = []string{"sandy", "red"}
	heavySoils     = []string{"clay", "black"}
)

// rule is one entry of the decision list.
type rule struct {
	matches func(Observation) bool
	result  string
}

var rules = []rule{
	{
		// Overwatering: frequent watering without hot/dry weather to absorb it.
		matches: func(o Observation) bool {
			return slices.Contains(heavyWatering, o.WaterFrequency) &&
				!slices.Contains(dryWeather, o.WeatherCondition)
		},
		result: "Your crop is likely suffering from overwatering. Reduce watering frequency and ensure proper drainage. Yellow leaves are often a sign of root stress from excess water.",
	},
	{
		// Underwatering: sparse watering in dry weather.
		matches: func(o Observation) bool {
			return slices.Contains(sparseWatering, o.WaterFrequency) &&
				slices.Contains(dryWeather, o.WeatherCondition)
		},
		result: "Your crop appears to be underwatered. In the current weather conditions, increase watering frequency. The yellow leaves indicate drought stress.",
	},
	{
		// Nitrogen deficiency: typical of sandy and red soils.
		matches: func(o Observation) bool {
			return slices.Contains(sandySoils, o.SoilType)
		},
		result: "Your crop is showing signs of nitrogen deficiency, common in your soil type. Apply a nitrogen-rich fertilizer. Yellow leaves starting from older leaves are typical of nitrogen deficiency.",
	},
	{
		// Iron deficiency: waterlogged alkaline soils.
		matches: func(o Observation) bool {
			return slices.Contains(heavySoils, o.SoilType) &&
				slices.Contains(dailyWatering, o.WaterFrequency)
		},
		result: "Your crop may be experiencing iron deficiency, common in waterlogged alkaline soils. Yellow leaves with green veins are characteristic. Consider adding iron supplements and improving drainage.",
	},
	{
		// Fungal disease pressure in humid conditions.
		matches: func(o Observation) bool {
			return slices.Contains(humidWeather, o.WeatherCondition)
		},
		result: "The yellow leaves might indicate a fungal disease, common in humid conditions. Ensure proper spacing between plants for air circulation, avoid overhead watering, and consider an appropriate fungicide treatment.",
	},
}

// genericResult is returned when no rule matches.
const genericResult = "The yellowing of leaves could be due to multiple factors including nutrient deficiency, improper pH levels, or early stages of disease. Monitor the spread pattern. Apply a balanced fertilizer and ensure proper watering. If symptoms persist, consider soil testing for more precise diagnosis."

// Diagnose evaluates the decision list against the observation and returns
// the first matching rule's advice, or the generic advice when nothing
// matches. It never returns an empty string.
func Diagnose(o Observation) string {
	for _, r := range rules {
		if r.matches(o) {
			return r.result
		}
	}
	return genericResult
}

// Report formats the full diagnostic message: a recap of what the farmer
// reported followed by the diagnosis.
func Report(o Observation) string {
	color := o.LeafColor
	if color == "" {
		color = DefaultLeafColor
	}
	return fmt.Sprintf(
		"Based on your information: %s with %s leaves, watering %s, %s soil, and %s weather.\n\nDiagnosis: %s",
		o.CropType, color, o.WaterFrequency, o.SoilType, o.WeatherCondition, Diagnose(o))
}
