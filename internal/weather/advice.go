package weather

import (
	"fmt"
	"strconv"
	"strings"
)

// FarmingAdvice derives advice from current conditions. Rules form an ordered
// decision list; the first match wins.
func FarmingAdvice(description string, temperature float64, humidity int) string {
	desc := strings.ToLower(description)

	switch {
	case containsAny(desc, "rain", "drizzle", "shower", "thunderstorm"):
		return "Consider postponing any spraying activities. Ensure proper drainage in your fields to prevent waterlogging."
	case temperature > 30:
		return "High temperatures detected. Ensure adequate irrigation to prevent crop stress, preferably in early morning or evening."
	case temperature < 10:
		return "Low temperatures may affect plant growth. Consider protective measures for sensitive crops."
	case containsAny(desc, "clear", "sunny"):
		if humidity < 40 {
			return "Clear weather with low humidity. Good for harvesting but watch for signs of water stress in plants."
		}
		return "Good weather for most farming activities including spraying and field work."
	case containsAny(desc, "cloud", "overcast"):
		return "Good conditions for transplanting and fieldwork requiring less sun exposure."
	case humidity > 80:
		return "High humidity may increase risk of fungal diseases. Monitor crops closely and ensure good air circulation."
	default:
		return "Current conditions are acceptable for general farming activities. Monitor your crops regularly."
	}
}

// Report formats the current-weather message as a bullet list followed by
// farming advice.
func Report(location string, cur *Current) string {
	desc := cur.Description()
	report := fmt.Sprintf(
		"Weather in %s:\n• Condition: %s\n• Temperature: %s°C\n• Humidity: %d%%\n• Wind speed: %s m/s",
		location,
		capitalize(desc),
		formatNumber(cur.Main.Temp),
		cur.Main.Humidity,
		formatNumber(cur.Wind.Speed),
	)
	if advice := FarmingAdvice(desc, cur.Main.Temp, cur.Main.Humidity); advice != "" {
		report += "\n\nFarming advice: " + advice
	}
	return report
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// capitalize upper-cases the first letter only, leaving the rest untouched.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatNumber renders a metric value without trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
