package weather

import (
	"fmt"
	"sort"
	"strings"
)

// forecastDays is how many days of the 5-day forecast the report covers.
const forecastDays = 3

// ForecastReport formats the multi-day forecast message. For each of the
// first three days it picks the noon entry as representative (falling back to
// the day's first entry) and closes with a rain-aware farming plan.
func ForecastReport(location string, fc *Forecast) string {
	days := make(map[string][]ForecastEntry)
	for _, item := range fc.List {
		date, _, found := strings.Cut(item.DtTxt, " ")
		if !found {
			continue
		}
		days[date] = append(days[date], item)
	}

	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var b strings.Builder
	fmt.Fprintf(&b, "Weather forecast for %s:\n\n", location)

	count := 0
	for _, date := range dates {
		if count >= forecastDays {
			break
		}
		entry := representative(days[date])
		fmt.Fprintf(&b, "%s: %s, %s°C\n", date, capitalize(entry.Description()), formatNumber(entry.Main.Temp))
		count++
	}

	// The rain check reads each day's first entry, not the noon one.
	b.WriteString("\nFarming plan: ")
	if rainExpected(dates, days) {
		b.WriteString("Rain is expected in the coming days. Plan indoor activities, ensure drainage systems are working, and postpone any activities that require dry conditions.")
	} else {
		b.WriteString("Weather looks favorable for the next few days. This is a good time for field activities like planting, harvesting, or applying treatments as needed.")
	}

	return b.String()
}

// representative picks the day's noon entry, or the first one when no noon
// slot exists.
func representative(entries []ForecastEntry) ForecastEntry {
	for _, e := range entries {
		if strings.Contains(e.DtTxt, "12:00:00") {
			return e
		}
	}
	return entries[0]
}

func rainExpected(dates []string, days map[string][]ForecastEntry) bool {
	for i, date := range dates {
		if i >= forecastDays {
			break
		}
		first := days[date][0]
		if strings.Contains(strings.ToLower(first.Description()), "rain") {
			return true
		}
	}
	return false
}
