// Package aggregate computes every derived view over a claim collection:
// KPIs, Pareto breakdowns, trends, spike detection, importance ranking and
// the short-range forecast. All window arithmetic is anchored at the latest
// observed claim date rather than wall-clock time, so results are
// reproducible against historical datasets.
package aggregate

import (
	"fmt"
	"time"
)

// monthKey truncates an ISO date to its YYYY-MM period
func monthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// addMonths shifts a YYYY-MM key by delta calendar months, handling year
// rollover
func addMonths(key string, delta int) string {
	var year, month int
	if _, err := fmt.Sscanf(key, "%d-%d", &year, &month); err != nil {
		return key
	}
	t := time.Date(year, time.Month(month+delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Format("2006-01")
}

// parseDay parses a normalized YYYY-MM-DD claim date
func parseDay(date string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
