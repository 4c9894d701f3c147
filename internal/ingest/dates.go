package ingest

import (
	"strings"
	"time"
)

// DateUnknown is the sentinel stored when a row's date cannot be parsed.
// Rows carrying it never reach the rule engine output.
const DateUnknown = "Unknown"

// dateLayouts are tried in order against the trimmed raw value
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006-1-2",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	"20060102",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate normalizes a raw date value to YYYY-MM-DD, or DateUnknown when
// no layout applies
func ParseDate(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return DateUnknown
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return DateUnknown
}

// ParseISODate parses a normalized YYYY-MM-DD string into a time value
func ParseISODate(date string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
