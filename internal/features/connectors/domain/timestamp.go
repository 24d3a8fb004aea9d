package domain

import (
	"strings"
	"time"

	"github.com/relvacode/iso8601"
)

// timestampLayouts are the ISO-8601-like shapes seen from carriers, tried in order
// before the generic ISO-8601 parser. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02T150405.999999999Z07:00",
	"2006-01-02T150405.999999999Z0700",
	"2006-01-02T150405.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02",
	"20060102T150405Z0700",
	"20060102150405",
	"20060102",
}

// ParseTimestamp reads an ISO-8601-like provider timestamp.
// Absent or unparsable values yield the current time; this never fails.
func ParseTimestamp(value string) time.Time {
	if t, ok := TryParseTimestamp(value); ok {
		return t
	}
	return time.Now().UTC()
}

// TryParseTimestamp is ParseTimestamp without the fallback.
func TryParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	if t, err := iso8601.ParseString(value); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
