package utils

import (
	"fmt"
	"time"
)

// FormatUTC returns t as the whole-second UTC timestamp used in KML and
// GPX documents.
func FormatUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

// ParseUTC parses timestamps as written by FormatUTC, tolerating
// fractional seconds and numeric zone offsets found in documents from
// other producers.
func ParseUTC(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05.999999999Z07:00",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
