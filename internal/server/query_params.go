package server

import (
	"strings"
	"time"
)

// parseOptionalTime accepts RFC 3339 timestamps or bare dates. When endOfDay
// is set, a bare date resolves to the last instant of that day so range
// filters are inclusive.
func parseOptionalTime(raw string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		utc := t.UTC()
		return &utc, nil
	}

	t, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, err
	}
	utc := t.UTC()
	if endOfDay {
		utc = utc.Add(24*time.Hour - time.Nanosecond)
	}
	return &utc, nil
}
