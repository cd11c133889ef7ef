package engine

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order; day-first European forms win over the
// US-style fallbacks.
var dateLayouts = []string{
	"02.01.2006", "02.01.06", "02/01/2006", "02/01/06",
	"2006-01-02",
	"01/02/2006", "01/02/06",
}

// ParseDate parses a user-supplied date string. The result is pinned to noon
// UTC so day-window comparisons are stable regardless of the stored clock
// component.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ValidationError{Msg: "date is required"}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ValidationError{Msg: "invalid date format, use dd.mm.yyyy or yyyy-mm-dd"}
}

// ValidateDate parses s and rejects dates strictly before the current UTC day.
func ValidateDate(s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if err := rejectPastDate(t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func rejectPastDate(t time.Time) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	day := t.UTC().Truncate(24 * time.Hour)
	if day.Before(today) {
		return ValidationError{Msg: fmt.Sprintf("date cannot be earlier than today (%s)", today.Format("02.01.2006"))}
	}
	return nil
}

// dayWindow returns the inclusive [00:00:00, 23:59:59.999999999] bounds of
// t's calendar day in UTC.
func dayWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
