package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for performance dates: a local date-time
// without zone information, interpreted as UTC.
const DateLayout = "2006-01-02T15:04:05"

// ParseDate accepts DateLayout or RFC 3339 and returns the normalized date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return NormalizeDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s or RFC 3339", s, DateLayout)
	}
	return NormalizeDate(t), nil
}

// FormatDate renders a performance date in DateLayout.
func FormatDate(t time.Time) string { return NormalizeDate(t).Format(DateLayout) }

// NormalizeDate converts t to UTC with second precision so that the same
// performance date always compares equal, whatever its origin.
func NormalizeDate(t time.Time) time.Time { return t.UTC().Truncate(time.Second) }
