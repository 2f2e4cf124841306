// Package datetime converts between the stored timestamp text, the values
// browser date/time inputs submit and expect, and the calendar rendering.
package datetime

import (
	"fmt"
	"strings"
	"time"
)

const (
	// StoreLayout is how timestamps are rendered when handed back to forms.
	StoreLayout = "2006-01-02 15:04:05"
	// InputLayout matches <input type="datetime-local">.
	InputLayout = "2006-01-02T15:04"
	// CalendarLayout always carries seconds.
	CalendarLayout = "2006-01-02T15:04:05"
	DateLayout     = "2006-01-02"
)

// EnsureSeconds appends ":00" to an hour:minute value. Values that already
// carry seconds, and empty values, are returned unchanged.
func EnsureSeconds(v string) string {
	if v == "" {
		return ""
	}
	if strings.Count(v, ":") >= 2 {
		return v
	}
	return v + ":00"
}

// ToInputValue turns a stored value into the YYYY-MM-DDTHH:MM shape an edit
// form expects, dropping seconds. A date without a time part maps to midnight.
func ToInputValue(v string) string {
	if v == "" {
		return ""
	}
	datePart, timePart := split(v)
	if timePart == "" {
		return datePart + "T00:00"
	}
	parts := strings.Split(timePart, ":")
	if len(parts) < 2 {
		return datePart + "T" + parts[0] + ":00"
	}
	return fmt.Sprintf("%sT%s:%s", datePart, parts[0], parts[1])
}

// ToCalendarValue turns a stored or submitted value into YYYY-MM-DDTHH:MM:SS.
// A date without a time part maps to midnight.
func ToCalendarValue(v string) string {
	if v == "" {
		return ""
	}
	datePart, timePart := split(v)
	if timePart == "" {
		return datePart + "T00:00:00"
	}
	return datePart + "T" + EnsureSeconds(timePart)
}

// Parse accepts either a "T" or a space separator, with or without seconds,
// and a bare date.
func Parse(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	t, err := time.Parse(CalendarLayout, ToCalendarValue(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: %w", v, err)
	}
	return t, nil
}

func FormatStore(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(StoreLayout)
}

// ParseDate parses a YYYY-MM-DD form value. An empty value yields nil.
func ParseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", v, err)
	}
	return &t, nil
}

func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func split(v string) (string, string) {
	v = strings.TrimSpace(v)
	if i := strings.IndexAny(v, "T "); i >= 0 {
		return v[:i], strings.TrimSpace(v[i+1:])
	}
	return v, ""
}
