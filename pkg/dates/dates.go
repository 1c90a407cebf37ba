// Package dates handles calendar dates: values that carry a day but no
// meaningful time of day. A date is represented as a time.Time at midnight
// UTC so that dates compare and persist consistently.
package dates

import (
	"time"

	"github.com/pkg/errors"
)

// Layout is the wire and form format of a date.
const Layout = "2006-01-02"

// ErrInvalid is returned when a string is not a real calendar date.
var ErrInvalid = errors.New("invalid date")

// Of returns the calendar date of t, in t's own location.
func Of(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date according to clock.
func Today(clock func() time.Time) time.Time {
	return Of(clock())
}

// AddDays moves a date by n calendar days.
func AddDays(date time.Time, n int) time.Time {
	return Of(date).AddDate(0, 0, n)
}

// Parse reads a YYYY-MM-DD string.
func Parse(value string) (time.Time, error) {
	t, err := time.Parse(Layout, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(ErrInvalid, "%q", value)
	}
	return t, nil
}

// ParseOptional reads a YYYY-MM-DD string, treating the empty string as no date.
func ParseOptional(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := Parse(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Format renders a date as YYYY-MM-DD. The zero time renders as "".
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// FormatPtr is Format for optional dates.
func FormatPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Format(*t)
}
