// Package renewal decides whether a proposed renewal date for a borrowed copy
// is acceptable, and drives the librarian's renewal form.
package renewal

import (
	"time"

	"github.com/lorenamitrea/LocalLibrary/pkg/dates"
)

const (
	// DefaultRenewalDays is how far ahead the renewal form proposes by default.
	DefaultRenewalDays = 21
	// MaxRenewalDays is the furthest a copy can be renewed, inclusive.
	MaxRenewalDays = 28
)

// Reason identifies why a renewal date was rejected.
type Reason string

const (
	ReasonPastDate    Reason = "past_date"
	ReasonTooFarAhead Reason = "too_far_ahead"
)

var reasonMessages = map[Reason]string{
	ReasonPastDate:    "Invalid date - renewal in past",
	ReasonTooFarAhead: "Invalid date - renewal more than 4 weeks ahead",
}

// Rejection is returned by Validate when a date can't be used.
type Rejection struct {
	Reason Reason
}

func (r *Rejection) Error() string {
	return reasonMessages[r.Reason]
}

// Validate checks candidate against today. Both are compared as calendar
// dates. A nil result means the date is accepted; otherwise the error is a
// *Rejection.
func Validate(candidate, today time.Time) error {
	candidate = dates.Of(candidate)
	today = dates.Of(today)

	if candidate.Before(today) {
		return &Rejection{Reason: ReasonPastDate}
	}
	if candidate.After(MaxDate(today)) {
		return &Rejection{Reason: ReasonTooFarAhead}
	}
	return nil
}

// ProposedDate is the date the renewal form is pre-filled with.
func ProposedDate(today time.Time) time.Time {
	return dates.AddDays(today, DefaultRenewalDays)
}

// MaxDate is the last acceptable renewal date.
func MaxDate(today time.Time) time.Time {
	return dates.AddDays(today, MaxRenewalDays)
}
