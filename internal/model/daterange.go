package model

import (
	"fmt"
	"time"
)

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate rejects ranges whose start is after their end.
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return &ValidationError{Entity: "range", Field: "range", Message: "start and end dates are required"}
	}
	if r.From.After(r.To) {
		return &ValidationError{
			Entity:  "range",
			Field:   "range",
			Message: fmt.Sprintf("invalid range: start %s is after end %s", r.From.Format(DateFormat), r.To.Format(DateFormat)),
		}
	}
	return nil
}

// Contains reports whether d falls inside the range, inclusive on both ends.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Bounds returns the range endpoints in storage format.
func (r DateRange) Bounds() (string, string) {
	return r.From.Format(DateFormat), r.To.Format(DateFormat)
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, &ValidationError{Entity: "date", Field: "date", Message: fmt.Sprintf("invalid date %q, use YYYY-MM-DD", s)}
	}
	return d, nil
}
