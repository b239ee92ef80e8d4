// Package effrange implements the inclusive effective-date ranges carried by
// coach assignments: a required start date and an optional end date, where a
// nil end means the range is open-ended and still in force.
//
// All functions treat bounds as whole calendar days at UTC midnight; Day is
// the canonical normalizer. The overlap test here is the entire substance of
// the conflict guard: the assignment store calls Intersects against every
// stored range for the same scope before accepting a write.
package effrange

import (
	"errors"
	"time"
)

// ErrInverted is returned by Validate when the end date precedes the start.
var ErrInverted = errors.New("effective_to is before effective_from")

// Range is an inclusive calendar-date interval. To == nil means open-ended.
type Range struct {
	From time.Time
	To   *time.Time
}

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// New builds a Range with both bounds normalized to UTC midnight.
func New(from time.Time, to *time.Time) Range {
	r := Range{From: Day(from)}
	if to != nil {
		d := Day(*to)
		r.To = &d
	}
	return r
}

// Validate checks the range invariant: To unset, or To >= From.
func (r Range) Validate() error {
	if r.To != nil && r.To.Before(r.From) {
		return ErrInverted
	}
	return nil
}

// Covers reports whether date falls inside r, bounds inclusive.
func (r Range) Covers(date time.Time) bool {
	d := Day(date)
	if d.Before(r.From) {
		return false
	}
	return r.To == nil || !d.After(*r.To)
}

// Intersects reports whether r and o share at least one day. An open-ended
// range intersects everything on or after its From.
func (r Range) Intersects(o Range) bool {
	// r starts after o ends, or o starts after r ends; otherwise they touch.
	if o.To != nil && r.From.After(*o.To) {
		return false
	}
	if r.To != nil && o.From.After(*r.To) {
		return false
	}
	return true
}

// Open reports whether the range has no end date.
func (r Range) Open() bool {
	return r.To == nil
}
