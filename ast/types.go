package ast

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used throughout book files.
const DateLayout = "2006-01-02"

// Date represents a calendar date in a book file. It wraps time.Time so the
// full comparison API remains available, but only the date part is
// significant.
type Date struct {
	time.Time
}

// NewDate parses a date in YYYY-MM-DD format.
func NewDate(value string) (*Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", value)
	}
	return &Date{Time: t}, nil
}

// MustNewDate parses a date and panics on error. Use only in tests.
func MustNewDate(value string) *Date {
	d, err := NewDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the date in YYYY-MM-DD format.
func (d *Date) String() string {
	return d.Format(DateLayout)
}

// IsZero returns true if the Date is nil or represents the zero time.
// Nil-safe so callers can check optional dates without guarding.
func (d *Date) IsZero() bool {
	if d == nil {
		return true
	}
	return d.Time.IsZero()
}
