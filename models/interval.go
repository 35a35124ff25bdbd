package models

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format for check-in and check-out dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidRange is returned when check-out does not fall after check-in.
	ErrInvalidRange = errors.New("check-out date must be after check-in date")
	// ErrInvalidDate is returned for empty or unparseable dates.
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")
)

// Interval is the half-open stay range [CheckIn, CheckOut). Both ends are
// calendar days at UTC midnight.
type Interval struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// NewInterval normalizes both ends to the UTC day and requires CheckOut > CheckIn.
func NewInterval(checkIn, checkOut time.Time) (Interval, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return Interval{}, ErrInvalidDate
	}
	in, out := TruncateDay(checkIn), TruncateDay(checkOut)
	if !out.After(in) {
		return Interval{}, ErrInvalidRange
	}
	return Interval{CheckIn: in, CheckOut: out}, nil
}

// ParseInterval builds an Interval from two date strings.
func ParseInterval(checkIn, checkOut string) (Interval, error) {
	in, err := ParseDate(checkIn)
	if err != nil {
		return Interval{}, err
	}
	out, err := ParseDate(checkOut)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(in, out)
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns that
// calendar date as UTC midnight. A timestamp keeps the date of its own offset.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// TruncateDay drops the time of day, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back
// stays (one checks out the day the other checks in) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.CheckIn.Before(b.CheckOut) && b.CheckIn.Before(a.CheckOut)
}

func (iv Interval) Overlaps(other Interval) bool {
	return Overlaps(iv, other)
}

// Nights is the number of nights covered by the stay.
func (iv Interval) Nights() int {
	return int(iv.CheckOut.Sub(iv.CheckIn).Hours() / 24)
}

func (iv Interval) String() string {
	return "[" + iv.CheckIn.Format(DateLayout) + ", " + iv.CheckOut.Format(DateLayout) + ")"
}
