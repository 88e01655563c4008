// Package itinerary computes the day-by-day view of a trip: the calendar days
// it spans, the window of days shown at once, and the display order of the
// stops on those days.
//
// Everything here is a pure function of its arguments. There is no I/O and
// no shared state, so callers may invoke it concurrently without locking.
package itinerary

import (
	"fmt"
	"time"
)

// DateLayout is the only date representation accepted or produced.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// ParseError reports a date string that is not a valid "2006-01-02" calendar day.
// It points at bad stored or submitted data; retrying will not help.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseDate parses a "2006-01-02" string. field names the value in the
// returned *ParseError.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// MaxTripDays is the longest trip, in days, a user may plan. Every itinerary
// view lists all days of the trip, so the span must stay small.
const MaxTripDays = 3 * 366

// GenerateDays returns every calendar day from arrival to departure inclusive,
// ascending. When departure is before arrival the result is empty.
func GenerateDays(arrival, departure string) ([]string, error) {
	start, n, err := parseRange(arrival, departure)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []string{}, nil
	}

	days := make([]string, n)
	for i := range days {
		days[i] = start.AddDate(0, 0, i).Format(DateLayout)
	}
	return days, nil
}

// DayCount returns len(GenerateDays(arrival, departure)) without building
// the days. It is 0 when departure is before arrival.
func DayCount(arrival, departure string) (int, error) {
	_, n, err := parseRange(arrival, departure)
	if err != nil {
		return 0, err
	}
	return int(max(n, 0)), nil
}

// InRange reports whether day is one of the days from arrival to departure
// inclusive. A malformed day is not in range; malformed trip dates are a
// *ParseError.
func InRange(arrival, departure, day string) (bool, error) {
	start, n, err := parseRange(arrival, departure)
	if err != nil {
		return false, err
	}
	d, err := time.Parse(DateLayout, day)
	if err != nil || d.Format(DateLayout) != day {
		return false, nil
	}
	offset := (d.Unix() - start.Unix()) / secondsPerDay
	return offset >= 0 && offset < n, nil
}

// parseRange parses both dates and returns the start day and the inclusive
// day count, which is zero or negative when departure is before arrival.
func parseRange(arrival, departure string) (time.Time, int64, error) {
	start, err := ParseDate("arrival date", arrival)
	if err != nil {
		return time.Time{}, 0, err
	}
	end, err := ParseDate("departure date", departure)
	if err != nil {
		return time.Time{}, 0, err
	}
	// Both values are UTC midnights, so the difference is a whole number of days.
	return start, (end.Unix()-start.Unix())/secondsPerDay + 1, nil
}
