package forecast

import (
	"fmt"
	"time"
)

// DateFormat is the ISO 8601 calendar date layout used everywhere in the
// forecast document and its outputs.
const DateFormat = "2006-01-02"

// Date represents a calendar date in ISO 8601 format (YYYY-MM-DD). All
// scheduled transactions, balances and query windows are anchored to whole
// days; the embedded time is always midnight UTC so dates compare cleanly.
type Date struct {
	time.Time
}

// NewDate parses an ISO 8601 (YYYY-MM-DD) date string.
func NewDate(value string) (Date, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date: %s", value)
	}
	return Date{Time: t}, nil
}

// MustDate parses an ISO 8601 date string and panics on failure.
// Intended for fixtures and tests.
func MustDate(value string) Date {
	d, err := NewDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// String returns the date formatted as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateFormat)
}

// Compare orders two dates chronologically, returning -1, 0 or +1.
func (d Date) Compare(other Date) int {
	return d.Time.Compare(other.Time)
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// MarshalText implements encoding.TextMarshaler so dates serialize as
// YYYY-MM-DD in JSON responses and CSV exports.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := NewDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// daysInMonth returns the number of days in the month containing d.
func daysInMonth(d Date) int {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// lastDayOfMonth returns the final calendar day of d's month.
func lastDayOfMonth(d Date) Date {
	return Date{Time: time.Date(d.Year(), d.Month(), daysInMonth(d), 0, 0, 0, 0, time.UTC)}
}

// withDay returns d with its day-of-month replaced, clamped to the month's
// length (day 31 in February yields February's last day).
func withDay(d Date, day int) Date {
	if max := daysInMonth(d); day > max {
		day = max
	}
	if day < 1 {
		day = 1
	}
	return Date{Time: time.Date(d.Year(), d.Month(), day, 0, 0, 0, 0, time.UTC)}
}

// addMonths shifts d by the given number of months, clamping the day to the
// target month's length. Unlike time.Time.AddDate this never normalizes
// into the following month: Mar 31 minus one month is Feb 28, not Mar 3.
func addMonths(d Date, months int) Date {
	year := d.Year()
	month := int(d.Month()) + months
	for month < 1 {
		month += 12
		year--
	}
	for month > 12 {
		month -= 12
		year++
	}
	anchor := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return withDay(Date{Time: anchor}, d.Day())
}

func minDate(a, b Date) Date {
	if a.Time.Before(b.Time) {
		return a
	}
	return b
}
