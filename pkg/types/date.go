package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Display and storage layouts for civil dates.
const (
	LayoutBR  = "02/01/2006"
	LayoutISO = "2006-01-02"
)

var brDatePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// Date is a calendar date with no time of day. The zero value means the
// date is absent and is stored as NULL.
type Date struct {
	t time.Time
}

// NewDate returns the date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses user input in DD/MM/YYYY form.
func ParseDate(s string) (Date, error) {
	if !brDatePattern.MatchString(s) {
		return Date{}, ErrInvalidDate
	}
	t, err := time.Parse(LayoutBR, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{t: t}, nil
}

// ParseISODate parses the YYYY-MM-DD storage form. An empty string yields
// the zero Date.
func ParseISODate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	if len(s) > len(LayoutISO) {
		// Timestamps written by other tools carry a time part.
		s = s[:len(LayoutISO)]
	}
	t, err := time.Parse(LayoutISO, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time { return d.t }

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is later than o.
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Year returns the calendar year.
func (d Date) Year() int { return d.t.Year() }

// Month returns the calendar month.
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.t.Day() }

// FormatBR renders the date as DD/MM/YYYY, or "N/A" when absent.
func (d Date) FormatBR() string {
	if d.IsZero() {
		return "N/A"
	}
	return d.t.Format(LayoutBR)
}

// ISO renders the date as YYYY-MM-DD, or "" when absent.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(LayoutISO)
}

// String implements fmt.Stringer with the DD/MM/YYYY form.
func (d Date) String() string { return d.FormatBR() }

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.ISO(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case string:
		parsed, err := ParseISODate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		*d = DateOf(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// MarshalJSON writes the ISO form, or null when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.ISO())
}

// UnmarshalJSON reads the ISO form or null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseISODate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
