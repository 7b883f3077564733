package timestamp

import (
	"fmt"
	"time"
)

// Layout is the canonical string form of a Timestamp.
const Layout = "2006-01-02 15:04:05"

// Timestamp is a date and time read from an overlay, in camera local time.
type Timestamp struct {
	Year   int `json:"year"`
	Month  int `json:"month"`
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// FieldCount is the number of fields in a Timestamp.
const FieldCount = 6

// FromFields builds a Timestamp from year, month, day, hour, minute, second.
func FromFields(f [FieldCount]int) Timestamp {
	return Timestamp{f[0], f[1], f[2], f[3], f[4], f[5]}
}

// Fields returns the six fields in year..second order.
func (t Timestamp) Fields() [FieldCount]int {
	return [FieldCount]int{t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second}
}

// Valid reports whether t names a real calendar date and time of day.
func (t Timestamp) Valid() bool {
	if t.Year < 1 || t.Year > 9999 {
		return false
	}
	if t.Month < 1 || t.Month > 12 {
		return false
	}
	if t.Day < 1 || t.Day > daysIn(t.Year, t.Month) {
		return false
	}
	return t.Hour >= 0 && t.Hour < 24 &&
		t.Minute >= 0 && t.Minute < 60 &&
		t.Second >= 0 && t.Second < 60
}

func daysIn(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Canonical returns the "YYYY-MM-DD HH:MM:SS" form used as a grouping key.
func (t Timestamp) Canonical() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// Date returns the "YYYY-MM-DD" part of the canonical form.
func (t Timestamp) Date() string {
	return t.Canonical()[:10]
}

// Clock returns the "HH:MM:SS" part of the canonical form.
func (t Timestamp) Clock() string {
	return t.Canonical()[11:]
}

// Time converts t to a time.Time in loc. t must be valid.
func (t Timestamp) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(t.Year, time.Month(t.Month), t.Day, t.Hour, t.Minute, t.Second, 0, loc)
}

func (t Timestamp) String() string {
	return t.Canonical()
}
