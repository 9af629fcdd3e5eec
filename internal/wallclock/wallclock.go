// Package wallclock holds naive local wall-clock arithmetic: minute-resolution
// times of day ("HH:MM") and calendar dates ("YYYY-MM-DD"). No timezone
// conversion happens here; callers supply the date context.
package wallclock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidTime = errors.New("time must be HH:MM")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)

// Time is a time of day in minutes since midnight. Values past 24:00 are
// allowed so that an interval ending after midnight can still be expressed.
type Time int

func Parse(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidTime
	}

	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidTime
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidTime
	}

	return Time(h*60 + m), nil
}

func MustParse(s string) Time {
	t, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("wallclock: %q: %v", s, err))
	}
	return t
}

func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

func (t Time) AddMinutes(minutes int) Time {
	return t + Time(minutes)
}

// Minutes reports the number of minutes since midnight.
func (t Time) Minutes() int {
	return int(t)
}

func Compare(a, b Time) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd Time) bool {
	return aStart < bEnd && bStart < aEnd
}

// AddMinutes is the string form of Time.AddMinutes.
func AddMinutes(hhmm string, minutes int) (string, error) {
	t, err := Parse(hhmm)
	if err != nil {
		return "", err
	}
	return t.AddMinutes(minutes).String(), nil
}

// ======================================================
// Dates
// ======================================================

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

func IsDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

func IsTime(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Weekday numbers days Monday=0 .. Sunday=6. It is the only numbering used
// for working-hours rules.
func Weekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// WeekdayOf parses a YYYY-MM-DD date and returns its Monday=0 weekday.
func WeekdayOf(date string) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return Weekday(d), nil
}

// Today splits an instant into its local date string and minute of day.
func Today(now time.Time) (string, Time) {
	return now.Format(DateLayout), Time(now.Hour()*60 + now.Minute())
}

// CompareDates compares two YYYY-MM-DD strings; the layout sorts lexically.
func CompareDates(a, b string) int {
	return strings.Compare(a, b)
}
