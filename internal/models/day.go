// MeepleRank - Board Game Club Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/meeplerank

package models

import (
	"fmt"
	"regexp"
	"time"
)

// DayLayout is the calendar day format used across the catalog (YYYY-MM-DD).
const DayLayout = "2006-01-02"

var dayPattern = regexp.MustCompile(`^\d{4}-\d\d-\d\d$`)

// Day is a calendar day in YYYY-MM-DD form. The zero value means "absent".
//
// Days sort lexicographically in chronological order, so plain string
// comparison is enough to pick the later of two days.
type Day string

// DayOf returns the calendar day of t in t's location.
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

// ParseDay validates s and returns it as a Day.
func ParseDay(s string) (Day, error) {
	if !dayPattern.MatchString(s) {
		return "", fmt.Errorf("day %q: expected YYYY-MM-DD", s)
	}
	if _, err := time.Parse(DayLayout, s); err != nil {
		return "", fmt.Errorf("day %q: %w", s, err)
	}
	return Day(s), nil
}

// IsZero reports whether the day is absent.
func (d Day) IsZero() bool {
	return d == ""
}

// Valid reports whether d is a well-formed calendar day.
func (d Day) Valid() bool {
	_, err := ParseDay(string(d))
	return err == nil
}

// Time returns midnight of the day in loc. ok is false when the day is
// absent or malformed.
func (d Day) Time(loc *time.Location) (t time.Time, ok bool) {
	if d.IsZero() || !dayPattern.MatchString(string(d)) {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DayLayout, string(d), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// After reports whether d is strictly later than other. An absent day is
// earlier than any present day.
func (d Day) After(other Day) bool {
	return d > other
}

// String implements fmt.Stringer.
func (d Day) String() string {
	return string(d)
}
