// utils/dates.go
package utils

import "time"

// DateLayout is the calendar day format used for menus and votes.
const DateLayout = "2006-01-02"

// Day formats t as a calendar day in loc.
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ValidDay reports whether s is a calendar day in DateLayout.
func ValidDay(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
