// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	dateparser "github.com/markusmobius/go-dateparser"

	"github.com/ayoisaiah/cashtimer/internal/apperr"
)

const DateFormat = "2006-01-02"

var (
	errParsingTime = &apperr.Error{
		Message: "unable to understand %q as a time: use a timestamp like '2024-03-04 09:30' or a phrase like '20 mins ago'",
	}

	errInvalidWeekday = &apperr.Error{
		Message: "invalid day of the week: %s",
	}
)

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// WeekStart returns midnight on the first day of the week containing t, where
// weeks begin on startDay.
func WeekStart(t time.Time, startDay time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(startDay) + 7) % 7

	return RoundToStart(t).AddDate(0, 0, -offset)
}

// ParseWeekday parses a full or abbreviated English day name.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}

	return time.Sunday, errInvalidWeekday.Fmt(s)
}

// FromStr converts a user supplied time into a time value. Absolute
// timestamps are tried first, then relative phrases such as "2 hours ago"
// which are resolved against now.
func FromStr(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)

	t, err := dateparse.ParseIn(s, now.Location())
	if err == nil {
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime:         now,
		DefaultTimezone:     now.Location(),
		PreferredDateSource: dateparser.Past,
	}

	dt, err := dateparser.Parse(cfg, s)
	if err != nil {
		return time.Time{}, errParsingTime.Fmt(s)
	}

	return dt.Time, nil
}

// FormatDuration renders a duration as H:MM:SS, or M:SS below an hour.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}

	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
