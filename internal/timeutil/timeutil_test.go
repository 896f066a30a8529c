package timeutil_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/cashtimer/internal/timeutil"
)

func date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		Name     string
		Time     time.Time
		StartDay time.Weekday
		Want     time.Time
	}{
		{
			Name:     "monday is its own week start",
			Time:     date(2024, time.March, 4, 9),
			StartDay: time.Monday,
			Want:     date(2024, time.March, 4, 0),
		},
		{
			Name:     "sunday belongs to the preceding monday",
			Time:     date(2024, time.March, 10, 23),
			StartDay: time.Monday,
			Want:     date(2024, time.March, 4, 0),
		},
		{
			Name:     "sunday start weeks",
			Time:     date(2024, time.March, 10, 23),
			StartDay: time.Sunday,
			Want:     date(2024, time.March, 10, 0),
		},
		{
			Name:     "week crossing a month boundary",
			Time:     date(2024, time.March, 1, 12),
			StartDay: time.Monday,
			Want:     date(2024, time.February, 26, 0),
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, timeutil.WeekStart(tc.Time, tc.StartDay))
		})
	}
}

func TestParseWeekday(t *testing.T) {
	for input, want := range map[string]time.Weekday{
		"monday":   time.Monday,
		"Sunday":   time.Sunday,
		" sat ":    time.Saturday,
		"wed":      time.Wednesday,
		"THURSDAY": time.Thursday,
	} {
		got, err := timeutil.ParseWeekday(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := timeutil.ParseWeekday("someday")
	assert.Error(t, err)

	_, err = timeutil.ParseWeekday("m")
	assert.Error(t, err)
}

func TestFromStr(t *testing.T) {
	now := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)

	got, err := timeutil.FromStr("2024-03-04 09:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC), got)

	got, err = timeutil.FromStr("20 minutes ago", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-20*time.Minute), got)

	_, err = timeutil.FromStr("not a time at all", now)
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", timeutil.FormatDuration(0))
	assert.Equal(t, "5:07", timeutil.FormatDuration(5*time.Minute+7*time.Second))
	assert.Equal(t, "1:30:00", timeutil.FormatDuration(90*time.Minute))
	assert.Equal(t, "0:00", timeutil.FormatDuration(-time.Second))
}
