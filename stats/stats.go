// Package stats reports worked time and earnings over a period
package stats

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/internal/timeutil"
	"github.com/ayoisaiah/cashtimer/internal/ui"
)

const (
	barChartChar = "▇"

	// daily charts are only drawn for periods up to this many days
	maxDailyBars = 31
)

// Period is the half-open reporting range [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// Days is the number of calendar days the period touches.
func (p Period) Days() int {
	days := 0
	for d := timeutil.RoundToStart(p.Start); d.Before(p.End); d = d.AddDate(0, 0, 1) {
		days++
	}

	return days
}

// Bucket accumulates the work that fell into one day, weekday or hour.
type Bucket struct {
	Earnings decimal.Decimal
	Worked   time.Duration
}

func (b *Bucket) add(d time.Duration, rate decimal.Decimal) {
	b.Worked += d
	b.Earnings = b.Earnings.Add(models.EarningsFor(rate, d))
}

// Report holds the totals and breakdowns of a period.
type Report struct {
	Period   Period
	Earnings decimal.Decimal
	// Daily is keyed by date in timeutil.DateFormat
	Daily    map[string]*Bucket
	Weekday  [7]Bucket
	Hourly   [24]Bucket
	Worked   time.Duration
	Sessions int
}

type interval struct {
	start, end time.Time
}

// activeIntervals splits a session into the stretches between its pauses.
func activeIntervals(sess *models.Session, now time.Time) []interval {
	end := sess.EffectiveEnd(now)

	pauses := slices.Clone(sess.Pauses)
	slices.SortFunc(pauses, func(a, b models.Pause) int {
		return a.StartTime.Compare(b.StartTime)
	})

	var out []interval

	cursor := sess.StartTime

	for i := range pauses {
		p := &pauses[i]

		if p.StartTime.After(cursor) {
			out = append(out, interval{cursor, minTime(p.StartTime, end)})
		}

		pauseEnd := end
		if p.EndTime != nil {
			pauseEnd = *p.EndTime
		}

		if pauseEnd.After(cursor) {
			cursor = pauseEnd
		}
	}

	if end.After(cursor) {
		out = append(out, interval{cursor, end})
	}

	return out
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}

	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}

	return b
}

// nextHour is the start of the wall clock hour after t in t's location. It is
// derived from the instant rather than the wall clock so that it always lies
// after t, including across daylight saving transitions.
func nextHour(t time.Time) time.Time {
	_, offset := t.Zone()
	shift := time.Duration(offset) * time.Second

	return t.Add(shift).Truncate(time.Hour).Add(time.Hour - shift)
}

// Compute aggregates the active time of the sessions that falls within the
// period. Running sessions count until now.
func Compute(sessions []*models.Session, period Period, now time.Time) *Report {
	r := &Report{
		Period:   period,
		Earnings: decimal.Zero,
		Daily:    make(map[string]*Bucket),
	}

	for d := timeutil.RoundToStart(period.Start); d.Before(period.End); d = d.AddDate(0, 0, 1) {
		r.Daily[d.Format(timeutil.DateFormat)] = &Bucket{Earnings: decimal.Zero}
	}

	for i := range r.Weekday {
		r.Weekday[i].Earnings = decimal.Zero
	}

	for i := range r.Hourly {
		r.Hourly[i].Earnings = decimal.Zero
	}

	for _, sess := range sessions {
		counted := false

		for _, iv := range activeIntervals(sess, now) {
			start := maxTime(iv.start.In(period.Start.Location()), period.Start)
			end := minTime(iv.end.In(period.Start.Location()), period.End)

			if !start.Before(end) {
				continue
			}

			counted = true

			r.Worked += end.Sub(start)
			r.Earnings = r.Earnings.Add(models.EarningsFor(sess.HourlyRate, end.Sub(start)))

			// hour boundaries are also day and weekday boundaries
			for t := start; t.Before(end); {
				next := minTime(nextHour(t), end)
				d := next.Sub(t)

				day := t.Format(timeutil.DateFormat)

				b, ok := r.Daily[day]
				if !ok {
					b = &Bucket{Earnings: decimal.Zero}
					r.Daily[day] = b
				}

				b.add(d, sess.HourlyRate)
				r.Weekday[t.Weekday()].add(d, sess.HourlyRate)
				r.Hourly[t.Hour()].add(d, sess.HourlyRate)

				t = next
			}
		}

		if counted {
			r.Sessions++
		}
	}

	return r
}

// AverageWorked is the worked time per day of the period.
func (r *Report) AverageWorked() time.Duration {
	days := r.Period.Days()
	if days == 0 {
		return 0
	}

	return r.Worked / time.Duration(days)
}

// AverageEarnings is the earnings per day of the period.
func (r *Report) AverageEarnings() decimal.Decimal {
	days := r.Period.Days()
	if days == 0 {
		return decimal.Zero
	}

	return r.Earnings.Div(decimal.NewFromInt(int64(days)))
}

func getBarChart(title string, labels []string, buckets []Bucket) string {
	if len(buckets) == 0 {
		return ""
	}

	header := ui.Blue(fmt.Sprintf("\n%s breakdown (minutes)", title))

	bars := make(pterm.Bars, len(buckets))
	for i := range buckets {
		bars[i] = pterm.Bar{
			Label: labels[i],
			Value: int(buckets[i].Worked.Round(time.Minute).Minutes()),
		}
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return header + chart
}

func (r *Report) dailyChart() string {
	if len(r.Daily) > maxDailyBars {
		return ""
	}

	days := slices.Sorted(maps.Keys(r.Daily))

	labels := make([]string, len(days))
	buckets := make([]Bucket, len(days))

	for i, d := range days {
		date, _ := time.Parse(timeutil.DateFormat, d)
		labels[i] = date.Format("Jan 02, 2006")
		buckets[i] = *r.Daily[d]
	}

	return getBarChart("Daily", labels, buckets)
}

func (r *Report) weekdayChart(weekStart time.Weekday) string {
	labels := make([]string, 7)
	buckets := make([]Bucket, 7)

	for i := range 7 {
		day := (weekStart + time.Weekday(i)) % 7
		labels[i] = day.String()
		buckets[i] = r.Weekday[day]
	}

	return getBarChart("Weekday", labels, buckets)
}

func (r *Report) hourlyChart() string {
	labels := make([]string, len(r.Hourly))
	for i := range labels {
		labels[i] = fmt.Sprintf("%02d:00", i)
	}

	return getBarChart("Hourly", labels, r.Hourly[:])
}

// getSummary retrieves the totals of the period.
func (r *Report) getSummary(symbol string) string {
	header := fmt.Sprintf("%s\n", ui.Blue("Summary"))

	return header +
		fmt.Sprintln("Time worked:", ui.Green(ui.HumanDuration(r.Worked))) +
		fmt.Sprintln("Earnings:", ui.Green(ui.Money(symbol, r.Earnings))) +
		fmt.Sprintln("Sessions:", ui.Green(r.Sessions))
}

func (r *Report) getAverages(symbol string) string {
	header := fmt.Sprintf("\n%s\n", ui.Blue("Daily averages"))

	return header +
		fmt.Sprintln("Time worked:", ui.Green(ui.HumanDuration(r.AverageWorked()))) +
		fmt.Sprintln("Earnings:", ui.Green(ui.Money(symbol, r.AverageEarnings().Round(2))))
}

// Show writes the report with its charts to w.
func (r *Report) Show(w io.Writer, symbol string, weekStart time.Weekday) {
	timePeriod := "Reporting period: " +
		r.Period.Start.Format("January 02, 2006") + " - " +
		r.Period.End.Add(-time.Nanosecond).Format("January 02, 2006")

	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln(timePeriod)

	output := fmt.Sprint(
		header,
		r.getSummary(symbol),
		r.getAverages(symbol),
		r.dailyChart(),
		r.weekdayChart(weekStart),
		r.hourlyChart(),
	)

	fmt.Fprintln(w, strings.TrimSpace(output))
}
