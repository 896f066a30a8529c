package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayoisaiah/cashtimer/internal/apperr"
	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/internal/timeutil"
)

// SortOrder is the direction in which sessions and weeks are listed.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

var errInvalidSortOrder = &apperr.Error{
	Message: "invalid sort order %q: expected 'asc' or 'desc'",
}

// ParseSortOrder accepts "asc", "desc" and their long forms.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "oldest":
		return Ascending, nil
	case "desc", "descending", "newest", "":
		return Descending, nil
	}

	return "", errInvalidSortOrder.Fmt(s)
}

// WeekGroup holds the sessions that started within one week.
type WeekGroup struct {
	Start    time.Time
	Earnings decimal.Decimal
	Sessions []*models.Session
	Duration time.Duration
}

// End returns the first instant after the week.
func (w *WeekGroup) End() time.Time {
	return w.Start.AddDate(0, 0, 7)
}

// Label describes the week range, e.g. "Mar 04 - Mar 10, 2024".
func (w *WeekGroup) Label() string {
	last := w.Start.AddDate(0, 0, 6)

	if last.Year() != w.Start.Year() {
		return w.Start.Format("Jan 02, 2006") + " - " + last.Format("Jan 02, 2006")
	}

	return w.Start.Format("Jan 02") + " - " + last.Format("Jan 02, 2006")
}

// GroupByWeek buckets sessions by the week containing their start time. The
// sessions in a group and the groups themselves are ordered by start time in
// the given direction. Totals of running sessions are taken as of now.
func GroupByWeek(
	sessions []*models.Session,
	weekStart time.Weekday,
	order SortOrder,
	now time.Time,
) []WeekGroup {
	// keyed by instant since equal times in different locations are
	// distinct map keys
	byWeek := make(map[int64]*WeekGroup)

	for _, sess := range sessions {
		start := timeutil.WeekStart(sess.StartTime, weekStart)

		g, ok := byWeek[start.Unix()]
		if !ok {
			g = &WeekGroup{Start: start, Earnings: decimal.Zero}
			byWeek[start.Unix()] = g
		}

		g.Sessions = append(g.Sessions, sess)
		g.Duration += sess.ActiveDuration(now)
		g.Earnings = g.Earnings.Add(sess.ComputeEarnings(now))
	}

	groups := make([]WeekGroup, 0, len(byWeek))
	for _, g := range byWeek {
		slices.SortStableFunc(g.Sessions, func(a, b *models.Session) int {
			return order.compare(a.StartTime, b.StartTime)
		})

		groups = append(groups, *g)
	}

	slices.SortFunc(groups, func(a, b WeekGroup) int {
		return order.compare(a.Start, b.Start)
	})

	return groups
}

func (o SortOrder) compare(a, b time.Time) int {
	if o == Ascending {
		return a.Compare(b)
	}

	return b.Compare(a)
}
