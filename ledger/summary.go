package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ayoisaiah/cashtimer/internal/models"
)

// Summary describes a session once it is over.
type Summary struct {
	StartTime  time.Time
	EndTime    time.Time
	Earnings   decimal.Decimal
	HourlyRate decimal.Decimal
	ID         string
	Total      time.Duration
	Break      time.Duration
	Active     time.Duration
	Pauses     int
}

// Summarize computes the summary of a session as of now.
func Summarize(sess *models.Session, now time.Time) Summary {
	return Summary{
		ID:         sess.ID,
		StartTime:  sess.StartTime,
		EndTime:    sess.EffectiveEnd(now),
		HourlyRate: sess.HourlyRate,
		Earnings:   sess.ComputeEarnings(now),
		Total:      sess.TotalDuration(now),
		Break:      sess.BreakDuration(now),
		Active:     sess.ActiveDuration(now),
		Pauses:     len(sess.Pauses),
	}
}
