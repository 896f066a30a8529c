// Package models defines the sessions and pauses tracked by CashTimer along
// with the arithmetic that derives durations and earnings from them
package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var hourNanos = decimal.NewFromInt(int64(time.Hour))

// Pause is an interval within a session during which no earnings accrue.
type Pause struct {
	// EndTime is nil while the pause is ongoing
	EndTime   *time.Time `json:"end_time"`
	StartTime time.Time  `json:"start_time"`
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
}

// Open reports whether the pause has not been ended yet.
func (p *Pause) Open() bool {
	return p.EndTime == nil
}

// Duration returns the length of the pause. An open pause is considered to
// last until end.
func (p *Pause) Duration(end time.Time) time.Duration {
	if p.EndTime != nil {
		end = *p.EndTime
	}

	if end.Before(p.StartTime) {
		return 0
	}

	return end.Sub(p.StartTime)
}

// Session is one continuous work-tracking record from start to stop.
type Session struct {
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    *time.Time      `json:"end_time"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Earnings   decimal.Decimal `json:"earnings"`
	ID         string          `json:"id"`
	OwnerID    string          `json:"owner_id"`
	Pauses     []Pause         `json:"pauses"`
}

// Running reports whether the session is current, that is, it has not been
// stopped. A paused session is still running.
func (s *Session) Running() bool {
	return s.EndTime == nil
}

// Paused reports whether the session is current and has an open pause.
func (s *Session) Paused() bool {
	return s.Running() && s.OpenPauseIndex() >= 0
}

// OpenPauseIndex returns the index of the ongoing pause or -1.
func (s *Session) OpenPauseIndex() int {
	return slices.IndexFunc(s.Pauses, func(p Pause) bool {
		return p.Open()
	})
}

// PauseIndex returns the index of the pause with the given id or -1.
func (s *Session) PauseIndex(id string) int {
	return slices.IndexFunc(s.Pauses, func(p Pause) bool {
		return p.ID == id
	})
}

// EffectiveEnd is the end time of the session, or now if it is still running.
func (s *Session) EffectiveEnd(now time.Time) time.Time {
	if s.EndTime != nil {
		return *s.EndTime
	}

	return now
}

// BreakDuration sums the length of every pause as of now.
func (s *Session) BreakDuration(now time.Time) time.Duration {
	end := s.EffectiveEnd(now)

	var total time.Duration
	for i := range s.Pauses {
		total += s.Pauses[i].Duration(end)
	}

	return total
}

// TotalDuration is the wall-clock length of the session including pauses.
func (s *Session) TotalDuration(now time.Time) time.Duration {
	end := s.EffectiveEnd(now)
	if end.Before(s.StartTime) {
		return 0
	}

	return end.Sub(s.StartTime)
}

// ActiveDuration is the total duration minus the time spent on pauses.
func (s *Session) ActiveDuration(now time.Time) time.Duration {
	active := s.TotalDuration(now) - s.BreakDuration(now)
	if active < 0 {
		return 0
	}

	return active
}

// ElapsedSeconds is the active duration in whole seconds.
func (s *Session) ElapsedSeconds(now time.Time) int64 {
	return int64(s.ActiveDuration(now) / time.Second)
}

// ComputeEarnings derives the earnings of the session as of now.
func (s *Session) ComputeEarnings(now time.Time) decimal.Decimal {
	return EarningsFor(s.HourlyRate, s.ActiveDuration(now))
}

// SortPauses orders the pauses chronologically by start time.
func (s *Session) SortPauses() {
	slices.SortStableFunc(s.Pauses, func(a, b Pause) int {
		return a.StartTime.Compare(b.StartTime)
	})
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s

	if s.EndTime != nil {
		end := *s.EndTime
		c.EndTime = &end
	}

	c.Pauses = make([]Pause, len(s.Pauses))
	for i, p := range s.Pauses {
		if p.EndTime != nil {
			end := *p.EndTime
			p.EndTime = &end
		}

		c.Pauses[i] = p
	}

	return &c
}

// EarningsFor multiplies an hourly rate by a duration.
func EarningsFor(rate decimal.Decimal, d time.Duration) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(d))).Div(hourNanos)
}

// Hours expresses a duration as a decimal number of hours.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d)).Div(hourNanos)
}

// TimePtr returns a pointer to a copy of t.
func TimePtr(t time.Time) *time.Time {
	return &t
}
