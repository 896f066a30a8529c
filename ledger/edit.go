package ledger

import (
	"context"
	"slices"
	"time"

	"github.com/ayoisaiah/cashtimer/internal/models"
)

// Boundary selects which end of a session an edit applies to.
type Boundary int

const (
	Start Boundary = iota
	End
)

func (b Boundary) String() string {
	if b == End {
		return "end"
	}

	return "start"
}

// EditTarget is the part of a session being edited. It is one of
// SessionStart, SessionEnd, PauseAt or NewPause.
type EditTarget interface {
	editTarget()
}

// SessionStart moves the start of a session.
type SessionStart struct {
	At time.Time
}

// SessionEnd moves the end of a stopped session.
type SessionEnd struct {
	At time.Time
}

// PauseAt changes the bounds of an existing pause. A nil bound is left as is.
type PauseAt struct {
	Start   *time.Time
	End     *time.Time
	PauseID string
}

// NewPause inserts a pause. A nil End adds an ongoing pause, which is only
// allowed on the current session.
type NewPause struct {
	End   *time.Time
	Start time.Time
}

func (SessionStart) editTarget() {}
func (SessionEnd) editTarget()   {}
func (PauseAt) editTarget()      {}
func (NewPause) editTarget()     {}

// Edit applies target to the session with the given id.
func (l *Ledger) Edit(
	ctx context.Context,
	id string,
	target EditTarget,
) (*models.Session, error) {
	switch t := target.(type) {
	case SessionStart:
		return l.EditBoundary(ctx, id, Start, t.At)
	case SessionEnd:
		return l.EditBoundary(ctx, id, End, t.At)
	case PauseAt:
		return l.EditPause(ctx, id, t.PauseID, t.Start, t.End)
	case NewPause:
		return l.AddPause(ctx, id, t.Start, t.End)
	}

	return nil, ErrInvalidState.Fmt("edit", "unsupported edit target")
}

// EditBoundary moves the start or end of a session and recomputes its
// earnings. The end of a running session cannot be edited; stop it instead.
func (l *Ledger) EditBoundary(
	ctx context.Context,
	id string,
	which Boundary,
	ts time.Time,
) (*models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sess := l.find(id)
	if sess == nil {
		return nil, ErrNotFound.Fmt("session " + id)
	}

	ts = ts.Round(0)
	now := l.clock()

	next := sess.Clone()

	switch which {
	case Start:
		next.StartTime = ts
	case End:
		if sess.Running() {
			return nil, ErrInvalidState.Fmt(
				"edit end time",
				"session is still running, stop it first",
			)
		}

		next.EndTime = models.TimePtr(ts)
	}

	err := validate(next, now)
	if err != nil {
		return nil, err
	}

	return l.commit(ctx, next, now)
}

// EditPause changes the bounds of the pause with the given id.
func (l *Ledger) EditPause(
	ctx context.Context,
	id, pauseID string,
	start, end *time.Time,
) (*models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sess := l.find(id)
	if sess == nil {
		return nil, ErrNotFound.Fmt("session " + id)
	}

	i := sess.PauseIndex(pauseID)
	if i < 0 {
		return nil, ErrNotFound.Fmt("pause " + pauseID)
	}

	now := l.clock()

	next := sess.Clone()

	if start != nil {
		next.Pauses[i].StartTime = start.Round(0)
	}

	if end != nil {
		next.Pauses[i].EndTime = models.TimePtr(end.Round(0))
	}

	next.SortPauses()

	err := validate(next, now)
	if err != nil {
		return nil, err
	}

	return l.commit(ctx, next, now)
}

// AddPause inserts a pause into a session at its chronological position.
func (l *Ledger) AddPause(
	ctx context.Context,
	id string,
	start time.Time,
	end *time.Time,
) (*models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sess := l.find(id)
	if sess == nil {
		return nil, ErrNotFound.Fmt("session " + id)
	}

	if end == nil && sess.Paused() {
		return nil, ErrInvalidState.Fmt(
			"add pause",
			"session already has an ongoing pause",
		)
	}

	now := l.clock()

	p := models.Pause{
		ID:        l.newID(),
		SessionID: id,
		StartTime: start.Round(0),
	}

	if end != nil {
		p.EndTime = models.TimePtr(end.Round(0))
	}

	next := sess.Clone()
	next.Pauses = append(next.Pauses, p)
	next.SortPauses()

	err := validate(next, now)
	if err != nil {
		return nil, err
	}

	return l.commit(ctx, next, now)
}

// DeletePause removes a pause from a session.
func (l *Ledger) DeletePause(
	ctx context.Context,
	id, pauseID string,
) (*models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sess := l.find(id)
	if sess == nil {
		return nil, ErrNotFound.Fmt("session " + id)
	}

	i := sess.PauseIndex(pauseID)
	if i < 0 {
		return nil, ErrNotFound.Fmt("pause " + pauseID)
	}

	next := sess.Clone()
	next.Pauses = slices.Delete(next.Pauses, i, i+1)

	return l.commit(ctx, next, l.clock())
}

// validate checks the chronology of a session and its pauses. Pauses must be
// sorted by start time.
func validate(sess *models.Session, now time.Time) error {
	if sess.StartTime.After(now) {
		return ErrInvalidRange.Fmt("start time cannot be in the future")
	}

	if sess.EndTime != nil {
		if sess.EndTime.Before(sess.StartTime) {
			return ErrInvalidRange.Fmt("start time cannot be after end time")
		}

		if sess.EndTime.After(now) {
			return ErrInvalidRange.Fmt("end time cannot be in the future")
		}
	}

	open := 0

	for i := range sess.Pauses {
		if sess.Pauses[i].Open() {
			open++
		}
	}

	if open > 1 {
		return ErrInvalidState.Fmt(
			"pause",
			"session already has an ongoing pause",
		)
	}

	for i := range sess.Pauses {
		p := &sess.Pauses[i]

		if p.EndTime != nil && p.EndTime.Before(p.StartTime) {
			return ErrInvalidRange.Fmt("pause start cannot be after pause end")
		}

		if p.StartTime.Before(sess.StartTime) {
			return ErrInvalidRange.Fmt("pause cannot start before the session")
		}

		if p.StartTime.After(now) || (p.EndTime != nil && p.EndTime.After(now)) {
			return ErrInvalidRange.Fmt("pause cannot be in the future")
		}

		if sess.EndTime != nil {
			if p.Open() {
				return ErrInvalidRange.Fmt(
					"a stopped session cannot have an ongoing pause",
				)
			}

			if p.EndTime.After(*sess.EndTime) {
				return ErrInvalidRange.Fmt("pause cannot end after the session")
			}
		}

		if i > 0 {
			prev := &sess.Pauses[i-1]
			if prev.Open() || prev.EndTime.After(p.StartTime) {
				return ErrInvalidRange.Fmt("pauses cannot overlap")
			}
		}
	}

	return nil
}
