// Package ledger tracks the lifecycle of work sessions and their pauses, and
// derives durations, earnings and invoices from them
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ayoisaiah/cashtimer/internal/models"
)

// Store is the persistence the ledger needs. It is satisfied by the
// implementations in the store package.
type Store interface {
	CreateSession(ctx context.Context, sess *models.Session) error
	UpdateSession(ctx context.Context, sess *models.Session) error
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, ownerID string) ([]*models.Session, error)
}

// IdentityProvider reports who is signed in.
type IdentityProvider interface {
	Current(ctx context.Context) (*models.User, error)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces the wall clock used to read the current time.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator replaces the function that assigns session and pause ids.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) {
		l.newID = fn
	}
}

// Ledger owns the sessions of the signed in user. Every change goes through
// its methods: a candidate copy is validated and persisted before it replaces
// the in-memory state, so a failed store call leaves the ledger untouched.
type Ledger struct {
	store    Store
	identity IdentityProvider
	now      func() time.Time
	newID    func() string
	current  *models.Session
	owner    string
	history  []*models.Session
	mu       sync.Mutex
}

// New returns a Ledger backed by s.
func New(s Store, identity IdentityProvider, opts ...Option) *Ledger {
	l := &Ledger{
		store:    s,
		identity: identity,
		now:      time.Now,
		newID:    uuid.NewString,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *Ledger) clock() time.Time {
	// strip the monotonic reading so that persisted values compare equal
	return l.now().Round(0)
}

// Load reads the sessions of the signed in user from the store.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.load(ctx)

	return err
}

// signedIn returns the id of the signed in user. Failures of the identity
// provider other than nobody being signed in are store failures.
func (l *Ledger) signedIn(ctx context.Context) (string, error) {
	user, err := l.identity.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return "", ErrNotAuthenticated
		}

		return "", ErrStoreUnavailable.Wrap(err)
	}

	if user == nil || user.ID == "" {
		return "", ErrNotAuthenticated
	}

	return user.ID, nil
}

func (l *Ledger) load(ctx context.Context) (string, error) {
	owner, err := l.signedIn(ctx)
	if err != nil {
		return "", err
	}

	sessions, err := l.store.ListSessions(ctx, owner)
	if err != nil {
		return "", ErrStoreUnavailable.Wrap(err)
	}

	l.owner = owner
	l.current = nil
	l.history = l.history[:0]

	for _, sess := range sessions {
		if !sess.Running() {
			l.history = append(l.history, sess)
			continue
		}

		if l.current != nil {
			slog.Warn(
				"multiple running sessions found",
				slog.String("kept", sess.ID),
				slog.String("ignored", l.current.ID),
			)
		}

		l.current = sess
	}

	sortSessions(l.history)

	slog.Debug(
		"ledger loaded",
		slog.String("owner", l.owner),
		slog.Int("history", len(l.history)),
		slog.Bool("running", l.current != nil),
	)

	return l.owner, nil
}

// ensureLoaded reloads the ledger when the signed in user changed since the
// last load.
func (l *Ledger) ensureLoaded(ctx context.Context) (string, error) {
	owner, err := l.signedIn(ctx)
	if err != nil {
		return "", err
	}

	if owner == l.owner {
		return l.owner, nil
	}

	return l.load(ctx)
}

// Start begins a new running session at the current time.
func (l *Ledger) Start(
	ctx context.Context,
	hourlyRate decimal.Decimal,
) (*models.Session, error) {
	return l.StartAt(ctx, hourlyRate, time.Time{})
}

// StartAt begins a new running session that started at the given time, which
// must not be in the future or overlap a stopped session. A zero time means
// now.
func (l *Ledger) StartAt(
	ctx context.Context,
	hourlyRate decimal.Decimal,
	at time.Time,
) (*models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	owner, err := l.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}

	if l.current != nil {
		return nil, ErrAlreadyRunning
	}

	if hourlyRate.IsNegative() {
		return nil, ErrInvalidRate.Fmt(hourlyRate.String())
	}

	now := l.clock()

	start := now
	if !at.IsZero() {
		start = at.Round(0)
	}

	if start.After(now) {
		return nil, ErrInvalidRange.Fmt("start time cannot be in the future")
	}

	for _, h := range l.history {
		if h.EndTime.After(start) {
			return nil, ErrInvalidRange.Fmt(
				"new sessions cannot overlap with existing ones",
			)
		}
	}

	sess := &models.Session{
		ID:         l.newID(),
		OwnerID:    owner,
		StartTime:  start,
		HourlyRate: hourlyRate,
		CreatedAt:  now,
		UpdatedAt:  now,
		Pauses:     []models.Pause{},
	}

	sess.Earnings = sess.ComputeEarnings(now)

	err = l.store.CreateSession(ctx, sess)
	if err != nil {
		return nil, ErrStoreUnavailable.Wrap(err)
	}

	l.current = sess

	slog.Info(
		"session started",
		slog.String("id", sess.ID),
		slog.String("rate", hourlyRate.String()),
	)

	return sess.Clone(), nil
}

// currentFor returns the current session if it has the given id. Callers
// acting on a session that has since been stopped or deleted are rejected.
func (l *Ledger) currentFor(id, action string) (*models.Session, error) {
	if l.current == nil {
		return nil, ErrInvalidState.Fmt(action, "no session is running")
	}

	if l.current.ID != id {
		return nil, ErrInvalidState.Fmt(
			action,
			"session "+id+" is not the current session",
		)
	}

	return l.current, nil
}

// Pause opens a pause on the running session.
func (l *Ledger) Pause(ctx context.Context, id string) (*models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, err := l.currentFor(id, "pause")
	if err != nil {
		return nil, err
	}

	if cur.Paused() {
		return nil, ErrInvalidState.Fmt("pause", "session is already paused")
	}

	now := l.clock()

	next := cur.Clone()
	next.Pauses = append(next.Pauses, models.Pause{
		ID:        l.newID(),
		SessionID: next.ID,
		StartTime: now,
	})

	return l.commit(ctx, next, now)
}

// Resume closes the open pause of the current session.
func (l *Ledger) Resume(ctx context.Context, id string) (*models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, err := l.currentFor(id, "resume")
	if err != nil {
		return nil, err
	}

	i := cur.OpenPauseIndex()
	if i < 0 {
		return nil, ErrInvalidState.Fmt("resume", "session is not paused")
	}

	now := l.clock()

	next := cur.Clone()
	next.Pauses[i].EndTime = models.TimePtr(now)

	return l.commit(ctx, next, now)
}

// Stop ends the current session, closing any open pause, and moves it to the
// history with its final earnings.
func (l *Ledger) Stop(ctx context.Context, id string) (*models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, err := l.currentFor(id, "stop")
	if err != nil {
		return nil, err
	}

	now := l.clock()

	next := cur.Clone()

	if i := next.OpenPauseIndex(); i >= 0 {
		next.Pauses[i].EndTime = models.TimePtr(now)
	}

	next.EndTime = models.TimePtr(now)

	sess, err := l.commit(ctx, next, now)
	if err != nil {
		return nil, err
	}

	slog.Info(
		"session stopped",
		slog.String("id", sess.ID),
		slog.String("earnings", sess.Earnings.StringFixed(2)),
	)

	return sess, nil
}

// DeleteSession removes a session and all its pauses.
func (l *Ledger) DeleteSession(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.find(id) == nil {
		return ErrNotFound.Fmt("session " + id)
	}

	err := l.store.DeleteSession(ctx, id)
	if err != nil {
		return ErrStoreUnavailable.Wrap(err)
	}

	if l.current != nil && l.current.ID == id {
		l.current = nil
	}

	l.history = slices.DeleteFunc(l.history, func(s *models.Session) bool {
		return s.ID == id
	})

	slog.Info("session deleted", slog.String("id", id))

	return nil
}

// Tick is a snapshot of the current session for display.
type Tick struct {
	Earnings  decimal.Decimal
	SessionID string
	Elapsed   int64
	Paused    bool
}

// Tick reports the elapsed active seconds and accrued earnings of the current
// session. It reports false when no session is running.
func (l *Ledger) Tick() (Tick, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return Tick{}, false
	}

	now := l.clock()

	return Tick{
		SessionID: l.current.ID,
		Elapsed:   l.current.ElapsedSeconds(now),
		Earnings:  l.current.ComputeEarnings(now),
		Paused:    l.current.Paused(),
	}, true
}

// Current returns a copy of the running or paused session.
func (l *Ledger) Current() (*models.Session, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return nil, false
	}

	return l.current.Clone(), true
}

// History returns copies of the stopped sessions ordered by start time.
func (l *Ledger) History() []*models.Session {
	l.mu.Lock()
	defer l.mu.Unlock()

	return cloneAll(l.history)
}

// Sessions returns copies of every session, including the current one,
// ordered by start time.
func (l *Ledger) Sessions() []*models.Session {
	l.mu.Lock()
	defer l.mu.Unlock()

	all := cloneAll(l.history)
	if l.current != nil {
		all = append(all, l.current.Clone())
	}

	sortSessions(all)

	return all
}

// Session returns a copy of the session with the given id.
func (l *Ledger) Session(id string) (*models.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sess := l.find(id)
	if sess == nil {
		return nil, ErrNotFound.Fmt("session " + id)
	}

	return sess.Clone(), nil
}

// Now returns the current time according to the ledger's clock.
func (l *Ledger) Now() time.Time {
	return l.clock()
}

func (l *Ledger) find(id string) *models.Session {
	if l.current != nil && l.current.ID == id {
		return l.current
	}

	for _, s := range l.history {
		if s.ID == id {
			return s
		}
	}

	return nil
}

// commit recomputes the earnings of next, persists it and only then makes it
// visible. Must be called with the lock held.
func (l *Ledger) commit(
	ctx context.Context,
	next *models.Session,
	now time.Time,
) (*models.Session, error) {
	next.Earnings = next.ComputeEarnings(now)
	next.UpdatedAt = now

	err := l.store.UpdateSession(ctx, next)
	if err != nil {
		return nil, ErrStoreUnavailable.Wrap(err)
	}

	l.replace(next)

	return next.Clone(), nil
}

func (l *Ledger) replace(next *models.Session) {
	if next.Running() {
		l.current = next
		return
	}

	if l.current != nil && l.current.ID == next.ID {
		l.current = nil
	}

	i := slices.IndexFunc(l.history, func(s *models.Session) bool {
		return s.ID == next.ID
	})
	if i >= 0 {
		l.history[i] = next
	} else {
		l.history = append(l.history, next)
	}

	sortSessions(l.history)
}

func sortSessions(sessions []*models.Session) {
	slices.SortStableFunc(sessions, func(a, b *models.Session) int {
		return a.StartTime.Compare(b.StartTime)
	})
}

func cloneAll(sessions []*models.Session) []*models.Session {
	out := make([]*models.Session, len(sessions))
	for i, s := range sessions {
		out[i] = s.Clone()
	}

	return out
}

// IsUserError reports whether err is a validation error the user can act on,
// as opposed to a failure of a collaborator.
func IsUserError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrInvalidRate) ||
		errors.Is(err, ErrAlreadyRunning) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNotAuthenticated)
}
