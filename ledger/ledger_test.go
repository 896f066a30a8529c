package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/internal/testutil"
	"github.com/ayoisaiah/cashtimer/ledger"
)

var at = testutil.Date

// runFullCycle starts at 09:00 at $60/hr, pauses from 09:30 to 09:45 and
// stops at 10:45.
func runFullCycle(t *testing.T, f *fixture) *models.Session {
	t.Helper()

	ctx := context.Background()

	sess, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)

	f.clock.Set(at(9, 30))
	_, err = f.ledger.Pause(ctx, sess.ID)
	require.NoError(t, err)

	f.clock.Set(at(9, 45))
	_, err = f.ledger.Resume(ctx, sess.ID)
	require.NoError(t, err)

	f.clock.Set(at(10, 45))
	sess, err = f.ledger.Stop(ctx, sess.ID)
	require.NoError(t, err)

	return sess
}

func TestFullCycle(t *testing.T) {
	f := newFixture(at(9, 0))

	sess := runFullCycle(t, f)

	assert.Equal(t, "90.00", sess.Earnings.StringFixed(2))
	assert.Equal(t, 90*time.Minute, sess.ActiveDuration(at(12, 0)))
	assert.Equal(t, at(10, 45), *sess.EndTime)
	require.Len(t, sess.Pauses, 1)
	assert.Equal(t, at(9, 45), *sess.Pauses[0].EndTime)

	_, running := f.ledger.Current()
	assert.False(t, running)

	history := f.ledger.History()
	require.Len(t, history, 1)
	assert.Equal(t, sess.ID, history[0].ID)

	if diff := cmp.Diff(sess, f.store.get(sess.ID), testutil.CmpOpts()); diff != "" {
		t.Fatalf("persisted session differs (-ledger +store):\n%s", diff)
	}
}

func TestStopClosesOpenPause(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)

	f.clock.Set(at(10, 0))
	_, err = f.ledger.Pause(ctx, sess.ID)
	require.NoError(t, err)

	f.clock.Set(at(10, 30))
	sess, err = f.ledger.Stop(ctx, sess.ID)
	require.NoError(t, err)

	require.Len(t, sess.Pauses, 1)
	assert.Equal(t, at(10, 30), *sess.Pauses[0].EndTime)
	assert.Equal(t, "60.00", sess.Earnings.StringFixed(2))
}

func TestEditEndBeforeStartIsRejected(t *testing.T) {
	f := newFixture(at(9, 0))

	sess := runFullCycle(t, f)

	_, err := f.ledger.EditBoundary(
		context.Background(),
		sess.ID,
		ledger.End,
		at(8, 59),
	)
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	got, err := f.ledger.Session(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "90.00", got.Earnings.StringFixed(2))
	assert.Equal(t, at(10, 45), *got.EndTime)
	assert.Equal(t, at(10, 45), *f.store.get(sess.ID).EndTime)
}

func TestEditBoundary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess := runFullCycle(t, f)

	f.clock.Set(at(12, 0))

	edited, err := f.ledger.Edit(ctx, sess.ID, ledger.SessionEnd{At: at(11, 15)})
	require.NoError(t, err)
	assert.Equal(t, "120.00", edited.Earnings.StringFixed(2))
	assert.Equal(t, "120.00", f.store.get(sess.ID).Earnings.StringFixed(2))

	edited, err = f.ledger.Edit(ctx, sess.ID, ledger.SessionStart{At: at(8, 45)})
	require.NoError(t, err)
	assert.Equal(t, "135.00", edited.Earnings.StringFixed(2))

	cases := []struct {
		Name   string
		Target ledger.EditTarget
	}{
		{Name: "start after the first pause", Target: ledger.SessionStart{At: at(9, 40)}},
		{Name: "end before the last pause ends", Target: ledger.SessionEnd{At: at(9, 40)}},
		{Name: "end in the future", Target: ledger.SessionEnd{At: at(13, 0)}},
		{Name: "start after end", Target: ledger.SessionStart{At: at(11, 30)}},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := f.ledger.Edit(ctx, sess.ID, tc.Target)
			assert.ErrorIs(t, err, ledger.ErrInvalidRange)
		})
	}
}

func TestEditRunningSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)

	f.clock.Set(at(10, 0))

	_, err = f.ledger.EditBoundary(ctx, sess.ID, ledger.End, at(9, 30))
	require.ErrorIs(t, err, ledger.ErrInvalidState)

	_, err = f.ledger.EditBoundary(ctx, sess.ID, ledger.Start, at(10, 5))
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	edited, err := f.ledger.EditBoundary(ctx, sess.ID, ledger.Start, at(9, 30))
	require.NoError(t, err)
	assert.Equal(t, "30.00", edited.Earnings.StringFixed(2))

	tick, ok := f.ledger.Tick()
	require.True(t, ok)
	assert.EqualValues(t, 30*60, tick.Elapsed)
}

func TestPauseEditing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess := runFullCycle(t, f)
	firstPause := sess.Pauses[0].ID

	f.clock.Set(at(12, 0))

	// inserted before the existing pause, so it must end up first
	sess, err := f.ledger.AddPause(ctx, sess.ID, at(9, 10), models.TimePtr(at(9, 20)))
	require.NoError(t, err)
	require.Len(t, sess.Pauses, 2)
	assert.Equal(t, at(9, 10), sess.Pauses[0].StartTime)
	assert.Equal(t, firstPause, sess.Pauses[1].ID)
	assert.Equal(t, "80.00", sess.Earnings.StringFixed(2))

	inserted := sess.Pauses[0].ID

	_, err = f.ledger.AddPause(ctx, sess.ID, at(9, 15), models.TimePtr(at(9, 35)))
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	_, err = f.ledger.AddPause(ctx, sess.ID, at(10, 40), nil)
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	_, err = f.ledger.EditPause(ctx, sess.ID, firstPause, nil, models.TimePtr(at(9, 25)))
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	// moving a pause past its neighbour re-sorts the list
	sess, err = f.ledger.Edit(ctx, sess.ID, ledger.PauseAt{
		PauseID: inserted,
		Start:   models.TimePtr(at(10, 0)),
		End:     models.TimePtr(at(10, 10)),
	})
	require.NoError(t, err)
	assert.Equal(t, firstPause, sess.Pauses[0].ID)
	assert.Equal(t, inserted, sess.Pauses[1].ID)
	assert.Equal(t, "80.00", sess.Earnings.StringFixed(2))

	_, err = f.ledger.EditPause(ctx, sess.ID, "missing", nil, nil)
	require.ErrorIs(t, err, ledger.ErrNotFound)

	sess, err = f.ledger.DeletePause(ctx, sess.ID, inserted)
	require.NoError(t, err)
	require.Len(t, sess.Pauses, 1)
	assert.Equal(t, "90.00", sess.Earnings.StringFixed(2))

	_, err = f.ledger.DeletePause(ctx, sess.ID, inserted)
	require.ErrorIs(t, err, ledger.ErrNotFound)

	assert.Len(t, f.store.get(sess.ID).Pauses, 1)
}

func TestOnlyOneOpenPause(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)

	f.clock.Set(at(9, 30))

	_, err = f.ledger.AddPause(ctx, sess.ID, at(9, 10), nil)
	require.NoError(t, err)

	_, err = f.ledger.Pause(ctx, sess.ID)
	require.ErrorIs(t, err, ledger.ErrInvalidState)

	_, err = f.ledger.AddPause(ctx, sess.ID, at(9, 20), nil)
	require.ErrorIs(t, err, ledger.ErrInvalidState)

	tick, ok := f.ledger.Tick()
	require.True(t, ok)
	assert.True(t, tick.Paused)
	assert.EqualValues(t, 10*60, tick.Elapsed)
}

func TestInvalidStateTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	_, err := f.ledger.Pause(ctx, "nope")
	require.ErrorIs(t, err, ledger.ErrInvalidState)

	_, err = f.ledger.Stop(ctx, "nope")
	require.ErrorIs(t, err, ledger.ErrInvalidState)

	sess, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)

	_, err = f.ledger.Resume(ctx, sess.ID)
	require.ErrorIs(t, err, ledger.ErrInvalidState)

	_, err = f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.ErrorIs(t, err, ledger.ErrAlreadyRunning)

	f.clock.Set(at(10, 0))

	_, err = f.ledger.Stop(ctx, sess.ID)
	require.NoError(t, err)

	// a late action on the stopped session must not touch it
	_, err = f.ledger.Pause(ctx, sess.ID)
	require.ErrorIs(t, err, ledger.ErrInvalidState)

	next, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)

	_, err = f.ledger.Stop(ctx, sess.ID)
	require.ErrorIs(t, err, ledger.ErrInvalidState)

	cur, ok := f.ledger.Current()
	require.True(t, ok)
	assert.Equal(t, next.ID, cur.ID)
}

func TestStartValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	_, err := f.ledger.Start(ctx, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, ledger.ErrInvalidRate)

	_, err = f.ledger.StartAt(ctx, decimal.NewFromInt(60), at(9, 5))
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	sess := runFullCycle(t, f)

	f.clock.Set(at(12, 0))

	_, err = f.ledger.StartAt(ctx, decimal.NewFromInt(60), at(10, 0))
	require.ErrorIs(t, err, ledger.ErrInvalidRange)

	next, err := f.ledger.StartAt(ctx, decimal.NewFromInt(60), at(11, 0))
	require.NoError(t, err)
	assert.Equal(t, at(11, 0), next.StartTime)
	assert.NotEqual(t, sess.ID, next.ID)

	tick, ok := f.ledger.Tick()
	require.True(t, ok)
	assert.Equal(t, "60.00", tick.Earnings.StringFixed(2))
}

func TestNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))
	f.identity.user = nil

	require.ErrorIs(t, f.ledger.Load(ctx), ledger.ErrNotAuthenticated)

	_, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.ErrorIs(t, err, ledger.ErrNotAuthenticated)
	assert.True(t, ledger.IsUserError(err))

	f.identity.err = ledger.ErrNotAuthenticated
	require.ErrorIs(t, f.ledger.Load(ctx), ledger.ErrNotAuthenticated)
}

func TestIdentityFailureIsNotSignedOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)

	f.identity.err = errors.New("database file is locked")

	err = f.ledger.Load(ctx)
	require.ErrorIs(t, err, ledger.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ledger.ErrNotAuthenticated)
	assert.ErrorContains(t, err, "database file is locked")
	assert.False(t, ledger.IsUserError(err))

	_, err = f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.ErrorIs(t, err, ledger.ErrStoreUnavailable)

	cur, ok := f.ledger.Current()
	require.True(t, ok)
	assert.Equal(t, sess.ID, cur.ID)
}

func TestStoreFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)

	f.store.fail = true
	f.clock.Set(at(9, 30))

	_, err = f.ledger.Pause(ctx, sess.ID)
	require.ErrorIs(t, err, ledger.ErrStoreUnavailable)
	require.ErrorIs(t, err, errStoreDown)
	assert.False(t, ledger.IsUserError(err))

	cur, ok := f.ledger.Current()
	require.True(t, ok)
	assert.False(t, cur.Paused())

	_, err = f.ledger.Stop(ctx, sess.ID)
	require.ErrorIs(t, err, ledger.ErrStoreUnavailable)

	_, ok = f.ledger.Current()
	assert.True(t, ok)

	require.ErrorIs(t, f.ledger.DeleteSession(ctx, sess.ID), ledger.ErrStoreUnavailable)
	assert.Len(t, f.ledger.Sessions(), 1)

	f.store.fail = false

	_, err = f.ledger.Stop(ctx, sess.ID)
	require.NoError(t, err)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess := runFullCycle(t, f)

	require.NoError(t, f.ledger.DeleteSession(ctx, sess.ID))
	assert.Empty(t, f.ledger.History())
	assert.Nil(t, f.store.get(sess.ID))

	require.ErrorIs(t, f.ledger.DeleteSession(ctx, sess.ID), ledger.ErrNotFound)

	_, err := f.ledger.Session(sess.ID)
	require.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestDeleteRunningSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess, err := f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)

	require.NoError(t, f.ledger.DeleteSession(ctx, sess.ID))

	_, ok := f.ledger.Tick()
	assert.False(t, ok)

	_, err = f.ledger.Start(ctx, decimal.NewFromInt(60))
	require.NoError(t, err)
}

func TestTickIsMonotonic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	sess, err := f.ledger.Start(ctx, decimal.NewFromInt(75))
	require.NoError(t, err)

	var (
		prevElapsed  int64
		prevEarnings = decimal.Zero
	)

	for minute := 1; minute <= 90; minute++ {
		f.clock.Set(at(9, 0).Add(time.Duration(minute) * time.Minute))

		switch minute {
		case 20:
			_, err = f.ledger.Pause(ctx, sess.ID)
			require.NoError(t, err)
		case 40:
			_, err = f.ledger.Resume(ctx, sess.ID)
			require.NoError(t, err)
		}

		tick, ok := f.ledger.Tick()
		require.True(t, ok)

		assert.GreaterOrEqual(t, tick.Elapsed, prevElapsed, "minute %d", minute)
		assert.True(
			t,
			tick.Earnings.GreaterThanOrEqual(prevEarnings),
			"minute %d: %s < %s", minute, tick.Earnings, prevEarnings,
		)

		if minute >= 20 && minute < 40 {
			assert.True(t, tick.Paused)
			assert.EqualValues(t, 20*60, tick.Elapsed)
		}

		prevElapsed = tick.Elapsed
		prevEarnings = tick.Earnings
	}

	assert.EqualValues(t, 70*60, prevElapsed)
	assert.Equal(t, "87.50", prevEarnings.StringFixed(2))
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(at(9, 0))

	stopped := runFullCycle(t, f)

	f.clock.Set(at(11, 0))

	running, err := f.ledger.Start(ctx, decimal.NewFromInt(50))
	require.NoError(t, err)

	other := &models.Session{
		ID:        "foreign",
		OwnerID:   "user-2",
		StartTime: at(8, 0),
		EndTime:   models.TimePtr(at(8, 30)),
	}
	require.NoError(t, f.store.CreateSession(ctx, other))

	fresh := ledger.New(f.store, f.identity, ledger.WithClock(f.clock.Now))
	require.NoError(t, fresh.Load(ctx))

	history := fresh.History()
	require.Len(t, history, 1)
	assert.Equal(t, stopped.ID, history[0].ID)

	cur, ok := fresh.Current()
	require.True(t, ok)
	assert.Equal(t, running.ID, cur.ID)

	// switching users reloads on the next write
	f.identity.user = &models.User{ID: "user-2"}

	_, err = f.ledger.Start(ctx, decimal.NewFromInt(50))
	require.NoError(t, err)

	sessions := f.ledger.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "foreign", sessions[0].ID)
}
