package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/internal/testutil"
	"github.com/ayoisaiah/cashtimer/store"
)

var cmpOpts = testutil.CmpOpts()

var base = time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

func backends(t *testing.T) map[string]store.DB {
	t.Helper()

	dir := t.TempDir()

	dbs := make(map[string]store.DB)

	for driver, file := range map[string]string{
		store.DriverBolt:   "cashtimer.db",
		store.DriverSQLite: "cashtimer.sqlite",
	} {
		db, err := store.Open(driver, filepath.Join(dir, driver, file))
		require.NoError(t, err)

		t.Cleanup(func() {
			_ = db.Close()
		})

		dbs[driver] = db
	}

	return dbs
}

func fixture(id, owner string, start time.Time) *models.Session {
	return &models.Session{
		ID:         id,
		OwnerID:    owner,
		StartTime:  start,
		EndTime:    models.TimePtr(start.Add(2 * time.Hour)),
		HourlyRate: decimal.NewFromInt(60),
		Earnings:   decimal.RequireFromString("105.5"),
		CreatedAt:  start,
		UpdatedAt:  start,
		Pauses: []models.Pause{
			{
				ID:        id + "-p2",
				SessionID: id,
				StartTime: start.Add(time.Hour),
				EndTime:   models.TimePtr(start.Add(70 * time.Minute)),
			},
			{
				ID:        id + "-p1",
				SessionID: id,
				StartTime: start.Add(10 * time.Minute),
				EndTime:   models.TimePtr(start.Add(15 * time.Minute)),
			},
		},
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sess := fixture("s1", "u1", base)

			require.NoError(t, db.CreateSession(ctx, sess))

			got, err := db.GetSession(ctx, "s1")
			require.NoError(t, err)

			want := sess.Clone()
			want.SortPauses()

			if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
				t.Fatalf("session mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpdateSessionReplacesPauses(t *testing.T) {
	ctx := context.Background()

	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sess := fixture("s1", "u1", base)
			require.NoError(t, db.CreateSession(ctx, sess))

			sess.Pauses = sess.Pauses[:1]
			sess.Pauses = append(sess.Pauses, models.Pause{
				ID:        "s1-p3",
				SessionID: "s1",
				StartTime: base.Add(90 * time.Minute),
			})
			sess.EndTime = nil
			sess.Earnings = decimal.NewFromInt(12)

			require.NoError(t, db.UpdateSession(ctx, sess))

			got, err := db.GetSession(ctx, "s1")
			require.NoError(t, err)

			assert.Nil(t, got.EndTime)
			assert.True(t, got.Earnings.Equal(decimal.NewFromInt(12)))
			require.Len(t, got.Pauses, 2)
			assert.Equal(t, "s1-p2", got.Pauses[0].ID)
			assert.Equal(t, "s1-p3", got.Pauses[1].ID)
			assert.Nil(t, got.Pauses[1].EndTime)
		})
	}
}

func TestUpdateMissingSession(t *testing.T) {
	ctx := context.Background()

	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := db.UpdateSession(ctx, fixture("nope", "u1", base))
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()

	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.CreateSession(ctx, fixture("s1", "u1", base)))

			require.NoError(t, db.DeleteSession(ctx, "s1"))

			_, err := db.GetSession(ctx, "s1")
			assert.ErrorIs(t, err, store.ErrNotFound)

			err = db.DeleteSession(ctx, "s1")
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestListSessions(t *testing.T) {
	ctx := context.Background()

	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.CreateSession(ctx, fixture("late", "u1", base.Add(48*time.Hour))))
			require.NoError(t, db.CreateSession(ctx, fixture("early", "u1", base)))
			require.NoError(t, db.CreateSession(ctx, fixture("other", "u2", base)))

			sessions, err := db.ListSessions(ctx, "u1")
			require.NoError(t, err)

			require.Len(t, sessions, 2)
			assert.Equal(t, "early", sessions[0].ID)
			assert.Equal(t, "late", sessions[1].ID)
			assert.Len(t, sessions[0].Pauses, 2)
		})
	}
}

func TestRateCache(t *testing.T) {
	ctx := context.Background()

	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := db.LoadRates(ctx)
			require.ErrorIs(t, err, store.ErrNotFound)

			table := &models.RateTable{
				Base:      "USD",
				UpdatedAt: base,
				Rates: map[string]decimal.Decimal{
					"USD": decimal.NewFromInt(1),
					"CAD": decimal.RequireFromString("1.35"),
				},
			}

			require.NoError(t, db.SaveRates(ctx, table))

			table.Rates["EUR"] = decimal.RequireFromString("0.92")
			require.NoError(t, db.SaveRates(ctx, table))

			got, err := db.LoadRates(ctx)
			require.NoError(t, err)

			if diff := cmp.Diff(table, got, cmpOpts); diff != "" {
				t.Fatalf("rates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()

	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := db.CurrentUser(ctx)
			require.ErrorIs(t, err, store.ErrNotFound)

			user := &models.User{ID: "u1", Email: "sam@example.com", CreatedAt: base}
			require.NoError(t, db.SaveUser(ctx, user))

			found, err := db.FindUser(ctx, "sam@example.com")
			require.NoError(t, err)
			assert.Equal(t, "u1", found.ID)

			_, err = db.FindUser(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, store.ErrNotFound)

			require.NoError(t, db.SetCurrentUser(ctx, "u1"))

			current, err := db.CurrentUser(ctx)
			require.NoError(t, err)
			assert.Equal(t, "sam@example.com", current.Email)

			require.NoError(t, db.SetCurrentUser(ctx, ""))

			_, err = db.CurrentUser(ctx)
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func openFiles(t *testing.T) int {
	t.Helper()

	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("open file descriptors cannot be listed on this platform")
	}

	return len(entries)
}

func TestSQLiteMigrationFailureClosesDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashtimer.sqlite")

	// a view occupying the sessions table name makes the migration fail
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE VIEW timer_sessions AS SELECT 1 AS id").Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	before := openFiles(t)

	_, err = store.NewSQLite(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to run migrations")

	assert.Equal(t, before, openFiles(t))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := store.Open("postgres", filepath.Join(t.TempDir(), "db"))
	assert.Error(t, err)
}
