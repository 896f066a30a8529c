// Package store persists sessions, pauses, users and the last known exchange
// rates
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ayoisaiah/cashtimer/internal/apperr"
	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/internal/osutil"
)

const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

var (
	ErrNotFound = &apperr.Error{
		Message: "record not found",
	}

	errAlreadyRunning = &apperr.Error{
		Message: "is CashTimer already running? Only one instance can access the database at a time",
	}

	errUnknownDriver = &apperr.Error{
		Message: "unknown store driver: %s",
	}
)

// Sessions is the table-oriented store for sessions and their pauses.
type Sessions interface {
	// CreateSession inserts a new session and any pauses it carries.
	CreateSession(ctx context.Context, sess *models.Session) error
	// UpdateSession overwrites an existing session row and replaces its pause
	// rows in a single transaction.
	UpdateSession(ctx context.Context, sess *models.Session) error
	// DeleteSession removes the pauses of a session, then the session itself.
	DeleteSession(ctx context.Context, id string) error
	// GetSession retrieves a session joined with its pauses.
	GetSession(ctx context.Context, id string) (*models.Session, error)
	// ListSessions returns every session owned by ownerID ordered by start
	// time.
	ListSessions(ctx context.Context, ownerID string) ([]*models.Session, error)
}

// RateCache keeps the last exchange rates that were fetched successfully.
type RateCache interface {
	SaveRates(ctx context.Context, table *models.RateTable) error
	// LoadRates returns ErrNotFound if no rates were saved yet.
	LoadRates(ctx context.Context) (*models.RateTable, error)
}

// Users stores registered identities and the one that is signed in.
type Users interface {
	SaveUser(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, email string) (*models.User, error)
	// SetCurrentUser records the signed in user. An empty id signs out.
	SetCurrentUser(ctx context.Context, id string) error
	// CurrentUser returns ErrNotFound if nobody is signed in.
	CurrentUser(ctx context.Context) (*models.User, error)
}

// DB is the database storage interface.
type DB interface {
	Sessions
	RateCache
	Users
	Close() error
}

// Open connects to the database at path with the named driver.
func Open(driver, path string) (DB, error) {
	err := os.MkdirAll(filepath.Dir(path), osutil.DirPermission)
	if err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	switch driver {
	case DriverBolt, "":
		return NewClient(path)
	case DriverSQLite:
		return NewSQLite(path)
	}

	return nil, errUnknownDriver.Fmt(driver)
}
