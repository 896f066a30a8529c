// Package identity registers users and tracks who is signed in on this
// machine
package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayoisaiah/cashtimer/internal/apperr"
	"github.com/ayoisaiah/cashtimer/internal/models"
	"github.com/ayoisaiah/cashtimer/ledger"
	"github.com/ayoisaiah/cashtimer/store"
)

var (
	errInvalidEmail = &apperr.Error{
		Message: "%q is not a valid email address",
	}

	errUnknownAccount = &apperr.Error{
		Message: "no account for %s: run 'cashtimer signup' to create one",
	}

	errAccountExists = &apperr.Error{
		Message: "an account for %s already exists: run 'cashtimer signin' instead",
	}
)

// Store is the user storage the provider needs.
type Store interface {
	SaveUser(ctx context.Context, user *models.User) error
	FindUser(ctx context.Context, email string) (*models.User, error)
	SetCurrentUser(ctx context.Context, id string) error
	CurrentUser(ctx context.Context) (*models.User, error)
}

// Local keeps accounts in the local database. Signing in needs no password
// since the database itself lives in the user's home directory.
type Local struct {
	store Store
	now   func() time.Time
}

func NewLocal(s Store) *Local {
	return &Local{
		store: s,
		now:   time.Now,
	}
}

// NormalizeEmail trims and lower-cases an email address and checks that it
// is well formed.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return "", errInvalidEmail.Fmt(email)
	}

	return email, nil
}

// SignUp registers a new account and signs it in.
func (l *Local) SignUp(ctx context.Context, email string) (*models.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	_, err = l.store.FindUser(ctx, email)
	if err == nil {
		return nil, errAccountExists.Fmt(email)
	}

	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: l.now().Round(0),
	}

	err = l.store.SaveUser(ctx, user)
	if err != nil {
		return nil, err
	}

	err = l.store.SetCurrentUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("account created", slog.String("user", user.ID))

	return user, nil
}

// SignIn signs in an existing account.
func (l *Local) SignIn(ctx context.Context, email string) (*models.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	user, err := l.store.FindUser(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errUnknownAccount.Fmt(email)
	}

	if err != nil {
		return nil, err
	}

	err = l.store.SetCurrentUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("signed in", slog.String("user", user.ID))

	return user, nil
}

// SignOut forgets the signed in account. Signing out while signed out is not
// an error.
func (l *Local) SignOut(ctx context.Context) error {
	err := l.store.SetCurrentUser(ctx, "")
	if err != nil {
		return err
	}

	slog.Info("signed out")

	return nil
}

// Current returns the signed in account.
func (l *Local) Current(ctx context.Context) (*models.User, error) {
	user, err := l.store.CurrentUser(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ledger.ErrNotAuthenticated
	}

	if err != nil {
		return nil, err
	}

	return user, nil
}
