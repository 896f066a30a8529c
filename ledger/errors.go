package ledger

import "github.com/ayoisaiah/cashtimer/internal/apperr"

var (
	ErrNotAuthenticated = &apperr.Error{
		Message: "not signed in: run 'cashtimer signin' first",
	}

	ErrAlreadyRunning = &apperr.Error{
		Message: "a session is already running: stop it before starting a new one",
	}

	ErrInvalidState = &apperr.Error{
		Message: "cannot %s: %s",
	}

	ErrInvalidRange = &apperr.Error{
		Message: "invalid time range: %s",
	}

	ErrNotFound = &apperr.Error{
		Message: "%s not found",
	}

	ErrStoreUnavailable = &apperr.Error{
		Message: "saving changes failed",
	}
)

var ErrInvalidRate = &apperr.Error{
	Message: "hourly rate cannot be negative: %s",
}
