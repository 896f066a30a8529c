package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayoisaiah/cashtimer/internal/apperr"
)

var errSample = &apperr.Error{
	Message: "pause %s not found",
}

func TestErrorFmt(t *testing.T) {
	err := errSample.Fmt("abc")

	assert.Equal(t, "pause abc not found", err.Error())
	assert.ErrorIs(t, err, errSample)
	assert.Empty(t, errSample.Context, "sentinel must not be mutated")
}

func TestErrorWrap(t *testing.T) {
	cause := errors.New("disk full")

	err := fmt.Errorf("saving: %w", errSample.Fmt("abc").Wrap(cause))

	assert.ErrorIs(t, err, errSample)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "saving: pause abc not found: disk full", err.Error())
}
