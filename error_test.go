package websift_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/websift"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := websift.Errorf(websift.EUNSUPPORTED, "engine %q is not supported", "yahoo")

	assert.Equal(t, websift.EUNSUPPORTED, websift.ErrorCode(err))
	assert.Equal(t, "engine \"yahoo\" is not supported", websift.ErrorMessage(err))
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, websift.ErrorCode(nil))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("fetching: %w", websift.Errorf(websift.ETIMEOUT, "Timeout"))
		assert.Equal(t, websift.ETIMEOUT, websift.ErrorCode(err))
	})

	t.Run("plain error is internal", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, websift.EINTERNAL, websift.ErrorCode(errors.New("boom")))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, websift.ErrorMessage(nil))
	})

	t.Run("plain error returns its text", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "boom", websift.ErrorMessage(errors.New("boom")))
	})
}
