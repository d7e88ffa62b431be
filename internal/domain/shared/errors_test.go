package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel with same code", func(t *testing.T) {
		err := NewDomainError("INSUFFICIENT_STOCK", "Inventory low for Bread")
		assert.True(t, errors.Is(err, ErrInsufficientStock))
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		err := fmt.Errorf("add line: %w", NewDomainError("NOT_FOUND", "gone"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("different code does not match", func(t *testing.T) {
		err := NewDomainError("INVALID_STATE", "busy")
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "INVALID_INPUT", CodeOf(ErrInvalidInput))
	assert.Equal(t, "INVALID_INPUT", CodeOf(fmt.Errorf("wrapped: %w", ErrInvalidInput)))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}
