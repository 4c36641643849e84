package aws

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanupError(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		e := &CleanupError{}
		e.Add(nil)
		assert.False(t, e.HasErrors())
		assert.NoError(t, e.ErrorOrNil())
	})

	t.Run("single error", func(t *testing.T) {
		t.Parallel()
		target := errors.New("instance: boom")
		e := &CleanupError{}
		e.Add(target)
		assert.Equal(t, "instance: boom", e.Error())
		assert.ErrorIs(t, e, target)
	})

	t.Run("multiple errors", func(t *testing.T) {
		t.Parallel()
		first := errors.New("instance: boom")
		second := errors.New("security group: in use")
		e := &CleanupError{}
		e.Add(first)
		e.Add(second)

		assert.True(t, e.HasErrors())
		assert.Contains(t, e.Error(), "teardown encountered 2 errors")
		assert.ErrorIs(t, e, first)
		assert.ErrorIs(t, e, second)
		assert.Error(t, e.ErrorOrNil())
	})
}
