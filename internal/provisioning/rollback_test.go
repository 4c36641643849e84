package provisioning

import (
	"context"
	"errors"
	"testing"

	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollbackStack_UnwindOrderAndErrors(t *testing.T) {
	t.Parallel()
	stack := NewRollbackStack()
	observer := NewMockObserver()
	var order []string

	stack.Push("security group", "sg-1", func(context.Context) error { order = append(order, "sg-1"); return nil })
	stack.Push("instance", "i-1", func(context.Context) error { order = append(order, "i-1"); return errors.New("still running") })
	stack.Push("target group", "arn:tg-1", func(context.Context) error { order = append(order, "arn:tg-1"); return nil })

	require.Equal(t, 3, stack.Len())
	entries := stack.Entries()
	assert.Equal(t, "sg-1", entries[0].ID)

	err := stack.Unwind(context.Background(), observer)
	require.Error(t, err)
	assert.Equal(t, []string{"arn:tg-1", "i-1", "sg-1"}, order, "a failure must not stop later compensations")
	assert.Contains(t, err.Error(), "failed to delete instance i-1: still running")

	var cleanupErr *aws_internal.CleanupError
	require.ErrorAs(t, err, &cleanupErr)
	assert.Len(t, cleanupErr.Errors, 1)

	assert.Equal(t, 0, stack.Len())
	assert.Len(t, observer.eventsOfType(EventResourceDeleted), 2)
	assert.Len(t, observer.eventsOfType(EventResourceFailed), 1)
}

func TestRollbackStack_Empty(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NewRollbackStack().Unwind(context.Background(), NewMockObserver()))
}

func TestRollbackStack_Has(t *testing.T) {
	s := NewRollbackStack()
	s.Push("instance", "i-1", func(context.Context) error { return nil })

	assert.True(t, s.Has("instance", "i-1"))
	assert.False(t, s.Has("instance", "i-2"))
	assert.False(t, s.Has("target group", "i-1"))

	require.NoError(t, s.Unwind(context.Background(), NewMockObserver()))
	assert.False(t, s.Has("instance", "i-1"))
}
