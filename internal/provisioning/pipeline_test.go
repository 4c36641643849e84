package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPhases_Success(t *testing.T) {
	t.Parallel()
	ctx, observer := newTestContext(t)
	var executed []string

	phases := []Phase{
		phaseFunc{"security-group", func(*Context) error { executed = append(executed, "security-group"); return nil }},
		phaseFunc{"instance", func(*Context) error { executed = append(executed, "instance"); return nil }},
	}

	require.NoError(t, RunPhases(ctx, phases))
	assert.Equal(t, []string{"security-group", "instance"}, executed)
	assert.Len(t, observer.eventsOfType(EventPhaseCompleted), 2)
	assert.Empty(t, observer.eventsOfType(EventRollbackStarted))
}

func TestRunPhases_FailFast(t *testing.T) {
	t.Parallel()
	ctx, observer := newTestContext(t)
	providerErr := errors.New("InvalidGroup.Duplicate")
	var executed []string

	phases := []Phase{
		phaseFunc{"security-group", func(*Context) error { executed = append(executed, "security-group"); return providerErr }},
		phaseFunc{"instance", func(*Context) error { executed = append(executed, "instance"); return nil }},
	}

	err := RunPhases(ctx, phases)
	require.Error(t, err)
	assert.ErrorIs(t, err, providerErr)
	assert.Equal(t, "security-group phase failed: InvalidGroup.Duplicate", err.Error())
	assert.Equal(t, []string{"security-group"}, executed)
	require.Len(t, observer.eventsOfType(EventPhaseFailed), 1)
}

func TestRunPhases_RollsBackCreatedResourcesInReverse(t *testing.T) {
	t.Parallel()
	ctx, observer := newTestContext(t)
	var deleted []string
	undo := func(id string) func(context.Context) error {
		return func(context.Context) error { deleted = append(deleted, id); return nil }
	}

	phases := []Phase{
		phaseFunc{"security-group", func(c *Context) error {
			c.TrackResource("security-group", "security group", "sg", "sg-1", true, undo("sg-1"))
			return nil
		}},
		phaseFunc{"instance", func(c *Context) error {
			c.TrackResource("instance", "instance", "web", "i-existing", false, undo("i-existing"))
			return nil
		}},
		phaseFunc{"database", func(c *Context) error {
			c.TrackResource("database", "db instance", "db", "db-1", true, undo("db-1"))
			return nil
		}},
		phaseFunc{"load-balancing", func(*Context) error { return errors.New("quota exceeded") }},
	}

	err := RunPhases(ctx, phases)
	require.Error(t, err)
	assert.Equal(t, "load-balancing phase failed: quota exceeded", err.Error())
	assert.Equal(t, []string{"db-1", "sg-1"}, deleted)
	assert.Equal(t, 0, ctx.Rollback.Len())

	completed := observer.eventsOfType(EventRollbackCompleted)
	require.Len(t, completed, 1)
	assert.Equal(t, "success", completed[0].Fields["result"])
}

func TestRunPhases_NoRollbackLeavesResources(t *testing.T) {
	t.Parallel()
	ctx, observer := newTestContext(t)
	disabled := false
	ctx.Config.Rollback.Enabled = &disabled
	deletes := 0

	phases := []Phase{
		phaseFunc{"security-group", func(c *Context) error {
			c.TrackResource("security-group", "security group", "sg", "sg-1", true, func(context.Context) error { deletes++; return nil })
			return nil
		}},
		phaseFunc{"instance", func(*Context) error { return errors.New("boom") }},
	}

	require.Error(t, RunPhases(ctx, phases))
	assert.Zero(t, deletes)
	assert.Empty(t, observer.eventsOfType(EventRollbackStarted))
	assert.Contains(t, observer.messages, "Rollback disabled, leaving %s %s in place")
}

func TestRunPhases_RollbackFailureIsJoined(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext(t)
	cause := errors.New("listener conflict")
	undoErr := errors.New("DependencyViolation")

	phases := []Phase{
		phaseFunc{"security-group", func(c *Context) error {
			c.TrackResource("security-group", "security group", "sg", "sg-1", true, func(context.Context) error { return undoErr })
			return nil
		}},
		phaseFunc{"load-balancing", func(*Context) error { return cause }},
	}

	err := RunPhases(ctx, phases)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, undoErr)
	assert.Regexp(t, `^load-balancing phase failed: listener conflict\nrollback failed: `, err.Error())
}

func TestRunPhases_RollbackRunsAfterCancellation(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext(t)
	runCtx, cancel := context.WithCancel(context.Background())
	ctx.Context = runCtx
	var undoCtxErr error

	phases := []Phase{
		phaseFunc{"security-group", func(c *Context) error {
			c.TrackResource("security-group", "security group", "sg", "sg-1", true, func(ctx context.Context) error {
				undoCtxErr = ctx.Err()
				return nil
			})
			return nil
		}},
		phaseFunc{"instance", func(c *Context) error {
			cancel()
			return c.Err()
		}},
	}

	err := RunPhases(ctx, phases)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, undoCtxErr, "rollback must use a live context")
}
