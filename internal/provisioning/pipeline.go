package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"
)

// RunPhases executes all provisioning phases sequentially. The first
// failing phase stops the run; its error is returned first, followed by
// any rollback failure.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		ctx.Observer.Progress(phase.Name(), i+1, len(phases))
		LogPhaseStart(ctx.Observer, phase.Name())

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err, time.Since(phaseStart))
			return rollback(ctx, fmt.Errorf("%s phase failed: %w", phase.Name(), err))
		}

		LogPhaseComplete(ctx.Observer, phase.Name(), time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

func rollback(ctx *Context, cause error) error {
	if ctx.Rollback == nil || ctx.Rollback.Len() == 0 {
		return cause
	}

	if ctx.Config != nil && !ctx.Config.Rollback.IsEnabled() {
		for _, e := range ctx.Rollback.Entries() {
			ctx.Observer.Printf("Rollback disabled, leaving %s %s in place", e.ResourceType, e.ID)
		}
		return cause
	}

	timeouts := ctx.Timeouts
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}

	// The run context may already be cancelled (Ctrl-C); deletes still need
	// to go out.
	base := ctx.Context
	if base == nil {
		base = context.Background()
	}
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(base), timeouts.Rollback)
	defer cancel()

	LogRollbackStarted(ctx.Observer, ctx.Rollback.Len())
	err := ctx.Rollback.Unwind(rbCtx, ctx.Observer)
	LogRollbackCompleted(ctx.Observer, err)
	if err != nil {
		return errors.Join(cause, fmt.Errorf("rollback failed: %w", err))
	}
	return cause
}
