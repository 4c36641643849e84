package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
)

// RunApplyTUI runs applyFn in the background and shows its progress.
// applyFn must report to the observer it is given. Quitting the UI early
// cancels applyFn's context and waits for it to return, so a rollback it
// started still completes.
func RunApplyTUI(
	ctx context.Context,
	applyFn func(ctx context.Context, observer provisioning.Observer) error,
	stackName, region string,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := NewApplyModel(stackName, region)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	result := make(chan error, 1)
	go func() {
		err := applyFn(ctx, NewProgramObserver(p.Send))
		result <- err
		if err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	_, runErr := p.Run()
	cancel()
	applyErr := <-result

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return errors.Join(fmt.Errorf("TUI error: %w", runErr), applyErr)
	}
	return applyErr
}
