package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
)

// ProgramObserver forwards provisioning events to a running program as
// messages.
type ProgramObserver struct {
	send func(tea.Msg)
}

// NewProgramObserver returns an observer that delivers messages with send,
// usually (*tea.Program).Send.
func NewProgramObserver(send func(tea.Msg)) *ProgramObserver {
	return &ProgramObserver{send: send}
}

// Printf implements provisioning.Observer.
func (o *ProgramObserver) Printf(format string, v ...interface{}) {
	o.send(LogMsg{Line: strings.TrimSpace(fmt.Sprintf(format, v...))})
}

// Event implements provisioning.Observer.
func (o *ProgramObserver) Event(event provisioning.Event) {
	if msg := eventToMsg(event); msg != nil {
		o.send(msg)
	}
}

// Progress implements provisioning.Observer. Phase events already carry
// the progress.
func (o *ProgramObserver) Progress(string, int, int) {}

// WithFields implements provisioning.Observer. Fields are not displayed.
func (o *ProgramObserver) WithFields(map[string]string) provisioning.Observer {
	return o
}

func eventToMsg(event provisioning.Event) tea.Msg {
	switch event.Type {
	case provisioning.EventPhaseStarted:
		return PhaseMsg{Phase: event.Phase}
	case provisioning.EventPhaseCompleted:
		return PhaseMsg{Phase: event.Phase, Done: true, Duration: event.Duration}
	case provisioning.EventPhaseFailed:
		return PhaseMsg{Phase: event.Phase, Err: errors.New(strings.TrimPrefix(event.Message, "failed: ")), Duration: event.Duration}
	case provisioning.EventResourceCreating:
		return resourceMsg(event, "creating")
	case provisioning.EventResourceCreated:
		return resourceMsg(event, "created")
	case provisioning.EventResourceExists:
		return resourceMsg(event, "exists")
	case provisioning.EventResourceDeleted:
		return resourceMsg(event, "deleted")
	case provisioning.EventRollbackStarted:
		return RollbackMsg{Detail: event.Message}
	case provisioning.EventRollbackCompleted:
		return RollbackMsg{Done: true, Failed: event.Fields["result"] == "failed", Detail: event.Message}
	case provisioning.EventValidationWarning:
		return LogMsg{Line: "warning: " + event.Message}
	}
	return nil
}

func resourceMsg(event provisioning.Event, action string) ResourceMsg {
	return ResourceMsg{
		Phase:  event.Phase,
		Type:   event.Fields["type"],
		Name:   event.Resource,
		ID:     event.Fields["id"],
		Action: action,
	}
}
