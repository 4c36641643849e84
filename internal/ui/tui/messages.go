// Package tui provides a Bubble Tea-based terminal UI for apply and doctor.
package tui

import "time"

// PhaseMsg reports a phase starting, finishing or failing.
type PhaseMsg struct {
	Phase    string
	Done     bool
	Err      error
	Duration time.Duration
}

// ResourceMsg reports the outcome of one resource: created, exists or
// deleted.
type ResourceMsg struct {
	Phase  string
	Type   string
	Name   string
	ID     string
	Action string
}

// RollbackMsg reports the rollback starting or finishing.
type RollbackMsg struct {
	Done   bool
	Failed bool
	Detail string
}

// LogMsg carries the latest log line.
type LogMsg struct{ Line string }

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the operation is complete.
type DoneMsg struct{}
