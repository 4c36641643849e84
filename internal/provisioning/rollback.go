package provisioning

import (
	"context"
	"fmt"
	"sync"

	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
)

// Compensation undoes the creation of one resource.
type Compensation struct {
	ResourceType string
	ID           string
	Undo         func(ctx context.Context) error
}

// RollbackStack records compensations for resources created in this run.
// Unwind runs them last-in first-out.
type RollbackStack struct {
	mu      sync.Mutex
	entries []Compensation
}

// NewRollbackStack creates an empty stack.
func NewRollbackStack() *RollbackStack {
	return &RollbackStack{}
}

// Push records a compensation.
func (s *RollbackStack) Push(resourceType, id string, undo func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Compensation{ResourceType: resourceType, ID: id, Undo: undo})
}

// Len returns the number of pending compensations.
func (s *RollbackStack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Has reports whether a compensation for the resource is pending, that is,
// whether this run created it.
func (s *RollbackStack) Has(resourceType, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ResourceType == resourceType && e.ID == id {
			return true
		}
	}
	return false
}

// Entries returns the pending compensations in push order.
func (s *RollbackStack) Entries() []Compensation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Compensation(nil), s.entries...)
}

// Unwind runs every compensation in reverse push order and empties the
// stack. A failing compensation does not stop the ones after it.
func (s *RollbackStack) Unwind(ctx context.Context, observer Observer) error {
	s.mu.Lock()
	entries := s.entries
	s.entries = nil
	s.mu.Unlock()

	cleanupErr := &aws_internal.CleanupError{}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		LogResourceDeleting(observer, phaseRollback, e.ResourceType, e.ID)
		if err := e.Undo(ctx); err != nil {
			observer.Event(Event{
				Type:     EventResourceFailed,
				Phase:    phaseRollback,
				Resource: e.ID,
				Message:  fmt.Sprintf("failed to delete %s: %v", e.ResourceType, err),
				Fields:   map[string]string{"type": e.ResourceType},
			})
			cleanupErr.Add(fmt.Errorf("failed to delete %s %s: %w", e.ResourceType, e.ID, err))
			continue
		}
		LogResourceDeleted(observer, phaseRollback, e.ResourceType, e.ID)
	}
	return cleanupErr.ErrorOrNil()
}

const phaseRollback = "rollback"
