package provisioning

import (
	"context"
	"time"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/outputs"
	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/util/tags"

	"github.com/google/uuid"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Infra    aws_internal.InfrastructureManager
	Observer Observer
	Timeouts *config.Timeouts
	Rollback *RollbackStack

	// RunID identifies this run in tags and the outputs record.
	RunID string
}

// NewContext creates a new provisioning context.
func NewContext(
	ctx context.Context,
	cfg *config.Config,
	infra aws_internal.InfrastructureManager,
) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Infra:    infra,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
		Rollback: NewRollbackStack(),
		RunID:    uuid.NewString(),
	}
}

// Tags returns the tags for a resource, with the Name tag set when name is
// not empty.
func (c *Context) Tags(name string) map[string]string {
	return tags.NewBuilder(c.Config.Name).
		WithName(name).
		WithRunID(c.RunID).
		Merge(c.Config.Tags).
		Build()
}

// TrackResource logs the outcome of an ensure call. Resources created by
// this run get undo pushed onto the rollback stack; found ones do not.
func (c *Context) TrackResource(phase, resourceType, name, id string, created bool, undo func(ctx context.Context) error) {
	if !created {
		LogResourceExists(c.Observer, phase, resourceType, name, id)
		return
	}
	LogResourceCreated(c.Observer, phase, resourceType, name, id)
	if c.Rollback != nil && undo != nil {
		c.Rollback.Push(resourceType, id, undo)
	}
}

// Outputs returns the outputs record for the current state.
func (c *Context) Outputs() *outputs.Record {
	return c.State.Outputs(c.Config.Name, c.Config.Region, c.RunID, time.Now().UTC())
}
