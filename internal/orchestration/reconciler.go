package orchestration

import (
	"context"
	"fmt"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/outputs"
	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning/compute"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning/database"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning/destroy"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning/infrastructure"
)

// Reconciler orchestrates the provisioning workflow.
type Reconciler struct {
	infra    aws_internal.InfrastructureManager
	config   *config.Config
	observer provisioning.Observer
	timeouts *config.Timeouts
	store    outputs.Store

	// Phases
	validation    *provisioning.ValidationPhase
	securityGroup *infrastructure.SecurityGroupProvisioner
	instance      *compute.InstanceProvisioner
	database      *database.Provisioner
	loadBalancing *infrastructure.LoadBalancingProvisioner
	autoScaling   *compute.AutoScalingProvisioner
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithObserver sets the observer every phase reports to.
func WithObserver(o provisioning.Observer) Option {
	return func(r *Reconciler) { r.observer = o }
}

// WithTimeouts overrides the timeouts loaded from the environment.
func WithTimeouts(t *config.Timeouts) Option {
	return func(r *Reconciler) { r.timeouts = t }
}

// WithOutputs sets where the outputs record is saved after a successful
// apply and deleted after a clean destroy.
func WithOutputs(s outputs.Store) Option {
	return func(r *Reconciler) { r.store = s }
}

// NewReconciler creates a new orchestration reconciler.
func NewReconciler(
	infra aws_internal.InfrastructureManager,
	cfg *config.Config,
	opts ...Option,
) *Reconciler {
	r := &Reconciler{
		infra:         infra,
		config:        cfg,
		validation:    provisioning.NewValidationPhase(),
		securityGroup: infrastructure.NewSecurityGroupProvisioner(),
		instance:      compute.NewInstanceProvisioner(),
		database:      database.NewProvisioner(),
		loadBalancing: infrastructure.NewLoadBalancingProvisioner(),
		autoScaling:   compute.NewAutoScalingProvisioner(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Phases returns the apply phases in execution order.
func (r *Reconciler) Phases() []provisioning.Phase {
	return []provisioning.Phase{
		r.validation,
		r.securityGroup,
		r.instance,
		r.database,
		r.loadBalancing,
		r.autoScaling,
	}
}

// Reconcile ensures every resource of the topology exists. On failure the
// resources created by this run are rolled back unless rollback is
// disabled in the config. The outputs record is returned on success, even
// when saving it fails.
func (r *Reconciler) Reconcile(ctx context.Context) (*outputs.Record, error) {
	pCtx := r.newContext(ctx)

	if err := provisioning.RunPhases(pCtx, r.Phases()); err != nil {
		return nil, err
	}

	record := pCtx.Outputs()
	if r.store != nil {
		if err := r.store.Save(ctx, record); err != nil {
			return record, fmt.Errorf("failed to save outputs to %s: %w", r.store.Location(), err)
		}
		pCtx.Observer.Printf("Outputs written to %s", r.store.Location())
	}
	return record, nil
}

// Plan returns the calls Reconcile would make, in order, without making
// any of them. Identifiers produced by earlier steps appear as
// placeholders.
func (r *Reconciler) Plan() []provisioning.PlannedStep {
	pCtx := r.newContext(context.Background())

	var steps []provisioning.PlannedStep
	for _, phase := range r.Phases() {
		if d, ok := phase.(provisioning.Describer); ok {
			steps = append(steps, d.Describe(pCtx)...)
		}
	}
	return steps
}

// Destroy deletes every resource of the topology that exists, then removes
// the saved outputs record.
func (r *Reconciler) Destroy(ctx context.Context) error {
	pCtx := r.newContext(ctx)

	if err := provisioning.RunPhases(pCtx, []provisioning.Phase{destroy.NewProvisioner()}); err != nil {
		return err
	}

	if r.store != nil {
		if err := r.store.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete outputs at %s: %w", r.store.Location(), err)
		}
	}
	return nil
}

func (r *Reconciler) newContext(ctx context.Context) *provisioning.Context {
	pCtx := provisioning.NewContext(ctx, r.config, r.infra)
	if r.observer != nil {
		pCtx.Observer = r.observer
	}
	if r.timeouts != nil {
		pCtx.Timeouts = r.timeouts
	}
	return pCtx
}
