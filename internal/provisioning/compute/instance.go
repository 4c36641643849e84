package compute

import (
	"context"
	"fmt"

	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
)

const phaseInstance = "instance"

// InstanceProvisioner launches the instance into the security group.
type InstanceProvisioner struct{}

// NewInstanceProvisioner creates a new instance provisioner.
func NewInstanceProvisioner() *InstanceProvisioner {
	return &InstanceProvisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *InstanceProvisioner) Name() string {
	return phaseInstance
}

// Provision implements the provisioning.Phase interface.
func (p *InstanceProvisioner) Provision(ctx *provisioning.Context) error {
	if err := provisioning.RequireID("SecurityGroupID", ctx.State.SecurityGroupID); err != nil {
		return fmt.Errorf("cannot launch instance: %w", err)
	}

	cfg := ctx.Config.Instance
	ctx.Observer.Printf("[%s] Reconciling instance %s (%s, %s)...", phaseInstance, cfg.Name, cfg.ImageID, cfg.InstanceType)
	provisioning.LogResourceCreating(ctx.Observer, phaseInstance, "instance", cfg.Name)

	inst, err := ctx.Infra.EnsureInstance(ctx, aws_internal.InstanceOpts{
		Name:            cfg.Name,
		ImageID:         cfg.ImageID,
		InstanceType:    cfg.InstanceType,
		SecurityGroupID: ctx.State.SecurityGroupID,
		SubnetID:        cfg.SubnetID,
		Tags:            ctx.Tags(cfg.Name),
	})
	// A launch that never reached running still has to be cleaned up.
	if inst != nil && inst.ID != "" {
		ctx.TrackResource(phaseInstance, "instance", cfg.Name, inst.ID, inst.Created,
			func(rbCtx context.Context) error { return ctx.Infra.TerminateInstance(rbCtx, inst.ID) })
	}
	if err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}

	ctx.State.InstanceID = inst.ID
	ctx.State.InstanceVPCID = inst.VPCID
	return nil
}

// Describe implements provisioning.Describer.
func (p *InstanceProvisioner) Describe(ctx *provisioning.Context) []provisioning.PlannedStep {
	cfg := ctx.Config.Instance
	subnet := cfg.SubnetID
	if subnet == "" {
		subnet = "(default subnet)"
	}
	return []provisioning.PlannedStep{{
		Phase:  phaseInstance,
		Action: "launch instance",
		Params: []provisioning.Param{
			{Name: "name", Value: cfg.Name},
			{Name: "image", Value: cfg.ImageID},
			{Name: "type", Value: cfg.InstanceType},
			{Name: "count", Value: "1"},
			{Name: "security group", Value: "<security group id>"},
			{Name: "subnet", Value: subnet},
		},
	}}
}
