package compute

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
)

const phaseAutoScaling = "autoscaling"

// AutoScalingProvisioner ensures the Auto Scaling group.
type AutoScalingProvisioner struct{}

// NewAutoScalingProvisioner creates a new autoscaling provisioner.
func NewAutoScalingProvisioner() *AutoScalingProvisioner {
	return &AutoScalingProvisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *AutoScalingProvisioner) Name() string {
	return phaseAutoScaling
}

// Provision implements the provisioning.Phase interface.
func (p *AutoScalingProvisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.AutoScaling
	ctx.Observer.Printf("[%s] Reconciling autoscaling group %s (%d-%d)...", phaseAutoScaling, cfg.Name, cfg.MinSize, cfg.MaxSize)
	provisioning.LogResourceCreating(ctx.Observer, phaseAutoScaling, "autoscaling group", cfg.Name)

	// TODO: create the launch configuration (or a launch template) from the
	// instance settings instead of requiring it to exist already.
	asg, err := ctx.Infra.EnsureAutoScalingGroup(ctx, aws_internal.AutoScalingGroupOpts{
		Name:                    cfg.Name,
		LaunchConfigurationName: cfg.LaunchConfigurationName,
		MinSize:                 cfg.MinSize,
		MaxSize:                 cfg.MaxSize,
		VPCZoneIdentifier:       cfg.VPCZoneIdentifier,
		Tags:                    ctx.Tags(""),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure autoscaling group: %w", err)
	}

	ctx.State.AutoScalingGroupName = asg.Name
	ctx.TrackResource(phaseAutoScaling, "autoscaling group", cfg.Name, asg.Name, asg.Created,
		func(rbCtx context.Context) error { return ctx.Infra.DeleteAutoScalingGroup(rbCtx, asg.Name) })
	return nil
}

// Describe implements provisioning.Describer.
func (p *AutoScalingProvisioner) Describe(ctx *provisioning.Context) []provisioning.PlannedStep {
	cfg := ctx.Config.AutoScaling
	subnets := strings.Join(cfg.VPCZoneIdentifier, ",")
	if subnets == "" {
		subnets = "(default)"
	}
	return []provisioning.PlannedStep{{
		Phase:  phaseAutoScaling,
		Action: "ensure autoscaling group",
		Params: []provisioning.Param{
			{Name: "name", Value: cfg.Name},
			{Name: "launch configuration", Value: cfg.LaunchConfigurationName},
			{Name: "min", Value: strconv.Itoa(int(cfg.MinSize))},
			{Name: "max", Value: strconv.Itoa(int(cfg.MaxSize))},
			{Name: "subnets", Value: subnets},
		},
	}}
}
