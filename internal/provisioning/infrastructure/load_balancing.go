package infrastructure

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
)

const phaseLoadBalancing = "load-balancing"

// LoadBalancingProvisioner ensures the load balancer, target group, target
// registration and listener, in that order.
type LoadBalancingProvisioner struct{}

// NewLoadBalancingProvisioner creates a new load balancing provisioner.
func NewLoadBalancingProvisioner() *LoadBalancingProvisioner {
	return &LoadBalancingProvisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *LoadBalancingProvisioner) Name() string {
	return phaseLoadBalancing
}

// Provision implements the provisioning.Phase interface.
func (p *LoadBalancingProvisioner) Provision(ctx *provisioning.Context) error {
	if err := p.ProvisionLoadBalancer(ctx); err != nil {
		return err
	}
	if err := p.ProvisionTargetGroup(ctx); err != nil {
		return err
	}
	if err := p.RegisterInstance(ctx); err != nil {
		return err
	}
	return p.ProvisionListener(ctx)
}

// ProvisionLoadBalancer finds or creates the application load balancer in
// the configured subnets, guarded by the security group.
func (p *LoadBalancingProvisioner) ProvisionLoadBalancer(ctx *provisioning.Context) error {
	if err := provisioning.RequireID("SecurityGroupID", ctx.State.SecurityGroupID); err != nil {
		return fmt.Errorf("cannot ensure load balancer: %w", err)
	}

	lbCfg := ctx.Config.LoadBalancer
	ctx.Observer.Printf("[%s] Reconciling load balancer %s...", phaseLoadBalancing, lbCfg.Name)
	provisioning.LogResourceCreating(ctx.Observer, phaseLoadBalancing, "load balancer", lbCfg.Name)

	lb, err := ctx.Infra.EnsureLoadBalancer(ctx, aws_internal.LoadBalancerOpts{
		Name:            lbCfg.Name,
		Subnets:         lbCfg.Subnets,
		SecurityGroupID: ctx.State.SecurityGroupID,
		Tags:            ctx.Tags(lbCfg.Name),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure load balancer: %w", err)
	}

	ctx.State.LoadBalancerARN = lb.ARN
	ctx.State.LoadBalancerDNSName = lb.DNSName
	ctx.TrackResource(phaseLoadBalancing, "load balancer", lbCfg.Name, lb.ARN, lb.Created,
		func(rbCtx context.Context) error { return ctx.Infra.DeleteLoadBalancer(rbCtx, lb.ARN) })
	return nil
}

// ProvisionTargetGroup finds or creates the target group in the instance's
// VPC, or in the configured VPC when one is set.
func (p *LoadBalancingProvisioner) ProvisionTargetGroup(ctx *provisioning.Context) error {
	tgCfg := ctx.Config.TargetGroup
	vpcID := targetGroupVPC(ctx)
	if err := provisioning.RequireID("target group VPC", vpcID); err != nil {
		return fmt.Errorf("cannot ensure target group: %w", err)
	}

	ctx.Observer.Printf("[%s] Reconciling target group %s in %s...", phaseLoadBalancing, tgCfg.Name, vpcID)
	provisioning.LogResourceCreating(ctx.Observer, phaseLoadBalancing, "target group", tgCfg.Name)

	tg, err := ctx.Infra.EnsureTargetGroup(ctx, aws_internal.TargetGroupOpts{
		Name:     tgCfg.Name,
		Protocol: tgCfg.Protocol,
		Port:     tgCfg.Port,
		VPCID:    vpcID,
		Tags:     ctx.Tags(tgCfg.Name),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure target group: %w", err)
	}

	ctx.State.TargetGroupARN = tg.ARN
	ctx.TrackResource(phaseLoadBalancing, "target group", tgCfg.Name, tg.ARN, tg.Created,
		func(rbCtx context.Context) error { return ctx.Infra.DeleteTargetGroup(rbCtx, tg.ARN) })
	return nil
}

// RegisterInstance registers the instance as a target of the target group.
func (p *LoadBalancingProvisioner) RegisterInstance(ctx *provisioning.Context) error {
	if err := provisioning.RequireID("TargetGroupARN", ctx.State.TargetGroupARN); err != nil {
		return fmt.Errorf("cannot register target: %w", err)
	}
	if err := provisioning.RequireID("InstanceID", ctx.State.InstanceID); err != nil {
		return fmt.Errorf("cannot register target: %w", err)
	}

	tgARN, instanceID := ctx.State.TargetGroupARN, ctx.State.InstanceID
	ctx.Observer.Printf("[%s] Registering %s with %s", phaseLoadBalancing, instanceID, tgARN)
	if err := ctx.Infra.RegisterTarget(ctx, tgARN, instanceID); err != nil {
		return fmt.Errorf("failed to register target: %w", err)
	}

	// Deleting a target group created by this run removes the registration
	// with it. A new instance registered in an existing group has to be
	// taken out explicitly.
	if ctx.Rollback != nil && !ctx.Rollback.Has("target group", tgARN) && ctx.Rollback.Has("instance", instanceID) {
		ctx.Rollback.Push("target registration", instanceID, func(rbCtx context.Context) error {
			return ctx.Infra.DeregisterTarget(rbCtx, tgARN, instanceID)
		})
	}
	return nil
}

// ProvisionListener finds or creates the listener forwarding to the target
// group.
func (p *LoadBalancingProvisioner) ProvisionListener(ctx *provisioning.Context) error {
	if err := provisioning.RequireID("LoadBalancerARN", ctx.State.LoadBalancerARN); err != nil {
		return fmt.Errorf("cannot ensure listener: %w", err)
	}
	if err := provisioning.RequireID("TargetGroupARN", ctx.State.TargetGroupARN); err != nil {
		return fmt.Errorf("cannot ensure listener: %w", err)
	}

	lnCfg := ctx.Config.Listener
	ctx.Observer.Printf("[%s] Reconciling %s listener on port %d...", phaseLoadBalancing, lnCfg.Protocol, lnCfg.Port)
	provisioning.LogResourceCreating(ctx.Observer, phaseLoadBalancing, "listener", fmt.Sprintf("%s:%d", lnCfg.Protocol, lnCfg.Port))

	ln, err := ctx.Infra.EnsureListener(ctx, aws_internal.ListenerOpts{
		LoadBalancerARN: ctx.State.LoadBalancerARN,
		Protocol:        lnCfg.Protocol,
		Port:            lnCfg.Port,
		TargetGroupARN:  ctx.State.TargetGroupARN,
	})
	if err != nil {
		return fmt.Errorf("failed to ensure listener: %w", err)
	}

	ctx.State.ListenerARN = ln.ARN
	ctx.TrackResource(phaseLoadBalancing, "listener", fmt.Sprintf("%s:%d", lnCfg.Protocol, lnCfg.Port), ln.ARN, ln.Created,
		func(rbCtx context.Context) error { return ctx.Infra.DeleteListener(rbCtx, ln.ARN) })
	return nil
}

// Describe implements provisioning.Describer.
func (p *LoadBalancingProvisioner) Describe(ctx *provisioning.Context) []provisioning.PlannedStep {
	cfg := ctx.Config
	vpc := cfg.TargetGroup.VPCID
	if vpc == "" {
		vpc = "<instance VPC>"
	}
	return []provisioning.PlannedStep{
		{
			Phase:  phaseLoadBalancing,
			Action: "ensure load balancer",
			Params: []provisioning.Param{
				{Name: "name", Value: cfg.LoadBalancer.Name},
				{Name: "subnets", Value: strings.Join(cfg.LoadBalancer.Subnets, ",")},
				{Name: "security group", Value: "<security group id>"},
			},
		},
		{
			Phase:  phaseLoadBalancing,
			Action: "ensure target group",
			Params: []provisioning.Param{
				{Name: "name", Value: cfg.TargetGroup.Name},
				{Name: "protocol", Value: cfg.TargetGroup.Protocol},
				{Name: "port", Value: strconv.Itoa(int(cfg.TargetGroup.Port))},
				{Name: "vpc", Value: vpc},
			},
		},
		{
			Phase:  phaseLoadBalancing,
			Action: "register target",
			Params: []provisioning.Param{
				{Name: "target group", Value: "<target group arn>"},
				{Name: "instance", Value: "<instance id>"},
			},
		},
		{
			Phase:  phaseLoadBalancing,
			Action: "ensure listener",
			Params: []provisioning.Param{
				{Name: "load balancer", Value: "<load balancer arn>"},
				{Name: "protocol", Value: cfg.Listener.Protocol},
				{Name: "port", Value: strconv.Itoa(int(cfg.Listener.Port))},
				{Name: "forward to", Value: "<target group arn>"},
			},
		},
	}
}

// targetGroupVPC returns the configured VPC, falling back to the VPC the
// instance was launched into.
func targetGroupVPC(ctx *provisioning.Context) string {
	if ctx.Config.TargetGroup.VPCID != "" {
		return ctx.Config.TargetGroup.VPCID
	}
	return ctx.State.InstanceVPCID
}
