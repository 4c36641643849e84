package infrastructure

import (
	"context"
	"fmt"
	"strconv"

	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
)

const phaseSecurityGroup = "security-group"

// SecurityGroupProvisioner ensures the security group and its ingress rule.
type SecurityGroupProvisioner struct{}

// NewSecurityGroupProvisioner creates a new security group provisioner.
func NewSecurityGroupProvisioner() *SecurityGroupProvisioner {
	return &SecurityGroupProvisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *SecurityGroupProvisioner) Name() string {
	return phaseSecurityGroup
}

// Provision implements the provisioning.Phase interface.
func (p *SecurityGroupProvisioner) Provision(ctx *provisioning.Context) error {
	if err := p.ProvisionSecurityGroup(ctx); err != nil {
		return err
	}
	return p.AuthorizeIngress(ctx)
}

// ProvisionSecurityGroup finds or creates the security group.
func (p *SecurityGroupProvisioner) ProvisionSecurityGroup(ctx *provisioning.Context) error {
	sg := ctx.Config.SecurityGroup
	ctx.Observer.Printf("[%s] Reconciling security group %s...", phaseSecurityGroup, sg.Name)
	provisioning.LogResourceCreating(ctx.Observer, phaseSecurityGroup, "security group", sg.Name)

	result, err := ctx.Infra.EnsureSecurityGroup(ctx, aws_internal.SecurityGroupOpts{
		Name:        sg.Name,
		Description: sg.Description,
		VPCID:       sg.VPCID,
		Tags:        ctx.Tags(sg.Name),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure security group: %w", err)
	}

	ctx.State.SecurityGroupID = result.ID
	ctx.TrackResource(phaseSecurityGroup, "security group", sg.Name, result.ID, result.Created,
		func(rbCtx context.Context) error { return ctx.Infra.DeleteSecurityGroup(rbCtx, result.ID) })
	return nil
}

// AuthorizeIngress opens the configured port on the security group.
func (p *SecurityGroupProvisioner) AuthorizeIngress(ctx *provisioning.Context) error {
	if err := provisioning.RequireID("SecurityGroupID", ctx.State.SecurityGroupID); err != nil {
		return fmt.Errorf("cannot authorize ingress: %w", err)
	}

	rule := ingressRule(ctx)
	ctx.Observer.Printf("[%s] Allowing %s/%d from %s on %s", phaseSecurityGroup,
		rule.Protocol, rule.Port, rule.CIDR, ctx.State.SecurityGroupID)

	if err := ctx.Infra.AuthorizeIngress(ctx, ctx.State.SecurityGroupID, rule); err != nil {
		return fmt.Errorf("failed to authorize ingress: %w", err)
	}
	return nil
}

// Describe implements provisioning.Describer.
func (p *SecurityGroupProvisioner) Describe(ctx *provisioning.Context) []provisioning.PlannedStep {
	sg := ctx.Config.SecurityGroup
	vpc := sg.VPCID
	if vpc == "" {
		vpc = "(default VPC)"
	}
	rule := ingressRule(ctx)
	return []provisioning.PlannedStep{
		{
			Phase:  phaseSecurityGroup,
			Action: "ensure security group",
			Params: []provisioning.Param{
				{Name: "name", Value: sg.Name},
				{Name: "description", Value: sg.Description},
				{Name: "vpc", Value: vpc},
			},
		},
		{
			Phase:  phaseSecurityGroup,
			Action: "authorize ingress",
			Params: []provisioning.Param{
				{Name: "group", Value: "<security group id>"},
				{Name: "protocol", Value: rule.Protocol},
				{Name: "port", Value: strconv.Itoa(int(rule.Port))},
				{Name: "cidr", Value: rule.CIDR},
			},
		},
	}
}

func ingressRule(ctx *provisioning.Context) aws_internal.IngressRule {
	sg := ctx.Config.SecurityGroup
	return aws_internal.IngressRule{
		Protocol: sg.IngressProtocol,
		Port:     sg.IngressPort,
		CIDR:     sg.IngressCIDR,
	}
}
