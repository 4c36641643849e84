package destroy

import (
	"context"
	"fmt"

	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
)

const phase = "destroy"

// Provisioner handles teardown.
type Provisioner struct{}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// step looks a resource up and deletes it. lookup returns an empty id when
// the resource does not exist.
type step struct {
	resourceType string
	name         string
	lookup       func(ctx context.Context) (string, error)
	remove       func(ctx context.Context, id string) error
}

// Provision destroys every resource of the topology that exists.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	ctx.Observer.Printf("[Destroy] Starting teardown of stack: %s", ctx.Config.Name)

	cleanupErr := &aws_internal.CleanupError{}
	for _, s := range steps(ctx) {
		cleanupErr.Add(p.run(ctx, s))
	}

	if err := cleanupErr.ErrorOrNil(); err != nil {
		return fmt.Errorf("failed to destroy stack %s: %w", ctx.Config.Name, err)
	}

	ctx.Observer.Printf("[Destroy] Stack %s destroyed successfully", ctx.Config.Name)
	return nil
}

func (p *Provisioner) run(ctx *provisioning.Context, s step) error {
	id, err := s.lookup(ctx)
	if err != nil {
		return fmt.Errorf("failed to look up %s %s: %w", s.resourceType, s.name, err)
	}
	if id == "" {
		ctx.Observer.Printf("[Destroy] %s %s not found, skipping", s.resourceType, s.name)
		return nil
	}

	provisioning.LogResourceDeleting(ctx.Observer, phase, s.resourceType, id)
	if err := s.remove(ctx, id); err != nil {
		ctx.Observer.Event(provisioning.Event{
			Type:     provisioning.EventResourceFailed,
			Phase:    phase,
			Resource: id,
			Message:  fmt.Sprintf("failed to delete %s: %v", s.resourceType, err),
			Fields:   map[string]string{"type": s.resourceType},
		})
		return fmt.Errorf("failed to delete %s %s: %w", s.resourceType, id, err)
	}
	provisioning.LogResourceDeleted(ctx.Observer, phase, s.resourceType, id)
	return nil
}

// steps lists the deletes in reverse dependency order. Listeners go with
// their load balancer and registrations with their target group.
func steps(ctx *provisioning.Context) []step {
	cfg := ctx.Config
	infra := ctx.Infra

	return []step{
		{
			resourceType: "autoscaling group",
			name:         cfg.AutoScaling.Name,
			lookup: func(c context.Context) (string, error) {
				asg, err := infra.GetAutoScalingGroup(c, cfg.AutoScaling.Name)
				if err != nil || asg == nil {
					return "", err
				}
				return asg.Name, nil
			},
			remove: infra.DeleteAutoScalingGroup,
		},
		{
			resourceType: "load balancer",
			name:         cfg.LoadBalancer.Name,
			lookup: func(c context.Context) (string, error) {
				lb, err := infra.GetLoadBalancer(c, cfg.LoadBalancer.Name)
				if err != nil || lb == nil {
					return "", err
				}
				return lb.ARN, nil
			},
			remove: infra.DeleteLoadBalancer,
		},
		{
			resourceType: "target group",
			name:         cfg.TargetGroup.Name,
			lookup: func(c context.Context) (string, error) {
				tg, err := infra.GetTargetGroup(c, cfg.TargetGroup.Name)
				if err != nil || tg == nil {
					return "", err
				}
				return tg.ARN, nil
			},
			remove: infra.DeleteTargetGroup,
		},
		{
			resourceType: "db instance",
			name:         cfg.Database.Identifier,
			lookup: func(c context.Context) (string, error) {
				db, err := infra.GetDBInstance(c, cfg.Database.Identifier)
				if err != nil || db == nil {
					return "", err
				}
				return db.Identifier, nil
			},
			remove: infra.DeleteDBInstance,
		},
		{
			resourceType: "instance",
			name:         cfg.Instance.Name,
			lookup: func(c context.Context) (string, error) {
				inst, err := infra.GetInstanceByName(c, cfg.Instance.Name)
				if err != nil || inst == nil {
					return "", err
				}
				return inst.ID, nil
			},
			remove: infra.TerminateInstance,
		},
		{
			resourceType: "security group",
			name:         cfg.SecurityGroup.Name,
			lookup: func(c context.Context) (string, error) {
				sg, err := infra.GetSecurityGroup(c, cfg.SecurityGroup.Name, cfg.SecurityGroup.VPCID)
				if err != nil || sg == nil {
					return "", err
				}
				return sg.ID, nil
			},
			remove: infra.DeleteSecurityGroup,
		},
	}
}
