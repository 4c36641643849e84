package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
)

// EnsureLoadBalancer returns the application load balancer with the given name, or creates it.
func (c *RealClient) EnsureLoadBalancer(ctx context.Context, opts LoadBalancerOpts) (*LoadBalancer, error) {
	lb, created, err := (&EnsureOperation[*LoadBalancer]{
		Name:         opts.Name,
		ResourceType: "load balancer",
		Get: func(ctx context.Context) (*LoadBalancer, error) {
			return c.GetLoadBalancer(ctx, opts.Name)
		},
		Create: func(ctx context.Context) (*LoadBalancer, error) {
			return c.createLoadBalancer(ctx, opts)
		},
	}).Execute(ctx)
	if err != nil {
		return nil, err
	}
	lb.Created = created
	return lb, nil
}

func (c *RealClient) createLoadBalancer(ctx context.Context, opts LoadBalancerOpts) (*LoadBalancer, error) {
	out, err := c.elb.CreateLoadBalancer(ctx, &elbv2.CreateLoadBalancerInput{
		Name:           aws.String(opts.Name),
		Subnets:        opts.Subnets,
		SecurityGroups: []string{opts.SecurityGroupID},
		Type:           elbtypes.LoadBalancerTypeEnumApplication,
		Scheme:         elbtypes.LoadBalancerSchemeEnumInternetFacing,
		Tags:           elbTags(opts.Tags),
	})
	if err != nil {
		return nil, err
	}
	if len(out.LoadBalancers) == 0 {
		return nil, fmt.Errorf("create load balancer returned no load balancer")
	}
	return toLoadBalancer(out.LoadBalancers[0]), nil
}

// GetLoadBalancer returns the load balancer with the given name, or nil if not found.
func (c *RealClient) GetLoadBalancer(ctx context.Context, name string) (*LoadBalancer, error) {
	out, err := c.elb.DescribeLoadBalancers(ctx, &elbv2.DescribeLoadBalancersInput{Names: []string{name}})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(out.LoadBalancers) == 0 {
		return nil, nil
	}
	return toLoadBalancer(out.LoadBalancers[0]), nil
}

// DeleteLoadBalancer deletes the load balancer and waits until it is gone.
// Its listeners are deleted with it.
func (c *RealClient) DeleteLoadBalancer(ctx context.Context, loadBalancerARN string) error {
	return (&DeleteOperation{
		ID:           loadBalancerARN,
		ResourceType: "load balancer",
		Delete: func(ctx context.Context) error {
			_, err := c.elb.DeleteLoadBalancer(ctx, &elbv2.DeleteLoadBalancerInput{LoadBalancerArn: aws.String(loadBalancerARN)})
			return err
		},
		Wait: func(ctx context.Context, maxWait time.Duration) error {
			return elbv2.NewLoadBalancersDeletedWaiter(c.elb).Wait(ctx,
				&elbv2.DescribeLoadBalancersInput{LoadBalancerArns: []string{loadBalancerARN}}, maxWait)
		},
	}).Execute(ctx, c)
}

// EnsureTargetGroup returns the target group with the given name, or creates it.
// An existing group in a different VPC than requested is an error, since the
// instance could never be registered in it.
func (c *RealClient) EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error) {
	tg, created, err := (&EnsureOperation[*TargetGroup]{
		Name:         opts.Name,
		ResourceType: "target group",
		Get: func(ctx context.Context) (*TargetGroup, error) {
			return c.GetTargetGroup(ctx, opts.Name)
		},
		Create: func(ctx context.Context) (*TargetGroup, error) {
			return c.createTargetGroup(ctx, opts)
		},
		Validate: func(tg *TargetGroup) error {
			if opts.VPCID != "" && tg.VPCID != "" && tg.VPCID != opts.VPCID {
				return fmt.Errorf("is in VPC %s, expected %s", tg.VPCID, opts.VPCID)
			}
			return nil
		},
	}).Execute(ctx)
	if err != nil {
		return nil, err
	}
	tg.Created = created
	return tg, nil
}

func (c *RealClient) createTargetGroup(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error) {
	out, err := c.elb.CreateTargetGroup(ctx, &elbv2.CreateTargetGroupInput{
		Name:       aws.String(opts.Name),
		Protocol:   elbtypes.ProtocolEnum(opts.Protocol),
		Port:       aws.Int32(opts.Port),
		VpcId:      aws.String(opts.VPCID),
		TargetType: elbtypes.TargetTypeEnumInstance,
		Tags:       elbTags(opts.Tags),
	})
	if err != nil {
		return nil, err
	}
	if len(out.TargetGroups) == 0 {
		return nil, fmt.Errorf("create target group returned no target group")
	}
	return toTargetGroup(out.TargetGroups[0]), nil
}

// GetTargetGroup returns the target group with the given name, or nil if not found.
func (c *RealClient) GetTargetGroup(ctx context.Context, name string) (*TargetGroup, error) {
	out, err := c.elb.DescribeTargetGroups(ctx, &elbv2.DescribeTargetGroupsInput{Names: []string{name}})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(out.TargetGroups) == 0 {
		return nil, nil
	}
	return toTargetGroup(out.TargetGroups[0]), nil
}

// DeleteTargetGroup deletes the target group. It stays in use until the load
// balancer forwarding to it is gone, so ResourceInUse is retried.
func (c *RealClient) DeleteTargetGroup(ctx context.Context, targetGroupARN string) error {
	return (&DeleteOperation{
		ID:           targetGroupARN,
		ResourceType: "target group",
		Delete: func(ctx context.Context) error {
			_, err := c.elb.DeleteTargetGroup(ctx, &elbv2.DeleteTargetGroupInput{TargetGroupArn: aws.String(targetGroupARN)})
			return err
		},
	}).Execute(ctx, c)
}

// RegisterTarget registers the instance with the target group on the group's port.
func (c *RealClient) RegisterTarget(ctx context.Context, targetGroupARN, instanceID string) error {
	_, err := c.elb.RegisterTargets(ctx, &elbv2.RegisterTargetsInput{
		TargetGroupArn: aws.String(targetGroupARN),
		Targets:        []elbtypes.TargetDescription{{Id: aws.String(instanceID)}},
	})
	if err != nil {
		return fmt.Errorf("failed to register %s with %s: %w", instanceID, targetGroupARN, err)
	}
	return nil
}

// DeregisterTarget removes the instance from the target group. A missing
// group or target is success.
func (c *RealClient) DeregisterTarget(ctx context.Context, targetGroupARN, instanceID string) error {
	_, err := c.elb.DeregisterTargets(ctx, &elbv2.DeregisterTargetsInput{
		TargetGroupArn: aws.String(targetGroupARN),
		Targets:        []elbtypes.TargetDescription{{Id: aws.String(instanceID)}},
	})
	if err != nil && !IsNotFound(err) && ErrorCode(err) != "InvalidTarget" {
		return fmt.Errorf("failed to deregister %s from %s: %w", instanceID, targetGroupARN, err)
	}
	return nil
}

// EnsureListener returns the listener on opts.Port of the load balancer, or
// creates one forwarding to the target group. An existing listener on that
// port that forwards elsewhere is an error.
func (c *RealClient) EnsureListener(ctx context.Context, opts ListenerOpts) (*Listener, error) {
	name := fmt.Sprintf("%s:%d", opts.LoadBalancerARN, opts.Port)
	l, created, err := (&EnsureOperation[*Listener]{
		Name:         name,
		ResourceType: "listener",
		Get: func(ctx context.Context) (*Listener, error) {
			return c.getListener(ctx, opts)
		},
		Create: func(ctx context.Context) (*Listener, error) {
			return c.createListener(ctx, opts)
		},
	}).Execute(ctx)
	if err != nil {
		return nil, err
	}
	l.Created = created
	return l, nil
}

func (c *RealClient) getListener(ctx context.Context, opts ListenerOpts) (*Listener, error) {
	out, err := c.elb.DescribeListeners(ctx, &elbv2.DescribeListenersInput{
		LoadBalancerArn: aws.String(opts.LoadBalancerARN),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	for _, l := range out.Listeners {
		if aws.ToInt32(l.Port) != opts.Port {
			continue
		}
		if !forwardsTo(l.DefaultActions, opts.TargetGroupARN) {
			return nil, fmt.Errorf("listener %s on port %d does not forward to %s",
				aws.ToString(l.ListenerArn), opts.Port, opts.TargetGroupARN)
		}
		return &Listener{ARN: aws.ToString(l.ListenerArn), Port: opts.Port}, nil
	}
	return nil, nil
}

func (c *RealClient) createListener(ctx context.Context, opts ListenerOpts) (*Listener, error) {
	out, err := c.elb.CreateListener(ctx, &elbv2.CreateListenerInput{
		LoadBalancerArn: aws.String(opts.LoadBalancerARN),
		Protocol:        elbtypes.ProtocolEnum(opts.Protocol),
		Port:            aws.Int32(opts.Port),
		DefaultActions: []elbtypes.Action{{
			Type:           elbtypes.ActionTypeEnumForward,
			TargetGroupArn: aws.String(opts.TargetGroupARN),
		}},
	})
	if err != nil {
		return nil, err
	}
	if len(out.Listeners) == 0 {
		return nil, fmt.Errorf("create listener returned no listener")
	}
	return &Listener{ARN: aws.ToString(out.Listeners[0].ListenerArn), Port: opts.Port}, nil
}

// DeleteListener deletes the listener.
func (c *RealClient) DeleteListener(ctx context.Context, listenerARN string) error {
	return (&DeleteOperation{
		ID:           listenerARN,
		ResourceType: "listener",
		Delete: func(ctx context.Context) error {
			_, err := c.elb.DeleteListener(ctx, &elbv2.DeleteListenerInput{ListenerArn: aws.String(listenerARN)})
			return err
		},
	}).Execute(ctx, c)
}

func forwardsTo(actions []elbtypes.Action, targetGroupARN string) bool {
	for _, a := range actions {
		if a.Type != elbtypes.ActionTypeEnumForward {
			continue
		}
		if aws.ToString(a.TargetGroupArn) == targetGroupARN {
			return true
		}
		if a.ForwardConfig != nil {
			for _, tg := range a.ForwardConfig.TargetGroups {
				if aws.ToString(tg.TargetGroupArn) == targetGroupARN {
					return true
				}
			}
		}
	}
	return false
}

func toLoadBalancer(lb elbtypes.LoadBalancer) *LoadBalancer {
	return &LoadBalancer{
		ARN:     aws.ToString(lb.LoadBalancerArn),
		Name:    aws.ToString(lb.LoadBalancerName),
		DNSName: aws.ToString(lb.DNSName),
		VPCID:   aws.ToString(lb.VpcId),
	}
}

func toTargetGroup(tg elbtypes.TargetGroup) *TargetGroup {
	return &TargetGroup{
		ARN:   aws.ToString(tg.TargetGroupArn),
		Name:  aws.ToString(tg.TargetGroupName),
		VPCID: aws.ToString(tg.VpcId),
	}
}
