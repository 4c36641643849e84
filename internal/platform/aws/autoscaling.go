package aws

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
)

const asgStatusDeleting = "Delete in progress"

// EnsureAutoScalingGroup returns the Auto Scaling group with the given name,
// or creates it from the named launch configuration. The launch
// configuration itself must already exist.
func (c *RealClient) EnsureAutoScalingGroup(ctx context.Context, opts AutoScalingGroupOpts) (*AutoScalingGroup, error) {
	asg, created, err := (&EnsureOperation[*AutoScalingGroup]{
		Name:         opts.Name,
		ResourceType: "autoscaling group",
		Get: func(ctx context.Context) (*AutoScalingGroup, error) {
			return c.GetAutoScalingGroup(ctx, opts.Name)
		},
		Create: func(ctx context.Context) (*AutoScalingGroup, error) {
			return c.createAutoScalingGroup(ctx, opts)
		},
	}).Execute(ctx)
	if err != nil {
		return nil, err
	}
	asg.Created = created
	return asg, nil
}

func (c *RealClient) createAutoScalingGroup(ctx context.Context, opts AutoScalingGroupOpts) (*AutoScalingGroup, error) {
	input := &autoscaling.CreateAutoScalingGroupInput{
		AutoScalingGroupName:    aws.String(opts.Name),
		LaunchConfigurationName: aws.String(opts.LaunchConfigurationName),
		MinSize:                 aws.Int32(opts.MinSize),
		MaxSize:                 aws.Int32(opts.MaxSize),
		Tags:                    asgTags(opts.Tags),
	}
	if len(opts.VPCZoneIdentifier) > 0 {
		input.VPCZoneIdentifier = aws.String(strings.Join(opts.VPCZoneIdentifier, ","))
	}

	if _, err := c.autoscaling.CreateAutoScalingGroup(ctx, input); err != nil {
		return nil, err
	}
	return &AutoScalingGroup{
		Name:    opts.Name,
		MinSize: opts.MinSize,
		MaxSize: opts.MaxSize,
	}, nil
}

// GetAutoScalingGroup returns the group with the given name, or nil if not
// found. A group that is being deleted counts as not found.
func (c *RealClient) GetAutoScalingGroup(ctx context.Context, name string) (*AutoScalingGroup, error) {
	out, err := c.autoscaling.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
		AutoScalingGroupNames: []string{name},
	})
	if err != nil {
		return nil, err
	}
	for _, g := range out.AutoScalingGroups {
		if aws.ToString(g.AutoScalingGroupName) != name {
			continue
		}
		if aws.ToString(g.Status) == asgStatusDeleting {
			return nil, fmt.Errorf("autoscaling group %q is being deleted", name)
		}
		return &AutoScalingGroup{
			Name:    name,
			MinSize: aws.ToInt32(g.MinSize),
			MaxSize: aws.ToInt32(g.MaxSize),
		}, nil
	}
	return nil, nil
}

// DeleteAutoScalingGroup force-deletes the group, terminating its
// instances, and waits until it is gone.
func (c *RealClient) DeleteAutoScalingGroup(ctx context.Context, name string) error {
	return (&DeleteOperation{
		ID:           name,
		ResourceType: "autoscaling group",
		Delete: func(ctx context.Context) error {
			_, err := c.autoscaling.DeleteAutoScalingGroup(ctx, &autoscaling.DeleteAutoScalingGroupInput{
				AutoScalingGroupName: aws.String(name),
				ForceDelete:          aws.Bool(true),
			})
			return err
		},
		Wait: func(ctx context.Context, maxWait time.Duration) error {
			return autoscaling.NewGroupNotExistsWaiter(c.autoscaling).Wait(ctx,
				&autoscaling.DescribeAutoScalingGroupsInput{AutoScalingGroupNames: []string{name}}, maxWait)
		},
	}).Execute(ctx, c)
}
