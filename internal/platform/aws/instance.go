package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/util/tags"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// EnsureInstance returns the live instance tagged with opts.Name, or launches
// exactly one. Either way it returns only once the instance is running,
// because load balancer target registration rejects pending instances.
func (c *RealClient) EnsureInstance(ctx context.Context, opts InstanceOpts) (*Instance, error) {
	inst, created, err := (&EnsureOperation[*Instance]{
		Name:         opts.Name,
		ResourceType: "instance",
		Get: func(ctx context.Context) (*Instance, error) {
			return c.GetInstanceByName(ctx, opts.Name)
		},
		Create: func(ctx context.Context) (*Instance, error) {
			return c.runInstance(ctx, opts)
		},
	}).Execute(ctx)
	if err != nil {
		return nil, err
	}

	if inst.State != string(ec2types.InstanceStateNameRunning) {
		running, err := c.waitForInstanceRunning(ctx, inst.ID)
		if err != nil {
			// The instance exists; report it so the caller can still clean it up.
			inst.Created = created
			return inst, fmt.Errorf("instance %s did not reach running: %w", inst.ID, err)
		}
		if running.Name == "" {
			running.Name = opts.Name
		}
		inst = running
	}

	inst.Created = created
	return inst, nil
}

func (c *RealClient) runInstance(ctx context.Context, opts InstanceOpts) (*Instance, error) {
	instanceTags := opts.Tags
	if instanceTags[tags.KeyName] != opts.Name {
		instanceTags = make(map[string]string, len(opts.Tags)+1)
		for k, v := range opts.Tags {
			instanceTags[k] = v
		}
		instanceTags[tags.KeyName] = opts.Name
	}

	input := &ec2.RunInstancesInput{
		ImageId:          aws.String(opts.ImageID),
		InstanceType:     ec2types.InstanceType(opts.InstanceType),
		MinCount:         aws.Int32(1),
		MaxCount:         aws.Int32(1),
		SecurityGroupIds: []string{opts.SecurityGroupID},
		// Makes SDK-level retries of this call safe: a repeated token never
		// launches a second instance.
		ClientToken:       aws.String(c.newToken()),
		TagSpecifications: ec2TagSpec(ec2types.ResourceTypeInstance, instanceTags),
	}
	if opts.SubnetID != "" {
		input.SubnetId = aws.String(opts.SubnetID)
	}

	out, err := c.ec2.RunInstances(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("run instances returned no instance")
	}
	inst := toInstance(out.Instances[0])
	inst.Name = opts.Name
	return inst, nil
}

// GetInstanceByName returns the pending or running instance with the given
// Name tag, or nil if not found.
func (c *RealClient) GetInstanceByName(ctx context.Context, name string) (*Instance, error) {
	out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("tag:" + tags.KeyName), Values: []string{name}},
			{Name: aws.String("instance-state-name"), Values: []string{
				string(ec2types.InstanceStateNamePending),
				string(ec2types.InstanceStateNameRunning),
			}},
		},
	})
	if err != nil {
		return nil, err
	}

	var found []ec2types.Instance
	for _, r := range out.Reservations {
		found = append(found, r.Instances...)
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return toInstance(found[0]), nil
	default:
		return nil, fmt.Errorf("%d live instances tagged Name=%q, expected at most one", len(found), name)
	}
}

func (c *RealClient) waitForInstanceRunning(ctx context.Context, instanceID string) (*Instance, error) {
	out, err := ec2.NewInstanceRunningWaiter(c.ec2).WaitForOutput(ctx,
		&ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}},
		c.timeouts.InstanceRunning)
	if err != nil {
		return nil, err
	}
	for _, r := range out.Reservations {
		for _, i := range r.Instances {
			if aws.ToString(i.InstanceId) == instanceID {
				return toInstance(i), nil
			}
		}
	}
	return nil, fmt.Errorf("instance %s missing from describe output", instanceID)
}

// TerminateInstance terminates the instance and waits until it is gone.
func (c *RealClient) TerminateInstance(ctx context.Context, instanceID string) error {
	return (&DeleteOperation{
		ID:           instanceID,
		ResourceType: "instance",
		Delete: func(ctx context.Context) error {
			_, err := c.ec2.TerminateInstances(ctx, &ec2.TerminateInstancesInput{InstanceIds: []string{instanceID}})
			return err
		},
		Wait: func(ctx context.Context, maxWait time.Duration) error {
			return ec2.NewInstanceTerminatedWaiter(c.ec2).Wait(ctx,
				&ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}}, maxWait)
		},
	}).Execute(ctx, c)
}

func toInstance(i ec2types.Instance) *Instance {
	inst := &Instance{
		ID:       aws.ToString(i.InstanceId),
		VPCID:    aws.ToString(i.VpcId),
		SubnetID: aws.ToString(i.SubnetId),
	}
	if i.State != nil {
		inst.State = string(i.State.Name)
	}
	for _, t := range i.Tags {
		if aws.ToString(t.Key) == tags.KeyName {
			inst.Name = aws.ToString(t.Value)
		}
	}
	return inst
}
