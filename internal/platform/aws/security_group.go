package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// EnsureSecurityGroup returns the security group with the given name, or creates it.
func (c *RealClient) EnsureSecurityGroup(ctx context.Context, opts SecurityGroupOpts) (*SecurityGroup, error) {
	sg, created, err := (&EnsureOperation[*SecurityGroup]{
		Name:         opts.Name,
		ResourceType: "security group",
		Get: func(ctx context.Context) (*SecurityGroup, error) {
			return c.GetSecurityGroup(ctx, opts.Name, opts.VPCID)
		},
		Create: func(ctx context.Context) (*SecurityGroup, error) {
			return c.createSecurityGroup(ctx, opts)
		},
	}).Execute(ctx)
	if err != nil {
		return nil, err
	}
	sg.Created = created
	return sg, nil
}

func (c *RealClient) createSecurityGroup(ctx context.Context, opts SecurityGroupOpts) (*SecurityGroup, error) {
	input := &ec2.CreateSecurityGroupInput{
		GroupName:         aws.String(opts.Name),
		Description:       aws.String(opts.Description),
		TagSpecifications: ec2TagSpec(ec2types.ResourceTypeSecurityGroup, opts.Tags),
	}
	if opts.VPCID != "" {
		input.VpcId = aws.String(opts.VPCID)
	}

	out, err := c.ec2.CreateSecurityGroup(ctx, input)
	if err != nil {
		return nil, err
	}
	return &SecurityGroup{
		ID:    aws.ToString(out.GroupId),
		Name:  opts.Name,
		VPCID: opts.VPCID,
	}, nil
}

// GetSecurityGroup returns the security group with the given name, or nil if not found.
// Group names are unique per VPC, so an empty vpcID that matches groups in
// several VPCs is an error.
func (c *RealClient) GetSecurityGroup(ctx context.Context, name, vpcID string) (*SecurityGroup, error) {
	filters := []ec2types.Filter{
		{Name: aws.String("group-name"), Values: []string{name}},
	}
	if vpcID != "" {
		filters = append(filters, ec2types.Filter{Name: aws.String("vpc-id"), Values: []string{vpcID}})
	}

	out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{Filters: filters})
	if err != nil {
		return nil, err
	}

	switch len(out.SecurityGroups) {
	case 0:
		return nil, nil
	case 1:
		g := out.SecurityGroups[0]
		return &SecurityGroup{
			ID:    aws.ToString(g.GroupId),
			Name:  aws.ToString(g.GroupName),
			VPCID: aws.ToString(g.VpcId),
		}, nil
	default:
		return nil, fmt.Errorf("%d security groups named %q found, set security_group.vpc_id to choose one",
			len(out.SecurityGroups), name)
	}
}

// AuthorizeIngress adds a single inbound rule to the group.
func (c *RealClient) AuthorizeIngress(ctx context.Context, groupID string, rule IngressRule) error {
	input := &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId: aws.String(groupID),
		IpPermissions: []ec2types.IpPermission{{
			IpProtocol: aws.String(rule.Protocol),
			FromPort:   aws.Int32(rule.Port),
			ToPort:     aws.Int32(rule.Port),
			IpRanges:   []ec2types.IpRange{{CidrIp: aws.String(rule.CIDR)}},
		}},
	}
	// A group created moments ago can still be reported as not found.
	err := c.retryUntilVisible(ctx, "security group "+groupID, func(ctx context.Context) error {
		_, err := c.ec2.AuthorizeSecurityGroupIngress(ctx, input)
		if IsDuplicate(err) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to authorize ingress on %s: %w", groupID, err)
	}
	return nil
}

// DeleteSecurityGroup deletes the group. While instances or load balancer
// interfaces that used it are still going away the delete fails with
// DependencyViolation and is retried.
func (c *RealClient) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	return (&DeleteOperation{
		ID:           groupID,
		ResourceType: "security group",
		Delete: func(ctx context.Context) error {
			_, err := c.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{GroupId: aws.String(groupID)})
			return err
		},
	}).Execute(ctx, c)
}
