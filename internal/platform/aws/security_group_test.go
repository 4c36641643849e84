package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSecurityGroup_Existing(t *testing.T) {
	t.Parallel()
	fake := &fakeEC2{
		describeSecurityGroups: func(in *ec2.DescribeSecurityGroupsInput) (*ec2.DescribeSecurityGroupsOutput, error) {
			require.Len(t, in.Filters, 1)
			assert.Equal(t, "group-name", aws.ToString(in.Filters[0].Name))
			assert.Equal(t, []string{"web"}, in.Filters[0].Values)
			return &ec2.DescribeSecurityGroupsOutput{SecurityGroups: []ec2types.SecurityGroup{
				{GroupId: aws.String("sg-1"), GroupName: aws.String("web"), VpcId: aws.String("vpc-1")},
			}}, nil
		},
	}
	c := newTestClient(fake, nil, nil, nil)

	sg, err := c.EnsureSecurityGroup(context.Background(), SecurityGroupOpts{Name: "web", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, "sg-1", sg.ID)
	assert.Equal(t, "vpc-1", sg.VPCID)
	assert.False(t, sg.Created)
}

func TestEnsureSecurityGroup_Create(t *testing.T) {
	t.Parallel()
	var input *ec2.CreateSecurityGroupInput
	fake := &fakeEC2{
		describeSecurityGroups: func(in *ec2.DescribeSecurityGroupsInput) (*ec2.DescribeSecurityGroupsOutput, error) {
			assert.Len(t, in.Filters, 2)
			return &ec2.DescribeSecurityGroupsOutput{}, nil
		},
		createSecurityGroup: func(in *ec2.CreateSecurityGroupInput) (*ec2.CreateSecurityGroupOutput, error) {
			input = in
			return &ec2.CreateSecurityGroupOutput{GroupId: aws.String("sg-new")}, nil
		},
	}
	c := newTestClient(fake, nil, nil, nil)

	sg, err := c.EnsureSecurityGroup(context.Background(), SecurityGroupOpts{
		Name:        "web",
		Description: "My security group",
		VPCID:       "vpc-9",
		Tags:        map[string]string{"b": "2", "a": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sg-new", sg.ID)
	assert.True(t, sg.Created)

	require.NotNil(t, input)
	assert.Equal(t, "web", aws.ToString(input.GroupName))
	assert.Equal(t, "My security group", aws.ToString(input.Description))
	assert.Equal(t, "vpc-9", aws.ToString(input.VpcId))
	require.Len(t, input.TagSpecifications, 1)
	assert.Equal(t, ec2types.ResourceTypeSecurityGroup, input.TagSpecifications[0].ResourceType)
	assert.Equal(t, "a", aws.ToString(input.TagSpecifications[0].Tags[0].Key))
}

func TestGetSecurityGroup_Ambiguous(t *testing.T) {
	t.Parallel()
	fake := &fakeEC2{
		describeSecurityGroups: func(*ec2.DescribeSecurityGroupsInput) (*ec2.DescribeSecurityGroupsOutput, error) {
			return &ec2.DescribeSecurityGroupsOutput{SecurityGroups: []ec2types.SecurityGroup{
				{GroupId: aws.String("sg-1")}, {GroupId: aws.String("sg-2")},
			}}, nil
		},
	}
	c := newTestClient(fake, nil, nil, nil)

	_, err := c.GetSecurityGroup(context.Background(), "web", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set security_group.vpc_id")
}

func TestAuthorizeIngress(t *testing.T) {
	t.Parallel()

	t.Run("sends the rule", func(t *testing.T) {
		t.Parallel()
		var input *ec2.AuthorizeSecurityGroupIngressInput
		fake := &fakeEC2{
			authorizeIngress: func(in *ec2.AuthorizeSecurityGroupIngressInput) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
				input = in
				return &ec2.AuthorizeSecurityGroupIngressOutput{}, nil
			},
		}
		c := newTestClient(fake, nil, nil, nil)

		err := c.AuthorizeIngress(context.Background(), "sg-1", IngressRule{Protocol: "tcp", Port: 80, CIDR: "0.0.0.0/0"})
		require.NoError(t, err)
		assert.Equal(t, "sg-1", aws.ToString(input.GroupId))
		require.Len(t, input.IpPermissions, 1)
		perm := input.IpPermissions[0]
		assert.Equal(t, "tcp", aws.ToString(perm.IpProtocol))
		assert.Equal(t, int32(80), aws.ToInt32(perm.FromPort))
		assert.Equal(t, int32(80), aws.ToInt32(perm.ToPort))
		assert.Equal(t, "0.0.0.0/0", aws.ToString(perm.IpRanges[0].CidrIp))
	})

	t.Run("duplicate rule is success", func(t *testing.T) {
		t.Parallel()
		fake := &fakeEC2{
			authorizeIngress: func(*ec2.AuthorizeSecurityGroupIngressInput) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
				return nil, apiError("InvalidPermission.Duplicate", "exists")
			},
		}
		c := newTestClient(fake, nil, nil, nil)
		assert.NoError(t, c.AuthorizeIngress(context.Background(), "sg-1", IngressRule{Protocol: "tcp", Port: 80, CIDR: "0.0.0.0/0"}))
	})

	t.Run("retries while a new group is not visible", func(t *testing.T) {
		t.Parallel()
		calls := 0
		fake := &fakeEC2{
			authorizeIngress: func(*ec2.AuthorizeSecurityGroupIngressInput) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
				calls++
				if calls < 3 {
					return nil, apiError("InvalidGroup.NotFound", "The security group 'sg-1' does not exist")
				}
				return &ec2.AuthorizeSecurityGroupIngressOutput{}, nil
			},
		}
		c := newTestClient(fake, nil, nil, nil)
		require.NoError(t, c.AuthorizeIngress(context.Background(), "sg-1", IngressRule{Protocol: "tcp", Port: 80, CIDR: "0.0.0.0/0"}))
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the retry limit", func(t *testing.T) {
		t.Parallel()
		calls := 0
		fake := &fakeEC2{
			authorizeIngress: func(*ec2.AuthorizeSecurityGroupIngressInput) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
				calls++
				return nil, apiError("InvalidGroup.NotFound", "The security group 'sg-1' does not exist")
			},
		}
		c := newTestClient(fake, nil, nil, nil)
		err := c.AuthorizeIngress(context.Background(), "sg-1", IngressRule{Protocol: "tcp", Port: 80, CIDR: "0.0.0.0/0"})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Equal(t, testTimeouts().RetryMaxAttempts+1, calls)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		t.Parallel()
		calls := 0
		fake := &fakeEC2{
			authorizeIngress: func(*ec2.AuthorizeSecurityGroupIngressInput) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
				calls++
				return nil, apiError("InvalidParameterValue", "bad cidr")
			},
		}
		c := newTestClient(fake, nil, nil, nil)
		require.Error(t, c.AuthorizeIngress(context.Background(), "sg-1", IngressRule{Protocol: "tcp", Port: 80, CIDR: "bad"}))
		assert.Equal(t, 1, calls)
	})

	t.Run("other errors surface", func(t *testing.T) {
		t.Parallel()
		fake := &fakeEC2{
			authorizeIngress: func(*ec2.AuthorizeSecurityGroupIngressInput) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
				return nil, apiError("InvalidParameterValue", "bad cidr")
			},
		}
		c := newTestClient(fake, nil, nil, nil)
		err := c.AuthorizeIngress(context.Background(), "sg-1", IngressRule{Protocol: "tcp", Port: 80, CIDR: "bad"})
		require.Error(t, err)
		assert.Equal(t, KindInvalidParameter, Classify(err))
	})
}

func TestDeleteSecurityGroup_RetriesDependencyViolation(t *testing.T) {
	t.Parallel()
	attempts := 0
	fake := &fakeEC2{
		deleteSecurityGroup: func(in *ec2.DeleteSecurityGroupInput) (*ec2.DeleteSecurityGroupOutput, error) {
			assert.Equal(t, "sg-1", aws.ToString(in.GroupId))
			attempts++
			if attempts == 1 {
				return nil, apiError("DependencyViolation", "resource sg-1 has a dependent object")
			}
			return &ec2.DeleteSecurityGroupOutput{}, nil
		},
	}
	c := newTestClient(fake, nil, nil, nil)

	require.NoError(t, c.DeleteSecurityGroup(context.Background(), "sg-1"))
	assert.Equal(t, 2, attempts)
}
