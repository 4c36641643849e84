package aws

import (
	"context"
	"time"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"

	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
)

// The fakes embed the API interface so that any method a test did not
// stub panics instead of silently succeeding.

type fakeEC2 struct {
	EC2API
	createSecurityGroup    func(*ec2.CreateSecurityGroupInput) (*ec2.CreateSecurityGroupOutput, error)
	describeSecurityGroups func(*ec2.DescribeSecurityGroupsInput) (*ec2.DescribeSecurityGroupsOutput, error)
	authorizeIngress       func(*ec2.AuthorizeSecurityGroupIngressInput) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
	deleteSecurityGroup    func(*ec2.DeleteSecurityGroupInput) (*ec2.DeleteSecurityGroupOutput, error)
	runInstances           func(*ec2.RunInstancesInput) (*ec2.RunInstancesOutput, error)
	describeInstances      func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error)
	terminateInstances     func(*ec2.TerminateInstancesInput) (*ec2.TerminateInstancesOutput, error)
	describeImages         func(*ec2.DescribeImagesInput) (*ec2.DescribeImagesOutput, error)
	describeSubnets        func(*ec2.DescribeSubnetsInput) (*ec2.DescribeSubnetsOutput, error)
}

func (f *fakeEC2) CreateSecurityGroup(_ context.Context, in *ec2.CreateSecurityGroupInput, _ ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error) {
	return f.createSecurityGroup(in)
}

func (f *fakeEC2) DescribeSecurityGroups(_ context.Context, in *ec2.DescribeSecurityGroupsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	return f.describeSecurityGroups(in)
}

func (f *fakeEC2) AuthorizeSecurityGroupIngress(_ context.Context, in *ec2.AuthorizeSecurityGroupIngressInput, _ ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error) {
	return f.authorizeIngress(in)
}

func (f *fakeEC2) DeleteSecurityGroup(_ context.Context, in *ec2.DeleteSecurityGroupInput, _ ...func(*ec2.Options)) (*ec2.DeleteSecurityGroupOutput, error) {
	return f.deleteSecurityGroup(in)
}

func (f *fakeEC2) RunInstances(_ context.Context, in *ec2.RunInstancesInput, _ ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error) {
	return f.runInstances(in)
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return f.describeInstances(in)
}

func (f *fakeEC2) TerminateInstances(_ context.Context, in *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	return f.terminateInstances(in)
}

func (f *fakeEC2) DescribeImages(_ context.Context, in *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	return f.describeImages(in)
}

func (f *fakeEC2) DescribeSubnets(_ context.Context, in *ec2.DescribeSubnetsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error) {
	return f.describeSubnets(in)
}

type fakeRDS struct {
	RDSAPI
	createDBInstance    func(*rds.CreateDBInstanceInput) (*rds.CreateDBInstanceOutput, error)
	describeDBInstances func(*rds.DescribeDBInstancesInput) (*rds.DescribeDBInstancesOutput, error)
	deleteDBInstance    func(*rds.DeleteDBInstanceInput) (*rds.DeleteDBInstanceOutput, error)
}

func (f *fakeRDS) CreateDBInstance(_ context.Context, in *rds.CreateDBInstanceInput, _ ...func(*rds.Options)) (*rds.CreateDBInstanceOutput, error) {
	return f.createDBInstance(in)
}

func (f *fakeRDS) DescribeDBInstances(_ context.Context, in *rds.DescribeDBInstancesInput, _ ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	return f.describeDBInstances(in)
}

func (f *fakeRDS) DeleteDBInstance(_ context.Context, in *rds.DeleteDBInstanceInput, _ ...func(*rds.Options)) (*rds.DeleteDBInstanceOutput, error) {
	return f.deleteDBInstance(in)
}

type fakeELB struct {
	ELBAPI
	createLoadBalancer    func(*elbv2.CreateLoadBalancerInput) (*elbv2.CreateLoadBalancerOutput, error)
	describeLoadBalancers func(*elbv2.DescribeLoadBalancersInput) (*elbv2.DescribeLoadBalancersOutput, error)
	deleteLoadBalancer    func(*elbv2.DeleteLoadBalancerInput) (*elbv2.DeleteLoadBalancerOutput, error)
	createTargetGroup     func(*elbv2.CreateTargetGroupInput) (*elbv2.CreateTargetGroupOutput, error)
	describeTargetGroups  func(*elbv2.DescribeTargetGroupsInput) (*elbv2.DescribeTargetGroupsOutput, error)
	deleteTargetGroup     func(*elbv2.DeleteTargetGroupInput) (*elbv2.DeleteTargetGroupOutput, error)
	registerTargets       func(*elbv2.RegisterTargetsInput) (*elbv2.RegisterTargetsOutput, error)
	deregisterTargets     func(*elbv2.DeregisterTargetsInput) (*elbv2.DeregisterTargetsOutput, error)
	createListener        func(*elbv2.CreateListenerInput) (*elbv2.CreateListenerOutput, error)
	describeListeners     func(*elbv2.DescribeListenersInput) (*elbv2.DescribeListenersOutput, error)
	deleteListener        func(*elbv2.DeleteListenerInput) (*elbv2.DeleteListenerOutput, error)
}

func (f *fakeELB) CreateLoadBalancer(_ context.Context, in *elbv2.CreateLoadBalancerInput, _ ...func(*elbv2.Options)) (*elbv2.CreateLoadBalancerOutput, error) {
	return f.createLoadBalancer(in)
}

func (f *fakeELB) DescribeLoadBalancers(_ context.Context, in *elbv2.DescribeLoadBalancersInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error) {
	return f.describeLoadBalancers(in)
}

func (f *fakeELB) DeleteLoadBalancer(_ context.Context, in *elbv2.DeleteLoadBalancerInput, _ ...func(*elbv2.Options)) (*elbv2.DeleteLoadBalancerOutput, error) {
	return f.deleteLoadBalancer(in)
}

func (f *fakeELB) CreateTargetGroup(_ context.Context, in *elbv2.CreateTargetGroupInput, _ ...func(*elbv2.Options)) (*elbv2.CreateTargetGroupOutput, error) {
	return f.createTargetGroup(in)
}

func (f *fakeELB) DescribeTargetGroups(_ context.Context, in *elbv2.DescribeTargetGroupsInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error) {
	return f.describeTargetGroups(in)
}

func (f *fakeELB) DeleteTargetGroup(_ context.Context, in *elbv2.DeleteTargetGroupInput, _ ...func(*elbv2.Options)) (*elbv2.DeleteTargetGroupOutput, error) {
	return f.deleteTargetGroup(in)
}

func (f *fakeELB) RegisterTargets(_ context.Context, in *elbv2.RegisterTargetsInput, _ ...func(*elbv2.Options)) (*elbv2.RegisterTargetsOutput, error) {
	return f.registerTargets(in)
}

func (f *fakeELB) DeregisterTargets(_ context.Context, in *elbv2.DeregisterTargetsInput, _ ...func(*elbv2.Options)) (*elbv2.DeregisterTargetsOutput, error) {
	return f.deregisterTargets(in)
}

func (f *fakeELB) CreateListener(_ context.Context, in *elbv2.CreateListenerInput, _ ...func(*elbv2.Options)) (*elbv2.CreateListenerOutput, error) {
	return f.createListener(in)
}

func (f *fakeELB) DescribeListeners(_ context.Context, in *elbv2.DescribeListenersInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeListenersOutput, error) {
	return f.describeListeners(in)
}

func (f *fakeELB) DeleteListener(_ context.Context, in *elbv2.DeleteListenerInput, _ ...func(*elbv2.Options)) (*elbv2.DeleteListenerOutput, error) {
	return f.deleteListener(in)
}

type fakeAutoScaling struct {
	AutoScalingAPI
	createGroup           func(*autoscaling.CreateAutoScalingGroupInput) (*autoscaling.CreateAutoScalingGroupOutput, error)
	describeGroups        func(*autoscaling.DescribeAutoScalingGroupsInput) (*autoscaling.DescribeAutoScalingGroupsOutput, error)
	deleteGroup           func(*autoscaling.DeleteAutoScalingGroupInput) (*autoscaling.DeleteAutoScalingGroupOutput, error)
	describeLaunchConfigs func(*autoscaling.DescribeLaunchConfigurationsInput) (*autoscaling.DescribeLaunchConfigurationsOutput, error)
}

func (f *fakeAutoScaling) CreateAutoScalingGroup(_ context.Context, in *autoscaling.CreateAutoScalingGroupInput, _ ...func(*autoscaling.Options)) (*autoscaling.CreateAutoScalingGroupOutput, error) {
	return f.createGroup(in)
}

func (f *fakeAutoScaling) DescribeAutoScalingGroups(_ context.Context, in *autoscaling.DescribeAutoScalingGroupsInput, _ ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingGroupsOutput, error) {
	return f.describeGroups(in)
}

func (f *fakeAutoScaling) DeleteAutoScalingGroup(_ context.Context, in *autoscaling.DeleteAutoScalingGroupInput, _ ...func(*autoscaling.Options)) (*autoscaling.DeleteAutoScalingGroupOutput, error) {
	return f.deleteGroup(in)
}

func (f *fakeAutoScaling) DescribeLaunchConfigurations(_ context.Context, in *autoscaling.DescribeLaunchConfigurationsInput, _ ...func(*autoscaling.Options)) (*autoscaling.DescribeLaunchConfigurationsOutput, error) {
	return f.describeLaunchConfigs(in)
}

type fakeSTS struct {
	getCallerIdentity func(*sts.GetCallerIdentityInput) (*sts.GetCallerIdentityOutput, error)
}

func (f *fakeSTS) GetCallerIdentity(_ context.Context, in *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return f.getCallerIdentity(in)
}

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		InstanceRunning:   5 * time.Second,
		Delete:            5 * time.Second,
		Rollback:          10 * time.Second,
		RetryMaxAttempts:  3,
		RetryInitialDelay: time.Millisecond,
	}
}

// newTestClient builds a RealClient whose SDK clients are all fakes. Nil
// arguments get an empty fake that panics on use.
func newTestClient(e *fakeEC2, r *fakeRDS, l *fakeELB, a *fakeAutoScaling) *RealClient {
	if e == nil {
		e = &fakeEC2{}
	}
	if r == nil {
		r = &fakeRDS{}
	}
	if l == nil {
		l = &fakeELB{}
	}
	if a == nil {
		a = &fakeAutoScaling{}
	}
	return &RealClient{
		ec2:         e,
		rds:         r,
		elb:         l,
		autoscaling: a,
		sts:         &fakeSTS{},
		timeouts:    testTimeouts(),
		newToken:    func() string { return "token-1" },
		logf:        func(string, ...interface{}) {},
	}
}

func apiError(code, msg string) error {
	return &smithy.GenericAPIError{Code: code, Message: msg}
}
