package aws

import "context"

// MockClient is a mock implementation of InfrastructureManager.
// Every method delegates to its Func field when set and otherwise returns a
// plausible default, with ensured resources reported as created.
type MockClient struct {
	// Security group
	EnsureSecurityGroupFunc func(ctx context.Context, opts SecurityGroupOpts) (*SecurityGroup, error)
	AuthorizeIngressFunc    func(ctx context.Context, groupID string, rule IngressRule) error
	GetSecurityGroupFunc    func(ctx context.Context, name, vpcID string) (*SecurityGroup, error)
	DeleteSecurityGroupFunc func(ctx context.Context, groupID string) error

	// Instance
	EnsureInstanceFunc    func(ctx context.Context, opts InstanceOpts) (*Instance, error)
	GetInstanceByNameFunc func(ctx context.Context, name string) (*Instance, error)
	TerminateInstanceFunc func(ctx context.Context, instanceID string) error

	// Database
	EnsureDBInstanceFunc func(ctx context.Context, opts DBInstanceOpts) (*DBInstance, error)
	GetDBInstanceFunc    func(ctx context.Context, identifier string) (*DBInstance, error)
	DeleteDBInstanceFunc func(ctx context.Context, identifier string) error

	// Load balancing
	EnsureLoadBalancerFunc func(ctx context.Context, opts LoadBalancerOpts) (*LoadBalancer, error)
	EnsureTargetGroupFunc  func(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error)
	RegisterTargetFunc     func(ctx context.Context, targetGroupARN, instanceID string) error
	DeregisterTargetFunc   func(ctx context.Context, targetGroupARN, instanceID string) error
	EnsureListenerFunc     func(ctx context.Context, opts ListenerOpts) (*Listener, error)
	GetLoadBalancerFunc    func(ctx context.Context, name string) (*LoadBalancer, error)
	GetTargetGroupFunc     func(ctx context.Context, name string) (*TargetGroup, error)
	DeleteListenerFunc     func(ctx context.Context, listenerARN string) error
	DeleteLoadBalancerFunc func(ctx context.Context, loadBalancerARN string) error
	DeleteTargetGroupFunc  func(ctx context.Context, targetGroupARN string) error

	// Auto Scaling
	EnsureAutoScalingGroupFunc func(ctx context.Context, opts AutoScalingGroupOpts) (*AutoScalingGroup, error)
	GetAutoScalingGroupFunc    func(ctx context.Context, name string) (*AutoScalingGroup, error)
	DeleteAutoScalingGroupFunc func(ctx context.Context, name string) error

	// Preflight
	CallerIdentityFunc            func(ctx context.Context) (*Identity, error)
	ImageExistsFunc               func(ctx context.Context, imageID string) (bool, error)
	SubnetsExistFunc              func(ctx context.Context, subnetIDs []string) ([]string, error)
	LaunchConfigurationExistsFunc func(ctx context.Context, name string) (bool, error)
}

// Ensure interface compliance
var _ InfrastructureManager = (*MockClient)(nil)

// EnsureSecurityGroup mocks security group creation.
func (m *MockClient) EnsureSecurityGroup(ctx context.Context, opts SecurityGroupOpts) (*SecurityGroup, error) {
	if m.EnsureSecurityGroupFunc != nil {
		return m.EnsureSecurityGroupFunc(ctx, opts)
	}
	return &SecurityGroup{ID: "sg-mock", Name: opts.Name, VPCID: opts.VPCID, Created: true}, nil
}

// AuthorizeIngress mocks adding an ingress rule.
func (m *MockClient) AuthorizeIngress(ctx context.Context, groupID string, rule IngressRule) error {
	if m.AuthorizeIngressFunc != nil {
		return m.AuthorizeIngressFunc(ctx, groupID, rule)
	}
	return nil
}

// GetSecurityGroup mocks security group lookup.
func (m *MockClient) GetSecurityGroup(ctx context.Context, name, vpcID string) (*SecurityGroup, error) {
	if m.GetSecurityGroupFunc != nil {
		return m.GetSecurityGroupFunc(ctx, name, vpcID)
	}
	return nil, nil
}

// DeleteSecurityGroup mocks security group deletion.
func (m *MockClient) DeleteSecurityGroup(ctx context.Context, groupID string) error {
	if m.DeleteSecurityGroupFunc != nil {
		return m.DeleteSecurityGroupFunc(ctx, groupID)
	}
	return nil
}

// EnsureInstance mocks instance launch.
func (m *MockClient) EnsureInstance(ctx context.Context, opts InstanceOpts) (*Instance, error) {
	if m.EnsureInstanceFunc != nil {
		return m.EnsureInstanceFunc(ctx, opts)
	}
	return &Instance{ID: "i-mock", Name: opts.Name, VPCID: "vpc-mock", State: "running", Created: true}, nil
}

// GetInstanceByName mocks instance lookup.
func (m *MockClient) GetInstanceByName(ctx context.Context, name string) (*Instance, error) {
	if m.GetInstanceByNameFunc != nil {
		return m.GetInstanceByNameFunc(ctx, name)
	}
	return nil, nil
}

// TerminateInstance mocks instance termination.
func (m *MockClient) TerminateInstance(ctx context.Context, instanceID string) error {
	if m.TerminateInstanceFunc != nil {
		return m.TerminateInstanceFunc(ctx, instanceID)
	}
	return nil
}

// EnsureDBInstance mocks database creation.
func (m *MockClient) EnsureDBInstance(ctx context.Context, opts DBInstanceOpts) (*DBInstance, error) {
	if m.EnsureDBInstanceFunc != nil {
		return m.EnsureDBInstanceFunc(ctx, opts)
	}
	return &DBInstance{Identifier: opts.Identifier, Status: "creating", Created: true}, nil
}

// GetDBInstance mocks database lookup.
func (m *MockClient) GetDBInstance(ctx context.Context, identifier string) (*DBInstance, error) {
	if m.GetDBInstanceFunc != nil {
		return m.GetDBInstanceFunc(ctx, identifier)
	}
	return nil, nil
}

// DeleteDBInstance mocks database deletion.
func (m *MockClient) DeleteDBInstance(ctx context.Context, identifier string) error {
	if m.DeleteDBInstanceFunc != nil {
		return m.DeleteDBInstanceFunc(ctx, identifier)
	}
	return nil
}

// EnsureLoadBalancer mocks load balancer creation.
func (m *MockClient) EnsureLoadBalancer(ctx context.Context, opts LoadBalancerOpts) (*LoadBalancer, error) {
	if m.EnsureLoadBalancerFunc != nil {
		return m.EnsureLoadBalancerFunc(ctx, opts)
	}
	return &LoadBalancer{
		ARN:     "arn:aws:elasticloadbalancing:mock:loadbalancer/app/" + opts.Name,
		Name:    opts.Name,
		DNSName: opts.Name + ".elb.mock",
		Created: true,
	}, nil
}

// EnsureTargetGroup mocks target group creation.
func (m *MockClient) EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error) {
	if m.EnsureTargetGroupFunc != nil {
		return m.EnsureTargetGroupFunc(ctx, opts)
	}
	return &TargetGroup{
		ARN:     "arn:aws:elasticloadbalancing:mock:targetgroup/" + opts.Name,
		Name:    opts.Name,
		VPCID:   opts.VPCID,
		Created: true,
	}, nil
}

// RegisterTarget mocks target registration.
func (m *MockClient) RegisterTarget(ctx context.Context, targetGroupARN, instanceID string) error {
	if m.RegisterTargetFunc != nil {
		return m.RegisterTargetFunc(ctx, targetGroupARN, instanceID)
	}
	return nil
}

// DeregisterTarget mocks target deregistration.
func (m *MockClient) DeregisterTarget(ctx context.Context, targetGroupARN, instanceID string) error {
	if m.DeregisterTargetFunc != nil {
		return m.DeregisterTargetFunc(ctx, targetGroupARN, instanceID)
	}
	return nil
}

// EnsureListener mocks listener creation.
func (m *MockClient) EnsureListener(ctx context.Context, opts ListenerOpts) (*Listener, error) {
	if m.EnsureListenerFunc != nil {
		return m.EnsureListenerFunc(ctx, opts)
	}
	return &Listener{ARN: opts.LoadBalancerARN + "/listener", Port: opts.Port, Created: true}, nil
}

// GetLoadBalancer mocks load balancer lookup.
func (m *MockClient) GetLoadBalancer(ctx context.Context, name string) (*LoadBalancer, error) {
	if m.GetLoadBalancerFunc != nil {
		return m.GetLoadBalancerFunc(ctx, name)
	}
	return nil, nil
}

// GetTargetGroup mocks target group lookup.
func (m *MockClient) GetTargetGroup(ctx context.Context, name string) (*TargetGroup, error) {
	if m.GetTargetGroupFunc != nil {
		return m.GetTargetGroupFunc(ctx, name)
	}
	return nil, nil
}

// DeleteListener mocks listener deletion.
func (m *MockClient) DeleteListener(ctx context.Context, listenerARN string) error {
	if m.DeleteListenerFunc != nil {
		return m.DeleteListenerFunc(ctx, listenerARN)
	}
	return nil
}

// DeleteLoadBalancer mocks load balancer deletion.
func (m *MockClient) DeleteLoadBalancer(ctx context.Context, loadBalancerARN string) error {
	if m.DeleteLoadBalancerFunc != nil {
		return m.DeleteLoadBalancerFunc(ctx, loadBalancerARN)
	}
	return nil
}

// DeleteTargetGroup mocks target group deletion.
func (m *MockClient) DeleteTargetGroup(ctx context.Context, targetGroupARN string) error {
	if m.DeleteTargetGroupFunc != nil {
		return m.DeleteTargetGroupFunc(ctx, targetGroupARN)
	}
	return nil
}

// EnsureAutoScalingGroup mocks Auto Scaling group creation.
func (m *MockClient) EnsureAutoScalingGroup(ctx context.Context, opts AutoScalingGroupOpts) (*AutoScalingGroup, error) {
	if m.EnsureAutoScalingGroupFunc != nil {
		return m.EnsureAutoScalingGroupFunc(ctx, opts)
	}
	return &AutoScalingGroup{Name: opts.Name, MinSize: opts.MinSize, MaxSize: opts.MaxSize, Created: true}, nil
}

// GetAutoScalingGroup mocks Auto Scaling group lookup.
func (m *MockClient) GetAutoScalingGroup(ctx context.Context, name string) (*AutoScalingGroup, error) {
	if m.GetAutoScalingGroupFunc != nil {
		return m.GetAutoScalingGroupFunc(ctx, name)
	}
	return nil, nil
}

// DeleteAutoScalingGroup mocks Auto Scaling group deletion.
func (m *MockClient) DeleteAutoScalingGroup(ctx context.Context, name string) error {
	if m.DeleteAutoScalingGroupFunc != nil {
		return m.DeleteAutoScalingGroupFunc(ctx, name)
	}
	return nil
}

// CallerIdentity mocks the STS identity lookup.
func (m *MockClient) CallerIdentity(ctx context.Context) (*Identity, error) {
	if m.CallerIdentityFunc != nil {
		return m.CallerIdentityFunc(ctx)
	}
	return &Identity{Account: "123456789012", ARN: "arn:aws:iam::123456789012:user/mock", UserID: "AIDAMOCK"}, nil
}

// ImageExists mocks the image check.
func (m *MockClient) ImageExists(ctx context.Context, imageID string) (bool, error) {
	if m.ImageExistsFunc != nil {
		return m.ImageExistsFunc(ctx, imageID)
	}
	return true, nil
}

// SubnetsExist mocks the subnet check.
func (m *MockClient) SubnetsExist(ctx context.Context, subnetIDs []string) ([]string, error) {
	if m.SubnetsExistFunc != nil {
		return m.SubnetsExistFunc(ctx, subnetIDs)
	}
	return nil, nil
}

// LaunchConfigurationExists mocks the launch configuration check.
func (m *MockClient) LaunchConfigurationExists(ctx context.Context, name string) (bool, error) {
	if m.LaunchConfigurationExistsFunc != nil {
		return m.LaunchConfigurationExistsFunc(ctx, name)
	}
	return true, nil
}
