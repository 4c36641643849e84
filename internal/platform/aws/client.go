package aws

import "context"

// SecurityGroup is an EC2 security group.
type SecurityGroup struct {
	ID      string
	Name    string
	VPCID   string
	Created bool
}

// Instance is an EC2 instance.
type Instance struct {
	ID       string
	Name     string
	VPCID    string
	SubnetID string
	State    string
	Created  bool
}

// DBInstance is an RDS database instance.
type DBInstance struct {
	Identifier string
	Status     string
	Endpoint   string
	Created    bool
}

// LoadBalancer is an application load balancer.
type LoadBalancer struct {
	ARN     string
	Name    string
	DNSName string
	VPCID   string
	Created bool
}

// TargetGroup is a load balancer target group.
type TargetGroup struct {
	ARN     string
	Name    string
	VPCID   string
	Created bool
}

// Listener is a load balancer listener.
type Listener struct {
	ARN     string
	Port    int32
	Created bool
}

// AutoScalingGroup is an Auto Scaling group.
type AutoScalingGroup struct {
	Name    string
	MinSize int32
	MaxSize int32
	Created bool
}

// Identity describes the caller the SDK authenticated as.
type Identity struct {
	Account string
	ARN     string
	UserID  string
}

// SecurityGroupOpts holds the parameters for ensuring a security group.
type SecurityGroupOpts struct {
	Name        string
	Description string
	VPCID       string // empty: default VPC
	Tags        map[string]string
}

// IngressRule is a single inbound rule.
type IngressRule struct {
	Protocol string
	Port     int32
	CIDR     string
}

// InstanceOpts holds the parameters for ensuring an instance.
type InstanceOpts struct {
	// Name is written to the Name tag and used to find the instance again.
	Name            string
	ImageID         string
	InstanceType    string
	SecurityGroupID string
	SubnetID        string
	Tags            map[string]string
}

// DBInstanceOpts holds the parameters for ensuring a database instance.
type DBInstanceOpts struct {
	Identifier       string
	Engine           string
	InstanceClass    string
	MasterUsername   string
	MasterPassword   string
	AllocatedStorage int32
	Tags             map[string]string
}

// LoadBalancerOpts holds the parameters for ensuring a load balancer.
type LoadBalancerOpts struct {
	Name            string
	Subnets         []string
	SecurityGroupID string
	Tags            map[string]string
}

// TargetGroupOpts holds the parameters for ensuring a target group.
type TargetGroupOpts struct {
	Name     string
	Protocol string
	Port     int32
	VPCID    string
	Tags     map[string]string
}

// ListenerOpts holds the parameters for ensuring a listener.
type ListenerOpts struct {
	LoadBalancerARN string
	Protocol        string
	Port            int32
	TargetGroupARN  string
}

// AutoScalingGroupOpts holds the parameters for ensuring an Auto Scaling group.
type AutoScalingGroupOpts struct {
	Name                    string
	LaunchConfigurationName string
	MinSize                 int32
	MaxSize                 int32
	VPCZoneIdentifier       []string
	Tags                    map[string]string
}

// SecurityGroupManager defines the interface for managing security groups.
type SecurityGroupManager interface {
	EnsureSecurityGroup(ctx context.Context, opts SecurityGroupOpts) (*SecurityGroup, error)
	// AuthorizeIngress adds the rule to the group. An identical existing rule is success.
	AuthorizeIngress(ctx context.Context, groupID string, rule IngressRule) error
	// GetSecurityGroup returns the group with the given name, or nil if not found.
	GetSecurityGroup(ctx context.Context, name, vpcID string) (*SecurityGroup, error)
	DeleteSecurityGroup(ctx context.Context, groupID string) error
}

// InstanceManager defines the interface for managing EC2 instances.
type InstanceManager interface {
	// EnsureInstance returns the pending or running instance tagged with
	// opts.Name, or launches one and waits until it is running.
	EnsureInstance(ctx context.Context, opts InstanceOpts) (*Instance, error)
	// GetInstanceByName returns the live instance with the given Name tag, or nil if not found.
	GetInstanceByName(ctx context.Context, name string) (*Instance, error)
	TerminateInstance(ctx context.Context, instanceID string) error
}

// DatabaseManager defines the interface for managing RDS instances.
type DatabaseManager interface {
	EnsureDBInstance(ctx context.Context, opts DBInstanceOpts) (*DBInstance, error)
	// GetDBInstance returns the database instance, or nil if not found.
	GetDBInstance(ctx context.Context, identifier string) (*DBInstance, error)
	DeleteDBInstance(ctx context.Context, identifier string) error
}

// LoadBalancerManager defines the interface for managing load balancers,
// target groups, target registrations and listeners.
type LoadBalancerManager interface {
	EnsureLoadBalancer(ctx context.Context, opts LoadBalancerOpts) (*LoadBalancer, error)
	EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error)
	// RegisterTarget registers the instance with the target group. Registering
	// an already registered target is a no-op at the provider.
	RegisterTarget(ctx context.Context, targetGroupARN, instanceID string) error
	DeregisterTarget(ctx context.Context, targetGroupARN, instanceID string) error
	EnsureListener(ctx context.Context, opts ListenerOpts) (*Listener, error)
	// GetLoadBalancer returns the load balancer with the given name, or nil if not found.
	GetLoadBalancer(ctx context.Context, name string) (*LoadBalancer, error)
	// GetTargetGroup returns the target group with the given name, or nil if not found.
	GetTargetGroup(ctx context.Context, name string) (*TargetGroup, error)
	DeleteListener(ctx context.Context, listenerARN string) error
	// DeleteLoadBalancer deletes the load balancer, its listeners with it, and
	// waits until it is gone.
	DeleteLoadBalancer(ctx context.Context, loadBalancerARN string) error
	DeleteTargetGroup(ctx context.Context, targetGroupARN string) error
}

// AutoScalingManager defines the interface for managing Auto Scaling groups.
type AutoScalingManager interface {
	EnsureAutoScalingGroup(ctx context.Context, opts AutoScalingGroupOpts) (*AutoScalingGroup, error)
	// GetAutoScalingGroup returns the group with the given name, or nil if not found.
	GetAutoScalingGroup(ctx context.Context, name string) (*AutoScalingGroup, error)
	DeleteAutoScalingGroup(ctx context.Context, name string) error
}

// PreflightChecker defines read-only checks run before provisioning.
type PreflightChecker interface {
	CallerIdentity(ctx context.Context) (*Identity, error)
	ImageExists(ctx context.Context, imageID string) (bool, error)
	SubnetsExist(ctx context.Context, subnetIDs []string) (missing []string, err error)
	LaunchConfigurationExists(ctx context.Context, name string) (bool, error)
}

// InfrastructureManager combines all infrastructure management interfaces.
type InfrastructureManager interface {
	SecurityGroupManager
	InstanceManager
	DatabaseManager
	LoadBalancerManager
	AutoScalingManager
	PreflightChecker
}
