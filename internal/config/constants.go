package config

// Default topology values. A config file only needs to set what differs.
const (
	DefaultName   = "my"
	DefaultRegion = "us-east-1"

	DefaultSecurityGroupName        = "my-security-group"
	DefaultSecurityGroupDescription = "My security group"
	DefaultIngressProtocol          = "tcp"
	DefaultIngressPort              = 80
	DefaultIngressCIDR              = "0.0.0.0/0"

	DefaultImageID      = "ami-0c55b159cbfafe1f0"
	DefaultInstanceType = "t2.micro"

	DefaultDBIdentifier       = "my-db-instance"
	DefaultDBEngine           = "mysql"
	DefaultDBInstanceClass    = "db.t2.micro"
	DefaultDBMasterUsername   = "myuser"
	DefaultDBMasterPassword   = "mypassword"
	DefaultDBAllocatedStorage = 20

	DefaultLoadBalancerName = "my-load-balancer"
	DefaultTargetGroupName  = "my-target-group"
	DefaultHTTPProtocol     = "HTTP"
	DefaultHTTPPort         = 80

	DefaultAutoScalingGroupName    = "my-auto-scaling-group"
	DefaultLaunchConfigurationName = "my-launch-configuration"
	DefaultAutoScalingMinSize      = 1
	DefaultAutoScalingMaxSize      = 4

	// DBPasswordEnvVar overrides database.master_password when set.
	DBPasswordEnvVar = "CLOUDTEMPLATE_DB_PASSWORD"
)

// DefaultSubnets are the two subnets the load balancer is spread across.
var DefaultSubnets = []string{"subnet-1234abcd", "subnet-5678efgh"}
