package config

// Config holds the desired topology for one account/region.
type Config struct {
	// Name is a short prefix used for tags and the outputs record.
	Name    string `yaml:"name"`
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"` // optional shared-config profile

	SecurityGroup SecurityGroupConfig `yaml:"security_group"`
	Instance      InstanceConfig      `yaml:"instance"`
	Database      DatabaseConfig      `yaml:"database"`
	LoadBalancer  LoadBalancerConfig  `yaml:"load_balancer"`
	TargetGroup   TargetGroupConfig   `yaml:"target_group"`
	Listener      ListenerConfig      `yaml:"listener"`
	AutoScaling   AutoScalingConfig   `yaml:"auto_scaling"`

	Rollback RollbackConfig `yaml:"rollback"`
	Outputs  OutputsConfig  `yaml:"outputs"`

	// Tags are added to every resource that supports tagging.
	Tags map[string]string `yaml:"tags"`
}

// SecurityGroupConfig describes the security group and its single ingress rule.
type SecurityGroupConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// VPCID places the group in a specific VPC. Empty means the default VPC.
	VPCID           string `yaml:"vpc_id"`
	IngressProtocol string `yaml:"ingress_protocol"`
	IngressPort     int32  `yaml:"ingress_port"`
	IngressCIDR     string `yaml:"ingress_cidr"`
}

// InstanceConfig describes the compute instance.
type InstanceConfig struct {
	// Name is written to the instance's Name tag and used to find it again.
	Name         string `yaml:"name"`
	ImageID      string `yaml:"image_id"`
	InstanceType string `yaml:"instance_type"`
	SubnetID     string `yaml:"subnet_id"`
}

// DatabaseConfig describes the managed database instance.
type DatabaseConfig struct {
	Identifier       string `yaml:"identifier"`
	Engine           string `yaml:"engine"`
	InstanceClass    string `yaml:"instance_class"`
	MasterUsername   string `yaml:"master_username"`
	MasterPassword   string `yaml:"master_password"`
	AllocatedStorage int32  `yaml:"allocated_storage"` // GiB
}

// LoadBalancerConfig describes the application load balancer.
type LoadBalancerConfig struct {
	Name    string   `yaml:"name"`
	Subnets []string `yaml:"subnets"`
}

// TargetGroupConfig describes the target group the instance is registered in.
type TargetGroupConfig struct {
	Name     string `yaml:"name"`
	Protocol string `yaml:"protocol"`
	Port     int32  `yaml:"port"`
	// VPCID must be the instance's VPC. Empty means "use the instance's VPC".
	VPCID string `yaml:"vpc_id"`
}

// ListenerConfig describes the load balancer listener.
type ListenerConfig struct {
	Protocol string `yaml:"protocol"`
	Port     int32  `yaml:"port"`
}

// AutoScalingConfig describes the autoscaling group.
type AutoScalingConfig struct {
	Name string `yaml:"name"`
	// LaunchConfigurationName must already exist; it is not created here.
	LaunchConfigurationName string `yaml:"launch_configuration_name"`
	MinSize                 int32  `yaml:"min_size"`
	MaxSize                 int32  `yaml:"max_size"`
	// VPCZoneIdentifier lists subnets for the group. Optional.
	VPCZoneIdentifier []string `yaml:"vpc_zone_identifier"`
}

// RollbackConfig controls the compensating-action stack.
type RollbackConfig struct {
	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled reports whether rollback is on.
func (r RollbackConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// OutputsConfig controls where the outputs record is written after apply.
type OutputsConfig struct {
	Path string          `yaml:"path"`
	S3   OutputsS3Config `yaml:"s3"`
}

// OutputsS3Config describes an S3 (or S3-compatible) location for outputs.
type OutputsS3Config struct {
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Enabled reports whether an S3 destination is configured.
func (s OutputsS3Config) Enabled() bool {
	return s.Bucket != ""
}

// Default returns a config populated with every default value.
func Default() *Config {
	cfg := newConfig()
	cfg.ApplyDefaults()
	return cfg
}

// newConfig returns a config holding the defaults of fields where zero is a
// valid value. Those cannot be filled after decoding, so documents are
// decoded on top of it.
func newConfig() *Config {
	return &Config{
		Database:    DatabaseConfig{AllocatedStorage: DefaultDBAllocatedStorage},
		AutoScaling: AutoScalingConfig{MinSize: DefaultAutoScalingMinSize},
	}
}

// ApplyDefaults fills every unset field with its default. An explicit zero
// allocated_storage or min_size is kept.
func (c *Config) ApplyDefaults() {
	setString(&c.Name, DefaultName)
	setString(&c.Region, DefaultRegion)

	sg := &c.SecurityGroup
	setString(&sg.Name, DefaultSecurityGroupName)
	setString(&sg.Description, DefaultSecurityGroupDescription)
	setString(&sg.IngressProtocol, DefaultIngressProtocol)
	setInt32(&sg.IngressPort, DefaultIngressPort)
	setString(&sg.IngressCIDR, DefaultIngressCIDR)

	inst := &c.Instance
	setString(&inst.Name, c.Name+"-instance")
	setString(&inst.ImageID, DefaultImageID)
	setString(&inst.InstanceType, DefaultInstanceType)

	db := &c.Database
	setString(&db.Identifier, DefaultDBIdentifier)
	setString(&db.Engine, DefaultDBEngine)
	setString(&db.InstanceClass, DefaultDBInstanceClass)
	setString(&db.MasterUsername, DefaultDBMasterUsername)
	setString(&db.MasterPassword, DefaultDBMasterPassword)

	lb := &c.LoadBalancer
	setString(&lb.Name, DefaultLoadBalancerName)
	if len(lb.Subnets) == 0 {
		lb.Subnets = append([]string(nil), DefaultSubnets...)
	}

	tg := &c.TargetGroup
	setString(&tg.Name, DefaultTargetGroupName)
	setString(&tg.Protocol, DefaultHTTPProtocol)
	setInt32(&tg.Port, DefaultHTTPPort)

	ln := &c.Listener
	setString(&ln.Protocol, DefaultHTTPProtocol)
	setInt32(&ln.Port, DefaultHTTPPort)

	as := &c.AutoScaling
	setString(&as.Name, DefaultAutoScalingGroupName)
	setString(&as.LaunchConfigurationName, DefaultLaunchConfigurationName)
	setInt32(&as.MaxSize, DefaultAutoScalingMaxSize)
}

// UsesDefaultPassword reports whether the database password is the built-in one.
func (c *Config) UsesDefaultPassword() bool {
	return c.Database.MasterPassword == DefaultDBMasterPassword
}

func setString(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

func setInt32(field *int32, def int32) {
	if *field == 0 {
		*field = def
	}
}
