package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidProtocols lists the listener/target group protocols accepted here.
var ValidProtocols = map[string]bool{
	"HTTP":  true,
	"HTTPS": true,
}

// Validate checks the configuration for errors the provider would reject
// anyway, so they surface before any resource is created.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}

	if err := c.validateSecurityGroup(); err != nil {
		return fmt.Errorf("security group validation failed: %w", err)
	}

	if err := c.validateInstance(); err != nil {
		return fmt.Errorf("instance validation failed: %w", err)
	}

	if err := c.validateDatabase(); err != nil {
		return fmt.Errorf("database validation failed: %w", err)
	}

	if err := c.validateLoadBalancing(); err != nil {
		return fmt.Errorf("load balancer validation failed: %w", err)
	}

	if err := c.validateAutoScaling(); err != nil {
		return fmt.Errorf("autoscaling validation failed: %w", err)
	}

	if c.Outputs.S3.Enabled() && c.Outputs.S3.Key == "" {
		return fmt.Errorf("outputs.s3.key is required when outputs.s3.bucket is set")
	}

	return nil
}

func (c *Config) validateSecurityGroup() error {
	sg := c.SecurityGroup
	if sg.Name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.HasPrefix(strings.ToLower(sg.Name), "sg-") {
		return fmt.Errorf("name %q must not start with sg-", sg.Name)
	}
	if err := validatePort(sg.IngressPort); err != nil {
		return fmt.Errorf("ingress_port: %w", err)
	}
	if _, _, err := net.ParseCIDR(sg.IngressCIDR); err != nil {
		return fmt.Errorf("invalid ingress_cidr %q: %w", sg.IngressCIDR, err)
	}
	switch sg.IngressProtocol {
	case "tcp", "udp", "icmp", "-1":
	default:
		return fmt.Errorf("invalid ingress_protocol %q: must be tcp, udp, icmp or -1", sg.IngressProtocol)
	}
	return nil
}

func (c *Config) validateInstance() error {
	if c.Instance.ImageID == "" {
		return fmt.Errorf("image_id is required")
	}
	if !strings.HasPrefix(c.Instance.ImageID, "ami-") {
		return fmt.Errorf("invalid image_id %q: must start with ami-", c.Instance.ImageID)
	}
	if c.Instance.InstanceType == "" {
		return fmt.Errorf("instance_type is required")
	}
	if c.Instance.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	db := c.Database
	if db.Identifier == "" {
		return fmt.Errorf("identifier is required")
	}
	if db.Engine == "" {
		return fmt.Errorf("engine is required")
	}
	if db.InstanceClass == "" {
		return fmt.Errorf("instance_class is required")
	}
	if db.MasterUsername == "" {
		return fmt.Errorf("master_username is required")
	}
	if db.MasterPassword == "" {
		return fmt.Errorf("master_password is required (or set %s)", DBPasswordEnvVar)
	}
	if db.AllocatedStorage < 0 {
		return fmt.Errorf("allocated_storage must be positive, got %d", db.AllocatedStorage)
	}
	return nil
}

func (c *Config) validateLoadBalancing() error {
	if c.LoadBalancer.Name == "" {
		return fmt.Errorf("name is required")
	}

	// An application load balancer needs subnets in at least two
	// availability zones. Zones can only be checked remotely, but two
	// distinct subnets is the minimum the call accepts.
	distinct := make(map[string]bool)
	for _, s := range c.LoadBalancer.Subnets {
		if s == "" {
			return fmt.Errorf("subnets must not contain empty entries")
		}
		distinct[s] = true
	}
	if len(distinct) < 2 {
		return fmt.Errorf("at least two distinct subnets are required, got %d", len(distinct))
	}

	if c.TargetGroup.Name == "" {
		return fmt.Errorf("target_group.name is required")
	}
	if !ValidProtocols[c.TargetGroup.Protocol] {
		return fmt.Errorf("invalid target_group.protocol %q", c.TargetGroup.Protocol)
	}
	if err := validatePort(c.TargetGroup.Port); err != nil {
		return fmt.Errorf("target_group.port: %w", err)
	}
	if !ValidProtocols[c.Listener.Protocol] {
		return fmt.Errorf("invalid listener.protocol %q", c.Listener.Protocol)
	}
	if c.Listener.Protocol == "HTTPS" {
		return fmt.Errorf("listener.protocol HTTPS requires a certificate, which is not supported")
	}
	if err := validatePort(c.Listener.Port); err != nil {
		return fmt.Errorf("listener.port: %w", err)
	}
	return nil
}

func (c *Config) validateAutoScaling() error {
	as := c.AutoScaling
	if as.Name == "" {
		return fmt.Errorf("name is required")
	}
	if as.LaunchConfigurationName == "" {
		return fmt.Errorf("launch_configuration_name is required")
	}
	if as.MinSize < 0 {
		return fmt.Errorf("min_size must be non-negative, got %d", as.MinSize)
	}
	if as.MaxSize < as.MinSize {
		return fmt.Errorf("max_size (%d) must be >= min_size (%d)", as.MaxSize, as.MinSize)
	}
	return nil
}

func validatePort(port int32) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", port)
	}
	return nil
}
