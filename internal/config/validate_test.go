package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing region",
			mutate:  func(c *Config) { c.Region = "" },
			wantErr: "region is required",
		},
		{
			name:    "security group name with sg- prefix",
			mutate:  func(c *Config) { c.SecurityGroup.Name = "sg-web" },
			wantErr: "must not start with sg-",
		},
		{
			name:    "invalid ingress cidr",
			mutate:  func(c *Config) { c.SecurityGroup.IngressCIDR = "0.0.0.0" },
			wantErr: "invalid ingress_cidr",
		},
		{
			name:    "invalid ingress protocol",
			mutate:  func(c *Config) { c.SecurityGroup.IngressProtocol = "sctp" },
			wantErr: "invalid ingress_protocol",
		},
		{
			name:    "ingress port out of range",
			mutate:  func(c *Config) { c.SecurityGroup.IngressPort = 70000 },
			wantErr: "out of range",
		},
		{
			name:    "image id without ami- prefix",
			mutate:  func(c *Config) { c.Instance.ImageID = "image-1" },
			wantErr: "must start with ami-",
		},
		{
			name:    "empty password",
			mutate:  func(c *Config) { c.Database.MasterPassword = "" },
			wantErr: "master_password is required",
		},
		{
			name:    "single subnet",
			mutate:  func(c *Config) { c.LoadBalancer.Subnets = []string{"subnet-a"} },
			wantErr: "at least two distinct subnets",
		},
		{
			name:    "duplicate subnets",
			mutate:  func(c *Config) { c.LoadBalancer.Subnets = []string{"subnet-a", "subnet-a"} },
			wantErr: "at least two distinct subnets",
		},
		{
			name:    "empty subnet entry",
			mutate:  func(c *Config) { c.LoadBalancer.Subnets = []string{"subnet-a", ""} },
			wantErr: "empty entries",
		},
		{
			name:    "unknown target group protocol",
			mutate:  func(c *Config) { c.TargetGroup.Protocol = "TCP" },
			wantErr: "invalid target_group.protocol",
		},
		{
			name:    "https listener",
			mutate:  func(c *Config) { c.Listener.Protocol = "HTTPS" },
			wantErr: "requires a certificate",
		},
		{
			name:    "max below min",
			mutate:  func(c *Config) { c.AutoScaling.MinSize, c.AutoScaling.MaxSize = 3, 2 },
			wantErr: "must be >= min_size",
		},
		{
			name:    "negative min",
			mutate:  func(c *Config) { c.AutoScaling.MinSize = -1 },
			wantErr: "min_size must be non-negative",
		},
		{
			name:    "s3 outputs without key",
			mutate:  func(c *Config) { c.Outputs.S3.Bucket = "state" },
			wantErr: "outputs.s3.key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRollbackConfig_IsEnabled(t *testing.T) {
	t.Parallel()
	enabled, disabled := true, false

	assert.True(t, RollbackConfig{}.IsEnabled())
	assert.True(t, RollbackConfig{Enabled: &enabled}.IsEnabled())
	assert.False(t, RollbackConfig{Enabled: &disabled}.IsEnabled())
}
