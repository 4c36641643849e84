package outputs

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Record is the outputs of one apply run.
type Record struct {
	Stack     string    `yaml:"stack"`
	Region    string    `yaml:"region"`
	RunID     string    `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`

	SecurityGroupID      string `yaml:"security_group_id"`
	InstanceID           string `yaml:"instance_id"`
	InstanceVPCID        string `yaml:"instance_vpc_id,omitempty"`
	DBInstanceID         string `yaml:"db_instance_id"`
	LoadBalancerARN      string `yaml:"load_balancer_arn"`
	LoadBalancerDNSName  string `yaml:"load_balancer_dns_name,omitempty"`
	TargetGroupARN       string `yaml:"target_group_arn"`
	ListenerARN          string `yaml:"listener_arn"`
	AutoScalingGroupName string `yaml:"auto_scaling_group_name"`
}

// Marshal encodes the record as YAML.
func (r *Record) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal outputs: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a YAML record.
func Unmarshal(data []byte) (*Record, error) {
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal outputs: %w", err)
	}
	return &r, nil
}
