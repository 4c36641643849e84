package provisioning

import (
	"fmt"
	"time"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/outputs"
	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
)

// ErrMissingDependency is returned when a phase runs before the identifier
// it consumes has been produced.
var ErrMissingDependency = aws_internal.ErrMissingDependency

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Security group phase
	SecurityGroupID string

	// Instance phase
	InstanceID    string
	InstanceVPCID string

	// Database phase
	DBInstanceID string

	// Load balancing phase
	LoadBalancerARN     string
	LoadBalancerDNSName string
	TargetGroupARN      string
	ListenerARN         string

	// Autoscaling phase
	AutoScalingGroupName string
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Outputs builds the outputs record for the current state.
func (s *State) Outputs(stack, region, runID string, now time.Time) *outputs.Record {
	return &outputs.Record{
		Stack:                stack,
		Region:               region,
		RunID:                runID,
		CreatedAt:            now,
		SecurityGroupID:      s.SecurityGroupID,
		InstanceID:           s.InstanceID,
		InstanceVPCID:        s.InstanceVPCID,
		DBInstanceID:         s.DBInstanceID,
		LoadBalancerARN:      s.LoadBalancerARN,
		LoadBalancerDNSName:  s.LoadBalancerDNSName,
		TargetGroupARN:       s.TargetGroupARN,
		ListenerARN:          s.ListenerARN,
		AutoScalingGroupName: s.AutoScalingGroupName,
	}
}

// RequireID returns ErrMissingDependency when value is empty.
func RequireID(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s has not been produced: %w", field, ErrMissingDependency)
	}
	return nil
}
