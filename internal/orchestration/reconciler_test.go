package orchestration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/outputs"
	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a MockClient that records every call with the identifiers it
// received.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// newRecordingMock returns a mock whose nine creation calls succeed with the
// fixed identifiers sg-1, i-1, db-1, arn:lb-1 and arn:tg-1.
func newRecordingMock(rec *recorder) *aws_internal.MockClient {
	return &aws_internal.MockClient{
		EnsureSecurityGroupFunc: func(_ context.Context, opts aws_internal.SecurityGroupOpts) (*aws_internal.SecurityGroup, error) {
			rec.record("EnsureSecurityGroup(%s)", opts.Name)
			return &aws_internal.SecurityGroup{ID: "sg-1", Name: opts.Name, Created: true}, nil
		},
		AuthorizeIngressFunc: func(_ context.Context, groupID string, rule aws_internal.IngressRule) error {
			rec.record("AuthorizeIngress(%s,%s/%d,%s)", groupID, rule.Protocol, rule.Port, rule.CIDR)
			return nil
		},
		EnsureInstanceFunc: func(_ context.Context, opts aws_internal.InstanceOpts) (*aws_internal.Instance, error) {
			rec.record("EnsureInstance(%s)", opts.SecurityGroupID)
			return &aws_internal.Instance{ID: "i-1", VPCID: "vpc-1", Created: true}, nil
		},
		EnsureDBInstanceFunc: func(_ context.Context, opts aws_internal.DBInstanceOpts) (*aws_internal.DBInstance, error) {
			rec.record("EnsureDBInstance(%s)", opts.Identifier)
			return &aws_internal.DBInstance{Identifier: "db-1", Created: true}, nil
		},
		EnsureLoadBalancerFunc: func(_ context.Context, opts aws_internal.LoadBalancerOpts) (*aws_internal.LoadBalancer, error) {
			rec.record("EnsureLoadBalancer(%s)", opts.SecurityGroupID)
			return &aws_internal.LoadBalancer{ARN: "arn:lb-1", DNSName: "lb-1.example", Created: true}, nil
		},
		EnsureTargetGroupFunc: func(_ context.Context, opts aws_internal.TargetGroupOpts) (*aws_internal.TargetGroup, error) {
			rec.record("EnsureTargetGroup(%s)", opts.VPCID)
			return &aws_internal.TargetGroup{ARN: "arn:tg-1", Created: true}, nil
		},
		RegisterTargetFunc: func(_ context.Context, targetGroupARN, instanceID string) error {
			rec.record("RegisterTarget(%s,%s)", targetGroupARN, instanceID)
			return nil
		},
		EnsureListenerFunc: func(_ context.Context, opts aws_internal.ListenerOpts) (*aws_internal.Listener, error) {
			rec.record("EnsureListener(%s,%s)", opts.LoadBalancerARN, opts.TargetGroupARN)
			return &aws_internal.Listener{ARN: "arn:ln-1", Port: opts.Port, Created: true}, nil
		},
		EnsureAutoScalingGroupFunc: func(_ context.Context, opts aws_internal.AutoScalingGroupOpts) (*aws_internal.AutoScalingGroup, error) {
			rec.record("EnsureAutoScalingGroup(%s,%s)", opts.Name, opts.LaunchConfigurationName)
			return &aws_internal.AutoScalingGroup{Name: opts.Name, Created: true}, nil
		},
		DeleteSecurityGroupFunc: func(_ context.Context, id string) error {
			rec.record("DeleteSecurityGroup(%s)", id)
			return nil
		},
		TerminateInstanceFunc: func(_ context.Context, id string) error {
			rec.record("TerminateInstance(%s)", id)
			return nil
		},
		DeleteDBInstanceFunc: func(_ context.Context, id string) error {
			rec.record("DeleteDBInstance(%s)", id)
			return nil
		},
		DeleteLoadBalancerFunc: func(_ context.Context, arn string) error {
			rec.record("DeleteLoadBalancer(%s)", arn)
			return nil
		},
		DeleteTargetGroupFunc: func(_ context.Context, arn string) error {
			rec.record("DeleteTargetGroup(%s)", arn)
			return nil
		},
		DeleteListenerFunc: func(_ context.Context, arn string) error {
			rec.record("DeleteListener(%s)", arn)
			return nil
		},
	}
}

func testTimeouts() *config.Timeouts {
	return &config.Timeouts{
		InstanceRunning:   time.Second,
		Delete:            time.Second,
		Rollback:          5 * time.Second,
		RetryMaxAttempts:  1,
		RetryInitialDelay: time.Millisecond,
	}
}

func newTestReconciler(mock aws_internal.InfrastructureManager, cfg *config.Config, opts ...Option) *Reconciler {
	opts = append([]Option{
		WithObserver(provisioning.NewLogrObserver(logr.Discard())),
		WithTimeouts(testTimeouts()),
	}, opts...)
	return NewReconciler(mock, cfg, opts...)
}

var nineCalls = []string{
	"EnsureSecurityGroup(my-security-group)",
	"AuthorizeIngress(sg-1,tcp/80,0.0.0.0/0)",
	"EnsureInstance(sg-1)",
	"EnsureDBInstance(my-db-instance)",
	"EnsureLoadBalancer(sg-1)",
	"EnsureTargetGroup(vpc-1)",
	"RegisterTarget(arn:tg-1,i-1)",
	"EnsureListener(arn:lb-1,arn:tg-1)",
	"EnsureAutoScalingGroup(my-auto-scaling-group,my-launch-configuration)",
}

func TestReconcile_EndToEnd(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	r := newTestReconciler(newRecordingMock(rec), config.Default())

	record, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, nineCalls, rec.Calls())
	assert.Equal(t, "sg-1", record.SecurityGroupID)
	assert.Equal(t, "i-1", record.InstanceID)
	assert.Equal(t, "db-1", record.DBInstanceID)
	assert.Equal(t, "arn:lb-1", record.LoadBalancerARN)
	assert.Equal(t, "arn:tg-1", record.TargetGroupARN)
	assert.Equal(t, "arn:ln-1", record.ListenerARN)
	assert.Equal(t, "my-auto-scaling-group", record.AutoScalingGroupName)
	assert.Equal(t, "lb-1.example", record.LoadBalancerDNSName)
}

func TestReconcile_SavesOutputs(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "outputs.yaml")
	store := outputs.NewFileStore(path)
	r := newTestReconciler(newRecordingMock(&recorder{}), config.Default(), WithOutputs(store))

	record, err := r.Reconcile(context.Background())
	require.NoError(t, err)

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, record.RunID, saved.RunID)
	assert.Equal(t, "arn:lb-1", saved.LoadBalancerARN)
}

func TestReconcile_FailFast(t *testing.T) {
	t.Parallel()

	providerErr := errors.New("provider fault")

	tests := []struct {
		name      string
		breakStep func(*aws_internal.MockClient)
		wantCalls int
		wantPhase string
	}{
		{
			name: "security group",
			breakStep: func(m *aws_internal.MockClient) {
				m.EnsureSecurityGroupFunc = func(context.Context, aws_internal.SecurityGroupOpts) (*aws_internal.SecurityGroup, error) {
					return nil, providerErr
				}
			},
			wantCalls: 0,
			wantPhase: "security-group phase failed",
		},
		{
			name: "target group",
			breakStep: func(m *aws_internal.MockClient) {
				m.EnsureTargetGroupFunc = func(context.Context, aws_internal.TargetGroupOpts) (*aws_internal.TargetGroup, error) {
					return nil, providerErr
				}
			},
			wantCalls: 5,
			wantPhase: "load-balancing phase failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &recorder{}
			mock := newRecordingMock(rec)
			tt.breakStep(mock)

			cfg := config.Default()
			disabled := false
			cfg.Rollback.Enabled = &disabled

			_, err := newTestReconciler(mock, cfg).Reconcile(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, providerErr)
			assert.Contains(t, err.Error(), tt.wantPhase)
			assert.Equal(t, nineCalls[:tt.wantCalls], rec.Calls())
		})
	}
}

func TestReconcile_RollbackOnFailure(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	mock := newRecordingMock(rec)
	asgErr := errors.New("launch configuration not found")
	mock.EnsureAutoScalingGroupFunc = func(context.Context, aws_internal.AutoScalingGroupOpts) (*aws_internal.AutoScalingGroup, error) {
		return nil, asgErr
	}

	_, err := newTestReconciler(mock, config.Default()).Reconcile(context.Background())
	require.ErrorIs(t, err, asgErr)

	assert.Equal(t, []string{
		"DeleteListener(arn:ln-1)",
		"DeleteTargetGroup(arn:tg-1)",
		"DeleteLoadBalancer(arn:lb-1)",
		"DeleteDBInstance(db-1)",
		"TerminateInstance(i-1)",
		"DeleteSecurityGroup(sg-1)",
	}, rec.Calls()[8:])
}

func TestReconcile_ValidationStopsBeforeRemoteCalls(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	cfg := config.Default()
	cfg.AutoScaling.MinSize = 5
	cfg.AutoScaling.MaxSize = 2

	_, err := newTestReconciler(newRecordingMock(rec), cfg).Reconcile(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation phase failed")
	assert.Empty(t, rec.Calls())
}

func TestPlan_MatchesRunOrder(t *testing.T) {
	t.Parallel()
	rec := &recorder{}
	r := newTestReconciler(newRecordingMock(rec), config.Default())

	steps := r.Plan()
	require.Len(t, steps, 9)
	assert.Empty(t, rec.Calls(), "plan makes no remote calls")

	var phases []string
	for _, s := range steps {
		phases = append(phases, s.Phase)
	}
	assert.Equal(t, []string{
		"security-group", "security-group",
		"instance",
		"database",
		"load-balancing", "load-balancing", "load-balancing", "load-balancing",
		"autoscaling",
	}, phases)

	for _, s := range steps {
		for _, p := range s.Params {
			assert.NotEqual(t, config.DefaultDBMasterPassword, p.Value, "password must not be planned in clear")
		}
	}
}

func TestDestroy_DeletesOutputs(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "outputs.yaml")
	store := outputs.NewFileStore(path)
	require.NoError(t, store.Save(context.Background(), &outputs.Record{Stack: "my"}))

	r := newTestReconciler(&aws_internal.MockClient{}, config.Default(), WithOutputs(store))
	require.NoError(t, r.Destroy(context.Background()))

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, outputs.ErrNotFound)
}

func TestDestroy_KeepsOutputsOnFailure(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "outputs.yaml")
	store := outputs.NewFileStore(path)
	require.NoError(t, store.Save(context.Background(), &outputs.Record{Stack: "my"}))

	mock := &aws_internal.MockClient{
		GetSecurityGroupFunc: func(context.Context, string, string) (*aws_internal.SecurityGroup, error) {
			return &aws_internal.SecurityGroup{ID: "sg-1"}, nil
		},
		DeleteSecurityGroupFunc: func(context.Context, string) error {
			return errors.New("DependencyViolation")
		},
	}
	r := newTestReconciler(mock, config.Default(), WithOutputs(store))
	require.Error(t, r.Destroy(context.Background()))

	_, err := store.Load(context.Background())
	assert.NoError(t, err)
}
