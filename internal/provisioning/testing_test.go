package provisioning

import (
	"context"
	"testing"
	"time"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"
	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
)

// newTestContext returns a context with defaults, a MockClient and a
// recording observer.
func newTestContext(t *testing.T) (*Context, *MockObserver) {
	t.Helper()
	observer := NewMockObserver()
	ctx := NewContext(context.Background(), config.Default(), &aws_internal.MockClient{})
	ctx.Observer = observer
	ctx.Timeouts = &config.Timeouts{
		InstanceRunning:   time.Second,
		Delete:            time.Second,
		Rollback:          5 * time.Second,
		RetryMaxAttempts:  1,
		RetryInitialDelay: time.Millisecond,
	}
	return ctx, observer
}

// phaseFunc adapts a function into a Phase.
type phaseFunc struct {
	name string
	fn   func(*Context) error
}

func (p phaseFunc) Name() string                 { return p.name }
func (p phaseFunc) Provision(ctx *Context) error { return p.fn(ctx) }
