package aws

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/util/retry"
)

// EnsureOperation encapsulates find-or-create logic for any AWS resource.
//
// Usage example:
//
//	func (c *RealClient) EnsureTargetGroup(ctx context.Context, opts TargetGroupOpts) (*TargetGroup, error) {
//	    tg, created, err := (&EnsureOperation[*TargetGroup]{
//	        Name:         opts.Name,
//	        ResourceType: "target group",
//	        Get:          func(ctx context.Context) (*TargetGroup, error) { return c.GetTargetGroup(ctx, opts.Name) },
//	        Create:       func(ctx context.Context) (*TargetGroup, error) { return c.createTargetGroup(ctx, opts) },
//	    }).Execute(ctx)
//	    ...
//	}
type EnsureOperation[T any] struct {
	Name         string
	ResourceType string

	// Get returns the existing resource, or nil when it does not exist.
	Get func(ctx context.Context) (T, error)

	// Create creates the resource.
	Create func(ctx context.Context) (T, error)

	// Validate checks that an existing resource is usable (optional).
	Validate func(resource T) error
}

// Execute returns the existing resource, or creates it. The boolean reports
// whether the resource was created by this call.
func (op *EnsureOperation[T]) Execute(ctx context.Context) (T, bool, error) {
	var zero T

	resource, err := op.Get(ctx)
	if err != nil {
		return zero, false, fmt.Errorf("failed to get %s %q: %w", op.ResourceType, op.Name, err)
	}

	if !isNil(resource) {
		if op.Validate != nil {
			if err := op.Validate(resource); err != nil {
				return zero, false, fmt.Errorf("existing %s %q: %w", op.ResourceType, op.Name, err)
			}
		}
		return resource, false, nil
	}

	resource, err = op.Create(ctx)
	if err != nil {
		return zero, false, fmt.Errorf("failed to create %s %q: %w", op.ResourceType, op.Name, err)
	}
	return resource, true, nil
}

// deleteMaxBackoff caps the delay between delete attempts.
const deleteMaxBackoff = 15 * time.Second

// DeleteOperation encapsulates idempotent deletion of any AWS resource.
// A missing resource is success. Deletes blocked by dependent resources
// are retried with exponential backoff until the delete timeout.
type DeleteOperation struct {
	ID           string
	ResourceType string

	// Delete issues the delete call.
	Delete func(ctx context.Context) error

	// Wait blocks until the resource is gone (optional). It receives the
	// time left of the delete timeout.
	Wait func(ctx context.Context, maxWait time.Duration) error
}

// Execute performs the delete with retry and timeout handling.
func (op *DeleteOperation) Execute(ctx context.Context, client *RealClient) error {
	ctx, cancel := context.WithTimeout(ctx, client.timeouts.Delete)
	defer cancel()

	gone := false
	err := retry.WithExponentialBackoff(ctx, func() error {
		err := op.Delete(ctx)
		switch {
		case err == nil:
			return nil
		case IsNotFound(err):
			gone = true
			return nil
		case IsRetryable(err):
			return err
		default:
			return retry.Fatal(err)
		}
	},
		retry.UntilDone(),
		retry.WithInitialDelay(client.timeouts.RetryInitialDelay),
		retry.WithMaxDelay(deleteMaxBackoff),
		retry.WithOnRetry(func(attempt int, err error) {
			client.logf("Deleting %s %s blocked (attempt %d), retrying: %v", op.ResourceType, op.ID, attempt, err)
		}))
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", op.ResourceType, op.ID, err)
	}

	if gone || op.Wait == nil {
		return nil
	}

	maxWait := client.timeouts.Delete
	if deadline, ok := ctx.Deadline(); ok {
		maxWait = time.Until(deadline)
	}
	if maxWait <= 0 {
		return fmt.Errorf("failed waiting for %s %s deletion: %w", op.ResourceType, op.ID, context.DeadlineExceeded)
	}
	if err := op.Wait(ctx, maxWait); err != nil {
		return fmt.Errorf("failed waiting for %s %s deletion: %w", op.ResourceType, op.ID, err)
	}
	return nil
}

// retryUntilVisible runs call, retrying while the resource it references
// is not found. A freshly created resource id is not visible to every
// endpoint at once.
func (c *RealClient) retryUntilVisible(ctx context.Context, what string, call func(ctx context.Context) error) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		err := call(ctx)
		if err != nil && !IsNotFound(err) {
			return retry.Fatal(err)
		}
		return err
	},
		retry.WithMaxRetries(c.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(c.timeouts.RetryInitialDelay),
		retry.WithOnRetry(func(attempt int, err error) {
			c.logf("%s not visible yet (attempt %d), retrying: %v", what, attempt, err)
		}))
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
