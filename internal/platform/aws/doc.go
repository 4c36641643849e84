// Package aws provides a wrapper around the AWS SDK for Go v2 covering the
// resources of one web-serving stack: a security group, an EC2 instance, an
// RDS instance, an application load balancer with its target group and
// listener, and an Auto Scaling group.
//
// # Architecture
//
//   - client.go: manager interfaces and the domain types they return
//   - api.go: narrow SDK interfaces so tests can inject fakes
//   - real_client.go: RealClient construction and options
//   - operations.go: generic Ensure and Delete operations
//   - security_group.go, instance.go, database.go, load_balancer.go,
//     autoscaling.go: one file per resource family
//   - preflight.go: read-only checks used by the doctor command
//   - errors.go: classification of provider errors
//   - cleanup.go: error accumulation for multi-resource teardown
//
// # Ensure and Delete
//
// Every creation is an ensure: the resource is looked up by its stable name
// (or Name tag for instances) and only created when absent. The returned
// value reports whether it was created by this call, so callers can decide
// what they own and may roll back.
//
// Deletes are idempotent. A missing resource is success, and deletes that
// race against dependent resources (DependencyViolation, ResourceInUse) are
// retried with exponential backoff bounded by the delete timeout.
//
// # Retry and Timeout Configuration
//
//   - CLOUDTEMPLATE_TIMEOUT_INSTANCE_RUNNING: wait for a launched instance (default: 5m)
//   - CLOUDTEMPLATE_TIMEOUT_DELETE: each delete including its waiter (default: 15m)
//   - CLOUDTEMPLATE_RETRY_MAX_ATTEMPTS: maximum retry attempts (default: 5)
//   - CLOUDTEMPLATE_RETRY_INITIAL_DELAY: initial retry delay (default: 2s)
package aws
