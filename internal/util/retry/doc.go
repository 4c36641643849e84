// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max attempts,
// initial delay, and maximum delay. Errors wrapped with [Fatal] stop the loop
// immediately. It is used for AWS deletes that race against dependent
// resources (DependencyViolation, ResourceInUse) and for eventually
// consistent lookups.
package retry
