// Package destroy handles teardown of the topology by its configured names.
//
// Resources are deleted in reverse dependency order. A resource that does
// not exist is skipped, and a failed delete does not stop the remaining
// ones; all failures are reported together.
package destroy
