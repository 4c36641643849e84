// Package provisioning provides shared types, interfaces, and orchestration
// for standing up the web-serving topology.
//
// # Subpackages
//
//   - infrastructure/ — security group, ingress, load balancer, target group, listener
//   - compute/ — instance and autoscaling group
//   - database/ — managed database instance
//   - destroy/ — teardown by configured names
//
// # Core Types
//
// Context carries configuration, state, the AWS client, the observer and the
// rollback stack. Phase defines a provisioning step with Name() and
// Provision() methods. State accumulates the identifiers each phase produces
// and hands them to the phases that consume them.
//
// RunPhases runs phases in order and stops at the first failure. Resources
// created by the run are then deleted in reverse order, unless rollback is
// disabled in the configuration.
package provisioning
