// Package infrastructure provides the network-facing provisioning phases:
// the security group with its ingress rule, and the load balancer with its
// target group, target registration and listener.
package infrastructure
