// Package compute provisions the compute side of the topology: the single
// EC2 instance behind the load balancer, and the Auto Scaling group bound to
// an existing launch configuration.
package compute
