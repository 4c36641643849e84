// Package config defines the configuration model for a topology run.
//
// The [Config] struct is the canonical description of the resources a run
// provisions: the security group, compute instance, database instance, load
// balancer (with target group and listener) and autoscaling group. Every field
// has a default, so an empty file describes the stock topology. Timeouts and
// retry parameters are read separately from the environment by [LoadTimeouts].
package config
