// Package orchestration provides high-level workflow coordination for the
// cloudtemplate topology.
//
// This package orchestrates the provisioning workflow by delegating to
// specialized provisioners in the internal/provisioning subpackages. It
// defines the execution order and coordinates state flow between phases.
//
// # Workflow
//
// The Reconciler executes the following phases in order:
//  1. Validation - Pre-flight configuration validation, no remote calls
//  2. Security group - Ensure the group and authorize HTTP ingress
//  3. Instance - Launch the compute instance in the group
//  4. Database - Ensure the RDS instance
//  5. Load balancing - Load balancer, target group, registration, listener
//  6. Autoscaling - Ensure the Auto Scaling group
//
// The same phase list backs [Reconciler.Plan], so the planned order cannot
// drift from what Reconcile runs.
//
// # Usage
//
//	reconciler := orchestration.NewReconciler(infraClient, cfg,
//	    orchestration.WithObserver(observer),
//	    orchestration.WithOutputs(store),
//	)
//	record, err := reconciler.Reconcile(ctx)
//
// The reconciler is idempotent: every creation step finds an existing
// resource by name before creating one.
package orchestration
