package provisioning

import (
	"fmt"
	"strings"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"
)

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
// It makes no remote calls.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	var errs []ValidationError
	for _, ve := range Validate(ctx) {
		if ve.IsError() {
			errs = append(errs, ve)
			continue
		}
		LogValidationWarning(ctx.Observer, ve.Field, ve.Message)
	}

	if len(errs) > 0 {
		var errMsgs []string
		for _, e := range errs {
			errMsgs = append(errMsgs, e.Error())
		}
		return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(errMsgs, "\n  "))
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}

// Validate runs all validation checks and returns any errors or warnings.
func Validate(ctx *Context) []ValidationError {
	var errs []ValidationError
	cfg := ctx.Config

	if err := cfg.Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:    "config",
			Message:  err.Error(),
			Severity: "error",
		})
	}

	if ctx.Infra == nil {
		errs = append(errs, ValidationError{
			Field:    "Infra",
			Message:  "no AWS client configured",
			Severity: "error",
		})
	}

	// Known gaps of the topology. They are reported, not fixed.

	errs = append(errs, ValidationError{
		Field: "auto_scaling.launch_configuration_name",
		Message: fmt.Sprintf("launch configuration %q is not created by cloudtemplate and must already exist",
			cfg.AutoScaling.LaunchConfigurationName),
		Severity: "warning",
	})

	errs = append(errs, ValidationError{
		Field: "database",
		Message: fmt.Sprintf("database %q is not attached to security group %q or to a subnet group",
			cfg.Database.Identifier, cfg.SecurityGroup.Name),
		Severity: "warning",
	})

	if cfg.UsesDefaultPassword() {
		errs = append(errs, ValidationError{
			Field:    "database.master_password",
			Message:  "the built-in default database password is in use; set " + config.DBPasswordEnvVar,
			Severity: "warning",
		})
	}

	sgVPC, tgVPC := cfg.SecurityGroup.VPCID, cfg.TargetGroup.VPCID
	if sgVPC != "" && tgVPC != "" && sgVPC != tgVPC {
		errs = append(errs, ValidationError{
			Field:    "target_group.vpc_id",
			Message:  fmt.Sprintf("target group VPC %s differs from security group VPC %s; target registration will fail", tgVPC, sgVPC),
			Severity: "warning",
		})
	}

	return errs
}
