package database

import (
	"context"
	"fmt"
	"strconv"

	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
)

const phase = "database"

// Provisioner ensures the database instance.
type Provisioner struct{}

// NewProvisioner creates a new database provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return phase
}

// Provision implements the provisioning.Phase interface. It does not wait
// for the database to become available.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config.Database
	ctx.Observer.Printf("[%s] Reconciling %s database %s (%s)...", phase, cfg.Engine, cfg.Identifier, cfg.InstanceClass)
	provisioning.LogResourceCreating(ctx.Observer, phase, "db instance", cfg.Identifier)

	// TODO: pass VpcSecurityGroupIds and a DB subnet group so the database
	// is reachable from the instance's security group.
	db, err := ctx.Infra.EnsureDBInstance(ctx, aws_internal.DBInstanceOpts{
		Identifier:       cfg.Identifier,
		Engine:           cfg.Engine,
		InstanceClass:    cfg.InstanceClass,
		MasterUsername:   cfg.MasterUsername,
		MasterPassword:   cfg.MasterPassword,
		AllocatedStorage: cfg.AllocatedStorage,
		Tags:             ctx.Tags(cfg.Identifier),
	})
	if err != nil {
		return fmt.Errorf("failed to ensure database instance: %w", err)
	}

	ctx.State.DBInstanceID = db.Identifier
	ctx.TrackResource(phase, "db instance", cfg.Identifier, db.Identifier, db.Created,
		func(rbCtx context.Context) error { return ctx.Infra.DeleteDBInstance(rbCtx, db.Identifier) })
	return nil
}

// Describe implements provisioning.Describer. The password is never shown.
func (p *Provisioner) Describe(ctx *provisioning.Context) []provisioning.PlannedStep {
	cfg := ctx.Config.Database
	return []provisioning.PlannedStep{{
		Phase:  phase,
		Action: "ensure db instance",
		Params: []provisioning.Param{
			{Name: "identifier", Value: cfg.Identifier},
			{Name: "engine", Value: cfg.Engine},
			{Name: "class", Value: cfg.InstanceClass},
			{Name: "master user", Value: cfg.MasterUsername},
			{Name: "master password", Value: "(redacted)"},
			{Name: "storage GiB", Value: strconv.Itoa(int(cfg.AllocatedStorage))},
		},
	}}
}
