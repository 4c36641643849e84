package database

import (
	"context"
	"errors"
	"testing"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"
	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisioner_Provision(t *testing.T) {
	t.Parallel()
	var got aws_internal.DBInstanceOpts
	mockInfra := &aws_internal.MockClient{
		EnsureDBInstanceFunc: func(_ context.Context, opts aws_internal.DBInstanceOpts) (*aws_internal.DBInstance, error) {
			got = opts
			return &aws_internal.DBInstance{Identifier: "db-1", Status: "creating", Created: true}, nil
		},
	}
	ctx := provisioning.NewContext(context.Background(), config.Default(), mockInfra)

	p := NewProvisioner()
	assert.Equal(t, "database", p.Name())
	require.NoError(t, p.Provision(ctx))

	assert.Equal(t, "my-db-instance", got.Identifier)
	assert.Equal(t, "mysql", got.Engine)
	assert.Equal(t, "db.t2.micro", got.InstanceClass)
	assert.Equal(t, "myuser", got.MasterUsername)
	assert.Equal(t, "mypassword", got.MasterPassword)
	assert.Equal(t, int32(20), got.AllocatedStorage)
	assert.Equal(t, "db-1", ctx.State.DBInstanceID)
	assert.Equal(t, 1, ctx.Rollback.Len())
}

func TestProvisioner_Error(t *testing.T) {
	t.Parallel()
	providerErr := errors.New("StorageQuotaExceeded")
	mockInfra := &aws_internal.MockClient{
		EnsureDBInstanceFunc: func(context.Context, aws_internal.DBInstanceOpts) (*aws_internal.DBInstance, error) {
			return nil, providerErr
		},
	}
	ctx := provisioning.NewContext(context.Background(), config.Default(), mockInfra)

	err := NewProvisioner().Provision(ctx)
	assert.ErrorIs(t, err, providerErr)
	assert.Empty(t, ctx.State.DBInstanceID)
	assert.Equal(t, 0, ctx.Rollback.Len())
}

func TestProvisioner_DescribeRedactsPassword(t *testing.T) {
	t.Parallel()
	ctx := provisioning.NewContext(context.Background(), config.Default(), &aws_internal.MockClient{})

	steps := NewProvisioner().Describe(ctx)
	require.Len(t, steps, 1)
	for _, p := range steps[0].Params {
		assert.NotEqual(t, "mypassword", p.Value)
	}
}
