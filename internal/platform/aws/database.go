package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
)

const dbStatusDeleting = "deleting"

// EnsureDBInstance returns the database instance with the given identifier,
// or creates it. It does not wait for the instance to become available.
func (c *RealClient) EnsureDBInstance(ctx context.Context, opts DBInstanceOpts) (*DBInstance, error) {
	db, created, err := (&EnsureOperation[*DBInstance]{
		Name:         opts.Identifier,
		ResourceType: "database instance",
		Get: func(ctx context.Context) (*DBInstance, error) {
			return c.GetDBInstance(ctx, opts.Identifier)
		},
		Create: func(ctx context.Context) (*DBInstance, error) {
			return c.createDBInstance(ctx, opts)
		},
		Validate: func(db *DBInstance) error {
			if db.Status == dbStatusDeleting {
				return fmt.Errorf("is being deleted")
			}
			return nil
		},
	}).Execute(ctx)
	if err != nil {
		return nil, err
	}
	db.Created = created
	return db, nil
}

func (c *RealClient) createDBInstance(ctx context.Context, opts DBInstanceOpts) (*DBInstance, error) {
	input := &rds.CreateDBInstanceInput{
		DBInstanceIdentifier: aws.String(opts.Identifier),
		Engine:               aws.String(opts.Engine),
		DBInstanceClass:      aws.String(opts.InstanceClass),
		MasterUsername:       aws.String(opts.MasterUsername),
		MasterUserPassword:   aws.String(opts.MasterPassword),
		Tags:                 rdsTags(opts.Tags),
	}
	if opts.AllocatedStorage > 0 {
		input.AllocatedStorage = aws.Int32(opts.AllocatedStorage)
	}

	out, err := c.rds.CreateDBInstance(ctx, input)
	if err != nil {
		return nil, err
	}
	if out.DBInstance == nil {
		return &DBInstance{Identifier: opts.Identifier}, nil
	}
	return toDBInstance(*out.DBInstance), nil
}

// GetDBInstance returns the database instance, or nil if not found.
func (c *RealClient) GetDBInstance(ctx context.Context, identifier string) (*DBInstance, error) {
	out, err := c.rds.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(identifier),
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(out.DBInstances) == 0 {
		return nil, nil
	}
	return toDBInstance(out.DBInstances[0]), nil
}

// DeleteDBInstance deletes the database instance without a final snapshot
// and waits until it is gone.
func (c *RealClient) DeleteDBInstance(ctx context.Context, identifier string) error {
	return (&DeleteOperation{
		ID:           identifier,
		ResourceType: "database instance",
		Delete: func(ctx context.Context) error {
			_, err := c.rds.DeleteDBInstance(ctx, &rds.DeleteDBInstanceInput{
				DBInstanceIdentifier:   aws.String(identifier),
				SkipFinalSnapshot:      aws.Bool(true),
				DeleteAutomatedBackups: aws.Bool(true),
			})
			return err
		},
		Wait: func(ctx context.Context, maxWait time.Duration) error {
			return rds.NewDBInstanceDeletedWaiter(c.rds).Wait(ctx,
				&rds.DescribeDBInstancesInput{DBInstanceIdentifier: aws.String(identifier)}, maxWait)
		},
	}).Execute(ctx, c)
}

func toDBInstance(db rdstypes.DBInstance) *DBInstance {
	out := &DBInstance{
		Identifier: aws.ToString(db.DBInstanceIdentifier),
		Status:     aws.ToString(db.DBInstanceStatus),
	}
	if db.Endpoint != nil && db.Endpoint.Address != nil {
		out.Endpoint = fmt.Sprintf("%s:%d", aws.ToString(db.Endpoint.Address), aws.ToInt32(db.Endpoint.Port))
	}
	return out
}
