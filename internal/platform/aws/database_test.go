package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dbNotFound() error {
	return &rdstypes.DBInstanceNotFoundFault{Message: aws.String("DBInstance my-db-instance not found.")}
}

func TestEnsureDBInstance_Create(t *testing.T) {
	t.Parallel()
	var input *rds.CreateDBInstanceInput
	fake := &fakeRDS{
		describeDBInstances: func(in *rds.DescribeDBInstancesInput) (*rds.DescribeDBInstancesOutput, error) {
			assert.Equal(t, "my-db-instance", aws.ToString(in.DBInstanceIdentifier))
			return nil, dbNotFound()
		},
		createDBInstance: func(in *rds.CreateDBInstanceInput) (*rds.CreateDBInstanceOutput, error) {
			input = in
			return &rds.CreateDBInstanceOutput{DBInstance: &rdstypes.DBInstance{
				DBInstanceIdentifier: in.DBInstanceIdentifier,
				DBInstanceStatus:     aws.String("creating"),
			}}, nil
		},
	}
	c := newTestClient(nil, fake, nil, nil)

	db, err := c.EnsureDBInstance(context.Background(), DBInstanceOpts{
		Identifier:       "my-db-instance",
		Engine:           "mysql",
		InstanceClass:    "db.t2.micro",
		MasterUsername:   "myuser",
		MasterPassword:   "mypassword",
		AllocatedStorage: 20,
		Tags:             map[string]string{"team": "web"},
	})
	require.NoError(t, err)
	assert.Equal(t, "my-db-instance", db.Identifier)
	assert.Equal(t, "creating", db.Status)
	assert.True(t, db.Created)

	require.NotNil(t, input)
	assert.Equal(t, "mysql", aws.ToString(input.Engine))
	assert.Equal(t, "db.t2.micro", aws.ToString(input.DBInstanceClass))
	assert.Equal(t, "myuser", aws.ToString(input.MasterUsername))
	assert.Equal(t, "mypassword", aws.ToString(input.MasterUserPassword))
	assert.Equal(t, int32(20), aws.ToInt32(input.AllocatedStorage))
	require.Len(t, input.Tags, 1)
}

func TestEnsureDBInstance_Existing(t *testing.T) {
	t.Parallel()
	fake := &fakeRDS{
		describeDBInstances: func(*rds.DescribeDBInstancesInput) (*rds.DescribeDBInstancesOutput, error) {
			return &rds.DescribeDBInstancesOutput{DBInstances: []rdstypes.DBInstance{{
				DBInstanceIdentifier: aws.String("my-db-instance"),
				DBInstanceStatus:     aws.String("available"),
				Endpoint:             &rdstypes.Endpoint{Address: aws.String("db.example"), Port: aws.Int32(3306)},
			}}}, nil
		},
	}
	c := newTestClient(nil, fake, nil, nil)

	db, err := c.EnsureDBInstance(context.Background(), DBInstanceOpts{Identifier: "my-db-instance"})
	require.NoError(t, err)
	assert.False(t, db.Created)
	assert.Equal(t, "db.example:3306", db.Endpoint)
}

func TestEnsureDBInstance_ExistingBeingDeleted(t *testing.T) {
	t.Parallel()
	fake := &fakeRDS{
		describeDBInstances: func(*rds.DescribeDBInstancesInput) (*rds.DescribeDBInstancesOutput, error) {
			return &rds.DescribeDBInstancesOutput{DBInstances: []rdstypes.DBInstance{{
				DBInstanceIdentifier: aws.String("my-db-instance"),
				DBInstanceStatus:     aws.String("deleting"),
			}}}, nil
		},
	}
	c := newTestClient(nil, fake, nil, nil)

	_, err := c.EnsureDBInstance(context.Background(), DBInstanceOpts{Identifier: "my-db-instance"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is being deleted")
}

func TestDeleteDBInstance(t *testing.T) {
	t.Parallel()

	t.Run("skips final snapshot and waits", func(t *testing.T) {
		t.Parallel()
		var input *rds.DeleteDBInstanceInput
		fake := &fakeRDS{
			deleteDBInstance: func(in *rds.DeleteDBInstanceInput) (*rds.DeleteDBInstanceOutput, error) {
				input = in
				return &rds.DeleteDBInstanceOutput{}, nil
			},
			describeDBInstances: func(*rds.DescribeDBInstancesInput) (*rds.DescribeDBInstancesOutput, error) {
				return nil, dbNotFound()
			},
		}
		c := newTestClient(nil, fake, nil, nil)

		require.NoError(t, c.DeleteDBInstance(context.Background(), "my-db-instance"))
		require.NotNil(t, input)
		assert.True(t, aws.ToBool(input.SkipFinalSnapshot))
	})

	t.Run("missing instance is success", func(t *testing.T) {
		t.Parallel()
		fake := &fakeRDS{
			deleteDBInstance: func(*rds.DeleteDBInstanceInput) (*rds.DeleteDBInstanceOutput, error) {
				return nil, dbNotFound()
			},
		}
		c := newTestClient(nil, fake, nil, nil)
		assert.NoError(t, c.DeleteDBInstance(context.Background(), "my-db-instance"))
	})
}
