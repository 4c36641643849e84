package aws

import (
	"context"
	"fmt"
	"log"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/google/uuid"
)

// RealClient implements InfrastructureManager using the AWS SDK.
type RealClient struct {
	ec2         EC2API
	rds         RDSAPI
	elb         ELBAPI
	autoscaling AutoScalingAPI
	sts         STSAPI
	timeouts    *config.Timeouts
	newToken    func() string
	logf        func(format string, v ...interface{})
}

var _ InfrastructureManager = (*RealClient)(nil)

// ClientOption configures a RealClient.
type ClientOption func(*RealClient)

// WithTimeouts sets custom timeouts for the client.
func WithTimeouts(t *config.Timeouts) ClientOption {
	return func(c *RealClient) {
		c.timeouts = t
	}
}

// WithEC2API replaces the EC2 client (useful for testing).
func WithEC2API(api EC2API) ClientOption {
	return func(c *RealClient) {
		c.ec2 = api
	}
}

// WithRDSAPI replaces the RDS client (useful for testing).
func WithRDSAPI(api RDSAPI) ClientOption {
	return func(c *RealClient) {
		c.rds = api
	}
}

// WithELBAPI replaces the Elastic Load Balancing client (useful for testing).
func WithELBAPI(api ELBAPI) ClientOption {
	return func(c *RealClient) {
		c.elb = api
	}
}

// WithAutoScalingAPI replaces the Auto Scaling client (useful for testing).
func WithAutoScalingAPI(api AutoScalingAPI) ClientOption {
	return func(c *RealClient) {
		c.autoscaling = api
	}
}

// WithSTSAPI replaces the STS client (useful for testing).
func WithSTSAPI(api STSAPI) ClientOption {
	return func(c *RealClient) {
		c.sts = api
	}
}

// WithTokenGenerator sets the generator for RunInstances client tokens.
func WithTokenGenerator(fn func() string) ClientOption {
	return func(c *RealClient) {
		c.newToken = fn
	}
}

// WithLogger sets where retry notices are written. The default is the
// standard logger.
func WithLogger(logf func(format string, v ...interface{})) ClientOption {
	return func(c *RealClient) {
		c.logf = logf
	}
}

// NewRealClient creates a RealClient from a loaded SDK configuration.
func NewRealClient(cfg aws.Config, opts ...ClientOption) *RealClient {
	c := &RealClient{
		ec2:         ec2.NewFromConfig(cfg),
		rds:         rds.NewFromConfig(cfg),
		elb:         elbv2.NewFromConfig(cfg),
		autoscaling: autoscaling.NewFromConfig(cfg),
		sts:         sts.NewFromConfig(cfg),
		timeouts:    config.LoadTimeouts(),
		newToken:    uuid.NewString,
		logf:        log.Printf,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadConfig resolves credentials through the SDK's default chain
// (environment, shared config, instance metadata) for the given region and
// optional shared-config profile.
func LoadConfig(ctx context.Context, region, profile string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return cfg, nil
}
