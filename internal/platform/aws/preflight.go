package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// CallerIdentity returns the account and principal the SDK authenticated as.
func (c *RealClient) CallerIdentity(ctx context.Context) (*Identity, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to get caller identity: %w", err)
	}
	return &Identity{
		Account: aws.ToString(out.Account),
		ARN:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

// ImageExists reports whether the machine image resolves in the region.
func (c *RealClient) ImageExists(ctx context.Context, imageID string) (bool, error) {
	out, err := c.ec2.DescribeImages(ctx, &ec2.DescribeImagesInput{ImageIds: []string{imageID}})
	if err != nil {
		switch ErrorCode(err) {
		case "InvalidAMIID.NotFound", "InvalidAMIID.Malformed", "InvalidAMIID.Unavailable":
			return false, nil
		}
		return false, fmt.Errorf("failed to describe image %s: %w", imageID, err)
	}
	return len(out.Images) > 0, nil
}

// SubnetsExist returns the subnets from the list that do not exist.
func (c *RealClient) SubnetsExist(ctx context.Context, subnetIDs []string) ([]string, error) {
	var missing []string
	for _, id := range subnetIDs {
		// One call per subnet: a batch call fails as a whole on the first unknown id.
		out, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{SubnetIds: []string{id}})
		if err != nil {
			if ErrorCode(err) == "InvalidSubnetID.NotFound" || ErrorCode(err) == "InvalidSubnetID.Malformed" {
				missing = append(missing, id)
				continue
			}
			return nil, fmt.Errorf("failed to describe subnet %s: %w", id, err)
		}
		if len(out.Subnets) == 0 {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// LaunchConfigurationExists reports whether the named launch configuration exists.
func (c *RealClient) LaunchConfigurationExists(ctx context.Context, name string) (bool, error) {
	out, err := c.autoscaling.DescribeLaunchConfigurations(ctx, &autoscaling.DescribeLaunchConfigurationsInput{
		LaunchConfigurationNames: []string{name},
	})
	if err != nil {
		return false, fmt.Errorf("failed to describe launch configuration %s: %w", name, err)
	}
	return len(out.LaunchConfigurations) > 0, nil
}
