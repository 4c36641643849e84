package aws

import (
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/util/tags"

	"github.com/aws/aws-sdk-go-v2/aws"
	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
)

// Each service has its own Tag type. Keys are emitted in sorted order so
// requests are deterministic.

func ec2TagSpec(resourceType ec2types.ResourceType, m map[string]string) []ec2types.TagSpecification {
	if len(m) == 0 {
		return nil
	}
	t := make([]ec2types.Tag, 0, len(m))
	for _, k := range tags.SortedKeys(m) {
		t = append(t, ec2types.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return []ec2types.TagSpecification{{ResourceType: resourceType, Tags: t}}
}

func rdsTags(m map[string]string) []rdstypes.Tag {
	if len(m) == 0 {
		return nil
	}
	t := make([]rdstypes.Tag, 0, len(m))
	for _, k := range tags.SortedKeys(m) {
		t = append(t, rdstypes.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return t
}

func elbTags(m map[string]string) []elbtypes.Tag {
	if len(m) == 0 {
		return nil
	}
	t := make([]elbtypes.Tag, 0, len(m))
	for _, k := range tags.SortedKeys(m) {
		t = append(t, elbtypes.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return t
}

func asgTags(m map[string]string) []asgtypes.Tag {
	if len(m) == 0 {
		return nil
	}
	t := make([]asgtypes.Tag, 0, len(m))
	for _, k := range tags.SortedKeys(m) {
		t = append(t, asgtypes.Tag{
			Key:               aws.String(k),
			Value:             aws.String(m[k]),
			PropagateAtLaunch: aws.Bool(true),
		})
	}
	return t
}
