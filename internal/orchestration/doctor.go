package orchestration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/util/async"
)

// CheckStatus is the outcome of a doctor check.
type CheckStatus string

const (
	CheckOK   CheckStatus = "OK"
	CheckWarn CheckStatus = "WARN"
	CheckFail CheckStatus = "FAIL"
)

// CheckResult is the result of one doctor check.
type CheckResult struct {
	Name     string
	Status   CheckStatus
	Detail   string
	Duration time.Duration
}

// BucketChecker reports whether an S3 bucket exists.
type BucketChecker interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
}

// checkFunc returns the status and detail of a check. A returned error is
// reported as FAIL with the error as detail.
type checkFunc func(ctx context.Context) (CheckStatus, string, error)

type check struct {
	name string
	fn   checkFunc
}

// Doctor runs the read-only pre-flight checks concurrently and returns
// their results in a fixed order. buckets may be nil when no S3 outputs
// are configured.
func (r *Reconciler) Doctor(ctx context.Context, buckets BucketChecker) []CheckResult {
	checks := []check{
		{"config", r.checkConfig},
		{"identity", r.checkIdentity},
		{"image", r.checkImage},
		{"subnets", r.checkSubnets},
		{"launch-configuration", r.checkLaunchConfiguration},
	}
	if buckets != nil && r.config.Outputs.S3.Enabled() {
		checks = append(checks, check{"outputs-bucket", func(ctx context.Context) (CheckStatus, string, error) {
			return r.checkBucket(ctx, buckets)
		}})
	}

	results := make([]CheckResult, len(checks))
	tasks := make([]async.Task, len(checks))
	for i, c := range checks {
		results[i].Name = c.name
		tasks[i] = async.Task{Name: c.name, Func: func(ctx context.Context) error {
			status, detail, err := c.fn(ctx)
			if err != nil {
				status, detail = CheckFail, err.Error()
			}
			results[i].Status = status
			results[i].Detail = detail
			return err
		}}
	}

	for i, res := range async.RunAll(ctx, tasks) {
		results[i].Duration = res.Duration
	}
	return results
}

// Healthy reports whether no check failed.
func Healthy(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == CheckFail {
			return false
		}
	}
	return true
}

func (r *Reconciler) checkConfig(ctx context.Context) (CheckStatus, string, error) {
	var errs, warnings []string
	for _, ve := range provisioning.Validate(r.newContext(ctx)) {
		if ve.IsError() {
			errs = append(errs, ve.Message)
			continue
		}
		warnings = append(warnings, ve.Message)
	}
	switch {
	case len(errs) > 0:
		return CheckFail, strings.Join(errs, "; "), nil
	case len(warnings) > 0:
		return CheckWarn, fmt.Sprintf("%d warning(s): %s", len(warnings), strings.Join(warnings, "; ")), nil
	default:
		return CheckOK, "configuration is valid", nil
	}
}

func (r *Reconciler) checkIdentity(ctx context.Context) (CheckStatus, string, error) {
	id, err := r.infra.CallerIdentity(ctx)
	if err != nil {
		return CheckFail, "", err
	}
	return CheckOK, fmt.Sprintf("account %s as %s", id.Account, id.ARN), nil
}

func (r *Reconciler) checkImage(ctx context.Context) (CheckStatus, string, error) {
	imageID := r.config.Instance.ImageID
	ok, err := r.infra.ImageExists(ctx, imageID)
	if err != nil {
		return CheckFail, "", err
	}
	if !ok {
		return CheckFail, fmt.Sprintf("image %s not found in %s", imageID, r.config.Region), nil
	}
	return CheckOK, fmt.Sprintf("image %s found", imageID), nil
}

func (r *Reconciler) checkSubnets(ctx context.Context) (CheckStatus, string, error) {
	ids := r.subnetIDs()
	missing, err := r.infra.SubnetsExist(ctx, ids)
	if err != nil {
		return CheckFail, "", err
	}
	if len(missing) > 0 {
		return CheckFail, "subnets not found: " + strings.Join(missing, ", "), nil
	}
	return CheckOK, fmt.Sprintf("%d subnet(s) found", len(ids)), nil
}

func (r *Reconciler) checkLaunchConfiguration(ctx context.Context) (CheckStatus, string, error) {
	name := r.config.AutoScaling.LaunchConfigurationName
	ok, err := r.infra.LaunchConfigurationExists(ctx, name)
	if err != nil {
		return CheckFail, "", err
	}
	if !ok {
		return CheckFail, fmt.Sprintf("launch configuration %s not found; create it before apply", name), nil
	}
	return CheckOK, fmt.Sprintf("launch configuration %s found", name), nil
}

func (r *Reconciler) checkBucket(ctx context.Context, buckets BucketChecker) (CheckStatus, string, error) {
	bucket := r.config.Outputs.S3.Bucket
	ok, err := buckets.BucketExists(ctx, bucket)
	if err != nil {
		return CheckFail, "", err
	}
	if !ok {
		return CheckFail, fmt.Sprintf("bucket %s not found", bucket), nil
	}
	return CheckOK, fmt.Sprintf("bucket %s found", bucket), nil
}

// subnetIDs returns every distinct subnet the config references.
func (r *Reconciler) subnetIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(r.config.Instance.SubnetID)
	for _, id := range r.config.LoadBalancer.Subnets {
		add(id)
	}
	for _, id := range r.config.AutoScaling.VPCZoneIdentifier {
		add(id)
	}
	return ids
}
