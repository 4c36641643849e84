package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/orchestration"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/ui/tui"
)

// Doctor runs the read-only pre-flight checks and prints their results.
// It returns an error when any check fails.
func Doctor(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	infra, err := initializeClient(ctx, cfg)
	if err != nil {
		return err
	}
	s3Client, err := initializeObjectStore(ctx, cfg)
	if err != nil {
		return err
	}

	var buckets orchestration.BucketChecker
	if s3Client != nil {
		buckets = s3Client
	}

	results := newReconciler(infra, cfg).Doctor(ctx, buckets)
	fmt.Fprint(stdout, tui.RenderDoctor(results, cfg.Name, cfg.Region))

	if orchestration.Healthy(results) {
		return nil
	}

	var failed []string
	for _, r := range results {
		if r.Status == orchestration.CheckFail {
			failed = append(failed, r.Name)
		}
	}
	return fmt.Errorf("doctor found failing checks: %s", strings.Join(failed, ", "))
}
