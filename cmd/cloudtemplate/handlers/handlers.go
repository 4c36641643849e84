// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/orchestration"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/outputs"
	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/s3"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/ui/tui"
)

// Reconciler interface for testing - matches orchestration.Reconciler.
type Reconciler interface {
	Reconcile(ctx context.Context) (*outputs.Record, error)
	Plan() []provisioning.PlannedStep
	Destroy(ctx context.Context) error
	Doctor(ctx context.Context, buckets orchestration.BucketChecker) []orchestration.CheckResult
}

// objectStore is what the outputs store and the doctor need from S3.
type objectStore interface {
	outputs.ObjectClient
	orchestration.BucketChecker
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// loadAWSConfig resolves region and credentials.
	loadAWSConfig = aws_internal.LoadConfig

	// newInfraClient creates a new infrastructure client.
	newInfraClient = func(cfg aws.Config) aws_internal.InfrastructureManager {
		return aws_internal.NewRealClient(cfg)
	}

	// newReconciler creates a new reconciler.
	newReconciler = func(infra aws_internal.InfrastructureManager, cfg *config.Config, opts ...orchestration.Option) Reconciler {
		return orchestration.NewReconciler(infra, cfg, opts...)
	}

	// newObjectStore creates the S3 client used for outputs.
	newObjectStore = func(ctx context.Context, opts s3.Options) (objectStore, error) {
		client, err := s3.NewClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	// isTerminal reports whether stdin and stdout are terminals.
	isTerminal = func() bool {
		return isTTY(os.Stdout.Fd()) && isTTY(os.Stdin.Fd())
	}

	// confirmDestroy asks the user to confirm a destroy.
	confirmDestroy = promptConfirmDestroy

	// runApplyTUI runs apply behind the terminal UI.
	runApplyTUI = tui.RunApplyTUI

	// stdout receives rendered summaries.
	stdout io.Writer = os.Stdout

	// logOutput receives JSON logs.
	logOutput io.Writer = os.Stderr
)

// loadConfig loads the config at path. With no path, cloudtemplate.yaml is
// used when present and the built-in defaults otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile); errors.Is(err, os.ErrNotExist) {
			log.Printf("No %s found, using built-in defaults", config.DefaultConfigFile)
			return config.Load(nil)
		}
		path = config.DefaultConfigFile
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}

// initializeClient creates the AWS infrastructure client for cfg's region
// and profile.
func initializeClient(ctx context.Context, cfg *config.Config) (aws_internal.InfrastructureManager, error) {
	awsCfg, err := loadAWSConfig(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return nil, err
	}
	return newInfraClient(awsCfg), nil
}

// initializeObjectStore creates the S3 client when S3 outputs are
// configured, and returns nil otherwise.
func initializeObjectStore(ctx context.Context, cfg *config.Config) (objectStore, error) {
	s3Cfg := cfg.Outputs.S3
	if !s3Cfg.Enabled() {
		return nil, nil
	}

	region := s3Cfg.Region
	if region == "" {
		region = cfg.Region
	}
	client, err := newObjectStore(ctx, s3.Options{
		Region:    region,
		Endpoint:  s3Cfg.Endpoint,
		AccessKey: s3Cfg.AccessKey,
		SecretKey: s3Cfg.SecretKey,
		Profile:   cfg.Profile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return client, nil
}

// outputsStore returns where the outputs record is kept, or nil when no
// destination is configured.
func outputsStore(cfg *config.Config, client objectStore) outputs.Store {
	var stores outputs.MultiStore
	if cfg.Outputs.Path != "" {
		stores = append(stores, outputs.NewFileStore(cfg.Outputs.Path))
	}
	if client != nil {
		stores = append(stores, outputs.NewS3Store(client, cfg.Outputs.S3.Bucket, cfg.Outputs.S3.Key))
	}

	switch len(stores) {
	case 0:
		return nil
	case 1:
		return stores[0]
	default:
		return stores
	}
}

// newObserver returns the observer for the given log format.
func newObserver(format string) (provisioning.Observer, error) {
	switch format {
	case "", "text":
		return provisioning.NewConsoleObserver(), nil
	case "json":
		return provisioning.NewJSONObserver(logOutput), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
}

func isTTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func promptConfirmDestroy(ctx context.Context, stackName string) (bool, error) {
	var confirmed bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Destroy stack %q?", stackName)).
				Description("All resources are deleted. The database is deleted without a final snapshot.").
				Affirmative("Destroy").
				Negative("Cancel").
				Value(&confirmed),
		),
	).RunWithContext(ctx)
	if err != nil {
		return false, err
	}
	return confirmed, nil
}
