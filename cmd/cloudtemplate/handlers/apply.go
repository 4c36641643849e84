package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/config"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/orchestration"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/outputs"
	aws_internal "github.com/guzmanwolfrank/aws.cloudtemplate/internal/platform/aws"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/provisioning"
	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/ui/tui"
)

// ApplyOptions holds the apply command's flags.
type ApplyOptions struct {
	ConfigPath  string
	NoRollback  bool
	TUI         bool
	MetricsFile string
	LogFormat   string
}

// Apply provisions the stack.
//
// This function orchestrates the complete provisioning workflow:
//  1. Loads and validates the configuration
//  2. Initializes the AWS client from the SDK's default credential chain
//  3. Reconciles every resource in order, rolling back on failure
//  4. Saves the outputs record and prints a summary
//
// Metrics are written to opts.MetricsFile whether or not apply succeeds.
func Apply(ctx context.Context, opts ApplyOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.NoRollback {
		disabled := false
		cfg.Rollback.Enabled = &disabled
	}

	// Fail on a bad format before anything is created.
	observer, err := newObserver(opts.LogFormat)
	if err != nil {
		return err
	}

	log.Printf("Applying configuration for stack: %s (%s)", cfg.Name, cfg.Region)

	infra, err := initializeClient(ctx, cfg)
	if err != nil {
		return err
	}
	s3Client, err := initializeObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	store := outputsStore(cfg, s3Client)

	var metrics *provisioning.Metrics
	if opts.MetricsFile != "" {
		metrics = provisioning.NewMetrics()
		defer writeMetrics(metrics, opts.MetricsFile)
	}

	var record *outputs.Record
	run := func(ctx context.Context, observer provisioning.Observer) error {
		var err error
		record, err = reconcile(ctx, infra, cfg, observer, metrics, store)
		return err
	}

	if opts.TUI && isTerminal() {
		err = runApplyTUI(ctx, run, cfg.Name, cfg.Region)
	} else {
		if opts.TUI {
			log.Printf("stdout is not a terminal, falling back to plain output")
		}
		err = run(ctx, observer)
	}

	if record != nil {
		fmt.Fprint(stdout, tui.RenderOutputs(record))
	}
	return err
}

func reconcile(
	ctx context.Context,
	infra aws_internal.InfrastructureManager,
	cfg *config.Config,
	observer provisioning.Observer,
	metrics *provisioning.Metrics,
	store outputs.Store,
) (*outputs.Record, error) {
	if metrics != nil {
		observer = provisioning.NewMetricsObserver(observer, metrics)
	}
	opts := []orchestration.Option{orchestration.WithObserver(observer)}
	if store != nil {
		opts = append(opts, orchestration.WithOutputs(store))
	}
	return newReconciler(infra, cfg, opts...).Reconcile(ctx)
}

func writeMetrics(metrics *provisioning.Metrics, path string) {
	if err := metrics.WriteToTextfile(path); err != nil {
		log.Printf("Warning: failed to write metrics to %s: %v", path, err)
		return
	}
	log.Printf("Metrics written to %s", path)
}
