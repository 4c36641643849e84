package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/orchestration"
)

// ErrDestroyCancelled is returned when the user declines the confirmation.
var ErrDestroyCancelled = errors.New("destroy cancelled")

// DestroyOptions holds the destroy command's flags.
type DestroyOptions struct {
	ConfigPath string
	Yes        bool
	LogFormat  string
}

// Destroy handles the destroy command.
//
// It loads the configuration and deletes the stack's resources in reverse
// dependency order. Without --yes it asks for confirmation, and refuses to
// run when there is no terminal to ask on. The outputs record is removed
// after a clean teardown.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	observer, err := newObserver(opts.LogFormat)
	if err != nil {
		return err
	}

	if !opts.Yes {
		if !isTerminal() {
			return fmt.Errorf("refusing to destroy stack %s without --yes when not running in a terminal", cfg.Name)
		}
		confirmed, err := confirmDestroy(ctx, cfg.Name)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !confirmed {
			return ErrDestroyCancelled
		}
	}

	log.Printf("Destroying stack: %s (%s)", cfg.Name, cfg.Region)

	infra, err := initializeClient(ctx, cfg)
	if err != nil {
		return err
	}
	s3Client, err := initializeObjectStore(ctx, cfg)
	if err != nil {
		return err
	}

	ropts := []orchestration.Option{orchestration.WithObserver(observer)}
	if store := outputsStore(cfg, s3Client); store != nil {
		ropts = append(ropts, orchestration.WithOutputs(store))
	}

	if err := newReconciler(infra, cfg, ropts...).Destroy(ctx); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	log.Printf("Stack %s destroyed successfully", cfg.Name)
	return nil
}
