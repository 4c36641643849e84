package handlers

import (
	"context"
	"fmt"

	"github.com/guzmanwolfrank/aws.cloudtemplate/internal/ui/tui"
)

// Plan prints the calls apply would make. It makes no AWS calls and needs
// no credentials.
func Plan(_ context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	steps := newReconciler(nil, cfg).Plan()
	fmt.Fprint(stdout, tui.RenderPlan(steps, cfg.Name, cfg.Region))
	return nil
}
