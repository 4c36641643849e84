package commands

import (
	"github.com/spf13/cobra"

	"github.com/guzmanwolfrank/aws.cloudtemplate/cmd/cloudtemplate/handlers"
)

// Apply returns the command that creates or updates the stack.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: cloudtemplate.yaml)
//	--no-rollback: Leave resources created by a failed run in place
//	--tui: Show live progress when stdout is a terminal
//	--metrics-file: Write Prometheus metrics for the run to this file
//	--log-format: text or json
func Apply() *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the stack",
		Long: `Create or update the stack.

Every resource is looked up by name first and only created when missing, so
apply can be re-run safely. If a step fails, the resources created by this
run are deleted again in reverse order unless --no-rollback is given.

The launch configuration used by the Auto Scaling group is not created by
cloudtemplate and must already exist. Run 'cloudtemplate doctor' to check.

Examples:
  # Apply using cloudtemplate.yaml in the current directory
  cloudtemplate apply

  # Apply a specific config with live progress
  cloudtemplate apply -c production.yaml --tui

  # Keep partial resources for debugging
  cloudtemplate apply --no-rollback`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	addConfigFlag(cmd, &opts.ConfigPath)
	cmd.Flags().BoolVar(&opts.NoRollback, "no-rollback", false, "Leave resources created by a failed run in place")
	cmd.Flags().BoolVar(&opts.TUI, "tui", false, "Show live progress in a terminal UI")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics for the run to this file")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "text", "Log format: text or json")

	return cmd
}
