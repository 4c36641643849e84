package commands

import (
	"github.com/spf13/cobra"

	"github.com/guzmanwolfrank/aws.cloudtemplate/cmd/cloudtemplate/handlers"
)

// Doctor returns the doctor command.
func Doctor() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check credentials and prerequisites before apply",
		Long: `Run read-only checks against AWS before apply:

  - configuration validity and known warnings
  - caller identity
  - the configured image exists
  - every referenced subnet exists
  - the launch configuration exists
  - the outputs bucket exists, when S3 outputs are configured

Exits non-zero when any check fails.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath)
		},
	}

	addConfigFlag(cmd, &configPath)

	return cmd
}
