package commands

import (
	"github.com/spf13/cobra"

	"github.com/guzmanwolfrank/aws.cloudtemplate/cmd/cloudtemplate/handlers"
)

// Plan returns the command that prints the calls apply would make.
func Plan() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the calls apply would make",
		Long: `Show the calls apply would make, in order, with their parameters.

No AWS call is made. Identifiers produced by earlier steps are shown as
placeholders.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Plan(cmd.Context(), configPath)
		},
	}

	addConfigFlag(cmd, &configPath)

	return cmd
}
