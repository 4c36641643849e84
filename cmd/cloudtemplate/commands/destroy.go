package commands

import (
	"github.com/spf13/cobra"

	"github.com/guzmanwolfrank/aws.cloudtemplate/cmd/cloudtemplate/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command removes the stack's resources by their configured
// names in reverse dependency order.
func Destroy() *cobra.Command {
	var opts handlers.DestroyOptions

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the stack and all associated resources",
		Long: `Destroy removes the stack's resources from AWS.

Resources are deleted in reverse dependency order:
  - Auto Scaling group
  - Load balancer (with its listeners)
  - Target group
  - Database instance (no final snapshot)
  - Instance
  - Security group

Resources that do not exist are skipped. A failed delete does not stop the
remaining ones.

Example:
  cloudtemplate destroy -c cloudtemplate.yaml

WARNING: This operation is irreversible. The database is deleted without a
final snapshot.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts)
		},
	}

	addConfigFlag(cmd, &opts.ConfigPath)
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "text", "Log format: text or json")

	return cmd
}
