package cli

import (
	"github.com/spf13/cobra"

	"github.com/frostline-io/frostline/internal/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "frostline",
	Short: "Idempotent ML-workspace provisioning for the Snowflake data cloud",
	Long: `Frostline provisions and tears down an interdependent set of workspace
resources (database, schema, role, warehouse, stages, network egress rules,
a GPU compute pool, model and notebook objects) in a single idempotent run,
and syncs notebook artifacts from a remote source into managed storage.

Runs are safe to repeat: every drop is if-exists, every create is
create-or-replace or create-if-absent, and the target environment itself is
the only state.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logLevel)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "workspace config file (built-in defaults when omitted)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(downCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}
