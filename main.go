package main

import (
	"os"

	"github.com/spf13/cobra"

	"counselling_backend/internals/configs"
	"counselling_backend/internals/helpers/applog"
	"counselling_backend/internals/helpers/dbtime"
)

var rootCmd = &cobra.Command{
	Use:   "counselling",
	Short: "School counselling case and session backend",
	// no subcommand means serve
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configs.LoadEnv()
		return dbtime.SetLocation(configs.Cfg.Timezone)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	applog.Configure(applog.Config{Service: "counselling"})
	if err := rootCmd.Execute(); err != nil {
		applog.Base().Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
