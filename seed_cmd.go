package main

import (
	"github.com/spf13/cobra"

	"counselling_backend/internals/configs"
	"counselling_backend/internals/helpers/applog"
	"counselling_backend/internals/seeds"
)

var seedUsersFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the admin account and default counselling types",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDB(); err != nil {
			return err
		}
		db, err := configs.InitSeederDB()
		if err != nil {
			return err
		}
		if err := seeds.RunAllSeeds(db, seeds.Options{
			AdminEmail:    configs.GetEnv("SEED_ADMIN_EMAIL"),
			AdminPassword: configs.GetEnv("SEED_ADMIN_PASSWORD"),
			UsersFile:     seedUsersFile,
		}); err != nil {
			return err
		}
		applog.WithComponent("seed").Info().Msg("seed finished")
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedUsersFile, "users", "", "optional JSON file of users to insert")
}
