package main

import (
	"github.com/spf13/cobra"

	"counselling_backend/internals/configs"
	database "counselling_backend/internals/databases"
	"counselling_backend/internals/helpers/applog"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireDB(); err != nil {
			return err
		}
		db, err := configs.InitSeederDB()
		if err != nil {
			return err
		}
		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		applog.WithComponent("migrate").Info().Int("models", len(database.Models())).Msg("migration finished")
		return nil
	},
}
