package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plantfriend/internal/config"
	"plantfriend/internal/database"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database and the plant tables if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			if err := database.EnsureDatabaseExists(cmd.Context(), cfg); err != nil {
				return err
			}

			pool, err := database.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			return database.RunMigrations(cmd.Context(), pool)
		},
	}
}
