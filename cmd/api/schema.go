package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plantfriend/internal/config"
	"plantfriend/internal/database"
	"plantfriend/internal/repositories"
	"plantfriend/internal/services"
)

func newSchemaCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the introspected schema snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}

			pool, err := database.Connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			schemaService := services.NewSchemaService(repositories.NewSchemaRepository(pool, cfg.DBSchema))
			snap, err := schemaService.Load(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		},
	}
}
