package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"plantfriend/internal/config"
)

func main() {
	if err := newRootCmd(config.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	serve := newServeCmd(v)

	root := &cobra.Command{
		Use:   "plantfriend",
		Short: "Admin panel for the Plant Friend database",
		// Running the bare binary starts the server.
		RunE:         serve.RunE,
		SilenceUsage: true,
	}

	root.PersistentFlags().Int("port", 0, "listen port outside production mode (env PORT)")
	root.PersistentFlags().Bool("prod", false, "serve HTTPS on 443 with certificates from CERT_PATH (env IS_PROD)")
	root.PersistentFlags().String("schema", "", "database schema holding the managed tables (env DB_SCHEMA)")
	bindFlag(v, root, "PORT", "port")
	bindFlag(v, root, "IS_PROD", "prod")
	bindFlag(v, root, "DB_SCHEMA", "schema")

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd(v))
	root.AddCommand(newSchemaCmd(v))
	return root
}

// bindFlag lets an explicitly set flag override the environment.
func bindFlag(v *viper.Viper, cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}
