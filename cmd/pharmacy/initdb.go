package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s4m/pharmacy/config"
	"github.com/s4m/pharmacy/database"
)

func newInitDBCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database, its tables and the default data",
		Long: `Create the configured database when missing, create the tables and seed every empty
table with the default categories, accounts and products. Running it again changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			db, err := database.Setup(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer database.Close(db)

			fmt.Fprintf(cmd.OutOrStdout(), "database %s ready (%s)\n", databaseName(cfg.Database), cfg.Database.Driver)
			return nil
		},
	}
}

func databaseName(cfg config.Database) string {
	if cfg.Driver == database.DriverSQLite {
		return cfg.Path
	}
	return cfg.Name
}
