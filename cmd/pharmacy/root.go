package main

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/s4m/pharmacy/config"
	"github.com/s4m/pharmacy/logs"
)

type rootOptions struct {
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "pharmacy",
		Short: "Pharmacy inventory service",
		Long: `Inventory management for a pharmacy: products, categories and user accounts
over MySQL, PostgreSQL or sqlite, served as a local JSON API.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", ".", "Directory holding .env, config.yaml and database.properties")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newInitDBCmd(opts))
	rootCmd.AddCommand(newHashPasswordCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// load reads .env into the environment, then the layered configuration, and builds the logger.
func (o *rootOptions) load() (*config.Config, *slog.Logger, error) {
	envPath := filepath.Join(o.configDir, ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("ignoring unreadable env file", slog.String("path", envPath), slog.Any("error", err))
	}

	cfg, err := config.Load(o.configDir)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logs.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
