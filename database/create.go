package database

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/s4m/pharmacy/config"
)

// EnsureDatabase creates the configured database when the server does not have it yet.
// sqlite needs no such step, the file is created on first open.
func EnsureDatabase(ctx context.Context, cfg config.Database, logger *slog.Logger) error {
	switch strings.ToLower(cfg.Driver) {
	case DriverMySQL:
		return ensureMySQL(ctx, cfg, logger)
	case DriverPostgres:
		return ensurePostgres(ctx, cfg, logger)
	case DriverSQLite:
		return nil
	default:
		return errors.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func ensureMySQL(ctx context.Context, cfg config.Database, logger *slog.Logger) error {
	db, err := sql.Open("mysql", mysqlConfig(cfg, false).FormatDSN())
	if err != nil {
		return errors.Wrap(err, "open mysql server connection")
	}
	defer db.Close()

	stmt := "CREATE DATABASE IF NOT EXISTS " + quoteMySQLIdentifier(cfg.Name) +
		" CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return errors.Wrapf(err, "create database %s", cfg.Name)
	}
	logger.InfoContext(ctx, "database ready", slog.String("database", cfg.Name))
	return nil
}

func quoteMySQLIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func ensurePostgres(ctx context.Context, cfg config.Database, logger *slog.Logger) error {
	db, err := sql.Open("postgres", postgresURL(cfg, "postgres"))
	if err != nil {
		return errors.Wrap(err, "open postgres server connection")
	}
	defer db.Close()

	var exists bool
	if err := db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", cfg.Name,
	).Scan(&exists); err != nil {
		return errors.Wrap(err, "look up database")
	}
	if !exists {
		// CREATE DATABASE does not accept bind parameters.
		if _, err := db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(cfg.Name)); err != nil {
			return errors.Wrapf(err, "create database %s", cfg.Name)
		}
	}
	logger.InfoContext(ctx, "database ready", slog.String("database", cfg.Name), slog.Bool("created", !exists))
	return nil
}
