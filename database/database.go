// Package database opens the pooled connection to the relational store and prepares its schema.
package database

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/s4m/pharmacy/config"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	pingTimeout = 5 * time.Second
)

// Open connects to the configured store and returns a pooled *gorm.DB.
// Driver errors for unique and foreign key violations are translated to gorm's sentinel errors.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	dialector, err := newDialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormSlogLogger(logger, strings.EqualFold(cfg.Log.Level, "debug")),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", cfg.Database.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}
	pool := cfg.Database.Pool
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrapf(err, "failed to ping %s database", cfg.Database.Driver)
	}

	return db, nil
}

// Close releases every pooled connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB")
	}
	return sqlDB.Close()
}

func newDialector(cfg config.Database) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverMySQL:
		return mysql.Open(mysqlConfig(cfg, true).FormatDSN()), nil
	case DriverPostgres:
		return postgres.Open(postgresURL(cfg, cfg.Name)), nil
	case DriverSQLite:
		return sqlite.Open(SQLiteDSN(cfg.Path)), nil
	default:
		return nil, errors.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// mysqlConfig builds the go-sql-driver configuration. ClientFoundRows makes UPDATE report
// matched rows, so an update that changes nothing is not mistaken for a missing row.
func mysqlConfig(cfg config.Database, withDatabase bool) *mysqldriver.Config {
	c := mysqldriver.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.ParseTime = true
	c.Loc = time.UTC
	c.ClientFoundRows = true
	if withDatabase {
		c.DBName = cfg.Name
	}
	return c
}

func postgresURL(cfg config.Database, database string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SQLiteDSN returns the DSN of a sqlite file with foreign key enforcement turned on.
func SQLiteDSN(path string) string {
	return path + "?_foreign_keys=on"
}
