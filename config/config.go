// Package config loads settings from built-in defaults, an optional config.yaml, the legacy
// database.properties file and PHARMACY_* environment variables, in that order.
package config

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	EnvPrefix      = "PHARMACY_"
	YAMLFile       = "config.yaml"
	PropertiesFile = "database.properties"
)

type Config struct {
	Database Database `koanf:"database"`
	HTTP     HTTP     `koanf:"http"`
	Log      Log      `koanf:"log"`
	Auth     Auth     `koanf:"auth"`
}

type Database struct {
	// Driver is one of mysql, postgres or sqlite.
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Name     string `koanf:"name"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	// Path is the database file when Driver is sqlite.
	Path string `koanf:"path"`
	Pool Pool   `koanf:"pool"`
}

type Pool struct {
	MaxOpen     int           `koanf:"maxopen"`
	MaxIdle     int           `koanf:"maxidle"`
	MaxLifetime time.Duration `koanf:"maxlifetime"`
}

type HTTP struct {
	Addr string `koanf:"addr"`
}

type Log struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

type Auth struct {
	// Scheme is sha256 (default, matches the seeded accounts) or bcrypt.
	Scheme string `koanf:"scheme"`
	Cost   int    `koanf:"cost"`
	// Rehash upgrades legacy digests on login when Scheme is bcrypt.
	Rehash bool `koanf:"rehash"`
}

// Default returns the settings used when no source overrides them.
func Default() *Config {
	return &Config{
		Database: Database{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     3306,
			Name:     "pharmacy_db",
			User:     "root",
			Password: "",
			Path:     "pharmacy.db",
			Pool: Pool{
				MaxOpen:     10,
				MaxIdle:     5,
				MaxLifetime: 30 * time.Minute,
			},
		},
		HTTP: HTTP{Addr: "127.0.0.1:8080"},
		Log:  Log{Level: "info"},
		Auth: Auth{Scheme: "sha256", Cost: 10},
	}
}

// propertyKeys maps database.properties keys to configuration paths.
var propertyKeys = map[string]string{
	"db.host":     "database.host",
	"db.port":     "database.port",
	"db.database": "database.name",
	"db.username": "database.user",
	"db.password": "database.password",
}

// Load reads the configuration found in dir. Missing files are skipped silently, unreadable ones
// are logged and skipped; only values that cannot be decoded are reported as errors.
func Load(dir string) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")
	logger := slog.Default()

	yamlPath := filepath.Join(dir, YAMLFile)
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			logger.Warn("ignoring unreadable config file", slog.String("path", yamlPath), slog.Any("error", err))
		}
	}

	propsPath := filepath.Join(dir, PropertiesFile)
	props, err := godotenv.Read(propsPath)
	switch {
	case err == nil:
		for prop, key := range propertyKeys {
			if v, ok := props[prop]; ok {
				if err := k.Set(key, v); err != nil {
					return nil, errors.Wrapf(err, "set %s", key)
				}
			}
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		logger.Warn("ignoring unreadable properties file", slog.String("path", propsPath), slog.Any("error", err))
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// PHARMACY_DATABASE_POOL_MAXOPEN -> database.pool.maxopen
			key = strings.TrimPrefix(key, EnvPrefix)
			return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	return cfg, nil
}
