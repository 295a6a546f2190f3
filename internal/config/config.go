// Package config resolves the service configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const minSecretLength = 16

// Config is the full runtime configuration.
type Config struct {
	Address         string         `yaml:"address"`
	LogLevel        string         `yaml:"log_level"`
	DevMode         bool           `yaml:"dev_mode"`
	Database        DatabaseConfig `yaml:"database"`
	JWTSecret       string         `yaml:"jwt_secret"`
	TokenTTL        time.Duration  `yaml:"token_ttl"`
	BcryptCost      int            `yaml:"bcrypt_cost"`
	StrictOwnership bool           `yaml:"strict_ownership"`
	CORSOrigins     []string       `yaml:"cors_origins"`
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Default returns a config with every default populated. It is not valid on
// its own: the JWT secret has no default and must be supplied.
func Default() *Config {
	return &Config{
		Address:  ":10000",
		LogLevel: "info",
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    filepath.Join(xdg.DataHome, "todo-api", "todos.db"),
		},
		TokenTTL:    30 * 24 * time.Hour,
		BcryptCost:  10,
		CORSOrigins: []string{"*"},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used. A path that does not exist is an
// error wrapping os.ErrNotExist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // the config file may live anywhere
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// decode merges YAML onto cfg. Keys absent from the document keep their
// current value; unknown keys are rejected.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	str(&cfg.Address, "TODO_ADDRESS")
	str(&cfg.LogLevel, "TODO_LOG_LEVEL")
	str(&cfg.Database.Driver, "TODO_DB_DRIVER")
	str(&cfg.Database.DSN, "TODO_DB_DSN", "DATABASE_URL")
	str(&cfg.JWTSecret, "TODO_JWT_SECRET", "JWT_SECRET")

	if v, ok := lookup("TODO_TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TODO_TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = d
	}
	if v, ok := lookup("TODO_BCRYPT_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TODO_BCRYPT_COST: %w", err)
		}
		cfg.BcryptCost = n
	}
	for key, dst := range map[string]*bool{
		"TODO_STRICT_OWNERSHIP": &cfg.StrictOwnership,
		"TODO_DEV_MODE":         &cfg.DevMode,
	} {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}
	if v, ok := lookup("TODO_CORS_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORSOrigins = origins
	}
	return nil
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Address == "" {
		errs = append(errs, errors.New("address is required"))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q",
			DriverSQLite, DriverPostgres, c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	switch {
	case c.JWTSecret == "":
		errs = append(errs, errors.New("jwt_secret is required (set TODO_JWT_SECRET)"))
	case len(c.JWTSecret) < minSecretLength:
		errs = append(errs, fmt.Errorf("jwt_secret must be at least %d characters", minSecretLength))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token_ttl must be positive"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("bcrypt_cost must be between 4 and 31, got %d", c.BcryptCost))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
