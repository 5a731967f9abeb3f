// Package config loads ledger.yaml and its environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledger/internal/fiscal"
	"github.com/cleared-dev/ledger/internal/model"
)

// FileName is the default config file name.
const FileName = "ledger.yaml"

// Environment variables that override the config file.
const (
	EnvDBPath      = "LEDGER_DB_PATH"
	EnvAddr        = "LEDGER_ADDR"
	EnvLogLevel    = "LEDGER_LOG_LEVEL"
	EnvUserID      = "LEDGER_USER_ID"
	EnvCashAccount = "LEDGER_CASH_ACCOUNT"
)

// Config represents the top-level ledger.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Fiscal   FiscalConfig   `yaml:"fiscal"`
	Database DatabaseConfig `yaml:"database"`
	Entry    EntryConfig    `yaml:"entry"`
	Reports  ReportsConfig  `yaml:"reports"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business the books belong to.
type BusinessConfig struct {
	Name string `yaml:"name"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD" format, e.g. "04-01"
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the config file's directory
}

// EntryConfig controls transaction entry.
type EntryConfig struct {
	UserID           int64 `yaml:"user_id"`
	EnforceYearDates bool  `yaml:"enforce_year_dates"`
}

// ReportsConfig holds report defaults.
type ReportsConfig struct {
	CashAccount string `yaml:"cash_account"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a ledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Resolve loads the config at path, falling back to defaults when the file
// does not exist, then applies .env and environment overrides and validates.
func Resolve(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "path", path)
		cfg = Default("")
	} else if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		Fiscal: FiscalConfig{
			YearStart: fiscal.DefaultYearStart,
		},
		Database: DatabaseConfig{
			Path: "ledger.db",
		},
		Entry: EntryConfig{
			UserID:           1,
			EnforceYearDates: true,
		},
		Reports: ReportsConfig{
			CashAccount: "Cash",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyEnv overrides fields from LEDGER_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvCashAccount); v != "" {
		c.Reports.CashAccount = v
	}
	if v := os.Getenv(EnvUserID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvUserID, v, err)
		}
		c.Entry.UserID = id
	}
	return nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs model.ValidationErrors
	if _, _, err := fiscal.ParseYearStart(c.Fiscal.YearStart); err != nil {
		errs = append(errs, &model.ValidationError{Entity: "config", Field: "fiscal.year_start", Message: err.Error()})
	}
	if c.Database.Path == "" {
		errs = append(errs, &model.ValidationError{Entity: "config", Field: "database.path", Message: "path is required"})
	}
	if c.Entry.UserID <= 0 {
		errs = append(errs, &model.ValidationError{Entity: "config", Field: "entry.user_id", Message: "user_id must be positive"})
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, &model.ValidationError{Entity: "config", Field: "log.level", Message: err.Error()})
	}
	return errs.OrNil()
}

// DBPath returns the database path, resolving a relative path against the
// directory holding the config file.
func (c *Config) DBPath(configPath string) string {
	if filepath.IsAbs(c.Database.Path) {
		return c.Database.Path
	}
	return filepath.Join(filepath.Dir(configPath), c.Database.Path)
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", l.Level)
	}
	return level, nil
}
