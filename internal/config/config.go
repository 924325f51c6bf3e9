// Package config handles resolving configuration.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// minSecretKeyLen is the minimum length of the session signing key.
const minSecretKeyLen = 16

// Config is the quill configuration. Every field may be set in the YAML file or
// overridden through its environment variable.
type Config struct {
	LogLevel      string `yaml:"log_level" env:"QUILL_LOG_LEVEL" env-description:"log level: DEBUG, INFO, WARN or ERROR"`
	WebAddress    string `yaml:"web_address" env:"QUILL_WEB_ADDRESS" env-description:"address the web app listens on"`
	DBFilepath    string `yaml:"db_filepath" env:"QUILL_DB_FILEPATH" env-description:"path to the SQLite database file"`
	DBMaxConns    int    `yaml:"db_max_conns" env:"QUILL_DB_MAX_CONNS" env-description:"maximum open database connections"`
	SecretKey     string `yaml:"secret_key" env:"QUILL_SECRET_KEY" env-description:"key used to sign session cookies"`
	SecureCookies bool   `yaml:"secure_cookies" env:"QUILL_SECURE_COOKIES" env-description:"only send cookies over HTTPS"`
	CSRF          bool   `yaml:"csrf" env:"QUILL_CSRF" env-description:"require CSRF tokens on form submissions"`
	DevMode       bool   `yaml:"dev_mode" env:"QUILL_DEV_MODE" env-description:"enable request logging and debug errors"`
}

// Default returns a version of the config with all default values populated.
// Note that this configuration is _not_ valid, as the user must set secret_key.
func Default() *Config {
	return &Config{
		LogLevel:      "INFO",
		WebAddress:    "localhost:9999",
		DBFilepath:    filepath.Join(xdg.DataHome, "quill", "db.sqlite"),
		DBMaxConns:    4, //nolint:mnd // small pool, sqlite serializes writers anyway
		SecretKey:     "", // must be set by the user
		SecureCookies: false,
		CSRF:          true,
		DevMode:       false,
	}
}

// DefaultPath is where the config file is looked up if none is specified.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "quill.yaml")
}

// Load loads a YAML configuration file from a path, merges it with defaults
// and the environment, and validates it for completeness.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed. The
// file is readable only by its owner since it holds the secret key.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil { //nolint:mnd // owner rwx access
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil { //nolint:mnd // owner rw access
		return fmt.Errorf("failed to write config file to %s: %w", path, err)
	}
	return nil
}

// Validate reports every field that holds an unusable value.
func (c *Config) Validate() error {
	var errs []error
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.WebAddress == "" {
		errs = append(errs, errors.New("web_address is required"))
	}
	if c.DBFilepath == "" {
		errs = append(errs, errors.New("db_filepath is required"))
	}
	if c.DBMaxConns < 1 {
		errs = append(errs, errors.New("db_max_conns must be at least 1"))
	}
	if len(c.SecretKey) < minSecretKeyLen {
		errs = append(errs, fmt.Errorf("secret_key must be at least %d bytes", minSecretKeyLen))
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, falling back to INFO.
func (c *Config) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return lvl, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return lvl, nil
}

// Describe lists the environment variables understood by [Load].
func Describe() string {
	header := "Environment variables:"
	desc, err := cleanenv.GetDescription(&Config{}, &header)
	if err != nil {
		return ""
	}
	return desc
}

// NewSecretKey generates a random key suitable for secret_key.
func NewSecretKey() (string, error) {
	const keyBytes = 32
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
