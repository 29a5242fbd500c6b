package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Store backend names accepted in StoreConfig.Backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// LedgerConfig holds business defaults.
type LedgerConfig struct {
	// Currency is the ISO 4217 code used to render amounts.
	Currency string `mapstructure:"currency" yaml:"currency"`

	// DefaultVAT prefills the VAT field of the add form.
	DefaultVAT string `mapstructure:"default_vat" yaml:"default_vat"`

	// SeedSample loads the sample orders at startup.
	SeedSample bool `mapstructure:"seed_sample" yaml:"seed_sample"`
}

// StoreConfig selects the in-process store implementation.
type StoreConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// LogConfig controls structured logging. The terminal belongs to the UI,
// so an empty File discards log output.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Ledger LedgerConfig `mapstructure:"ledger" yaml:"ledger"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns ~/.config/ledger/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "ledger", "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Ledger: LedgerConfig{
			Currency:   DefaultCurrency,
			DefaultVAT: "17",
			SeedSample: true,
		},
		Store: StoreConfig{
			Backend: BackendMemory,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// LEDGER_* environment variables override file values. A missing file
// yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultAppConfig()
	v.SetDefault("ledger.currency", defaults.Ledger.Currency)
	v.SetDefault("ledger.default_vat", defaults.Ledger.DefaultVAT)
	v.SetDefault("ledger.seed_sample", defaults.Ledger.SeedSample)
	v.SetDefault("store.backend", defaults.Store.Backend)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late in the UI.
func (c *AppConfig) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := ParseNumber("default VAT", c.Ledger.DefaultVAT); err != nil {
		return err
	}
	if strings.TrimSpace(c.Ledger.Currency) == "" {
		return fmt.Errorf("currency must not be empty")
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("ledger", map[string]any{
		"currency":    cfg.Ledger.Currency,
		"default_vat": cfg.Ledger.DefaultVAT,
		"seed_sample": cfg.Ledger.SeedSample,
	})
	v.Set("store", map[string]any{"backend": cfg.Store.Backend})
	v.Set("log", map[string]any{"level": cfg.Log.Level, "file": cfg.Log.File})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
