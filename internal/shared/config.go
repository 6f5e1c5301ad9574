package shared

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

var validate = validator.New()

// Environment variables that override values loaded from the TOML file.
const (
	EnvDatabasePath = "FSH_DATABASE_PATH"
	EnvLogLevel     = "FSH_LOG_LEVEL"
	EnvLogFile      = "FSH_LOG_FILE"
	EnvPhoneRegion  = "FSH_PHONE_REGION"
	EnvMaxOpenConns = "FSH_MAX_OPEN_CONNS"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Locale   LocaleConfig   `toml:"locale"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path" validate:"required"`
	MaxOpenConns int    `toml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `toml:"max_idle_conns" validate:"gte=0"`
}

// LogConfig controls log verbosity and the rotating log file used by the TUI.
type LogConfig struct {
	Level     string `toml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb" validate:"gte=0"`
	MaxFiles  int    `toml:"max_files" validate:"gte=0"`
}

// LocaleConfig holds display settings.
type LocaleConfig struct {
	PhoneRegion string `toml:"phone_region" validate:"omitempty,len=2,uppercase"`
}

// LoadConfig decodes the TOML file at path over [DefaultConfig], so keys the file omits keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// ResolveConfig loads the config at path with [LoadConfig], or uses [DefaultConfig] when the file is missing.
// Environment overrides are applied and the result is validated.
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// LoadEnvFile loads KEY=value pairs from a dotenv file into the process environment.
//
// A missing file is not an error. Variables already set in the environment win.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides config values with FSH_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvDatabasePath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvPhoneRegion); v != "" {
		c.Locale.PhoneRegion = v
	}
	if v := os.Getenv(EnvMaxOpenConns); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvMaxOpenConns, v)
		}
		c.Database.MaxOpenConns = n
	}
	return nil
}

// Validate checks the config against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
