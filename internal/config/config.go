package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/glefebvre/mediathek/internal/description"
	"github.com/glefebvre/mediathek/internal/errors"
	"github.com/spf13/viper"
)

// DefaultMaxDescriptionLength is the number of characters a film description
// keeps before it is cut and marked as truncated.
const DefaultMaxDescriptionLength = description.DefaultMaxLength

// Config holds the application configuration
type Config struct {
	Description DescriptionConfig `mapstructure:"description"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	API         APIConfig         `mapstructure:"api"`
}

// DescriptionConfig holds description normalization settings
type DescriptionConfig struct {
	MaxLength int `mapstructure:"max_length"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Legacy field (deprecated but supported)
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`

	App LogLevelConfig `mapstructure:"app"`
	API LogLevelConfig `mapstructure:"api"`
}

// LogLevelConfig represents log level configuration for a specific component
type LogLevelConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// APIConfig holds API server settings
type APIConfig struct {
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

var cfg *Config

// bindEnvWithAlternatives binds a viper key to environment variables with alternative names
// This allows supporting both MEDIATHEK_API_PORT and API_PORT for the same config key
func bindEnvWithAlternatives(key string, alternatives ...string) {
	viper.BindEnv(key)
	for _, alt := range alternatives {
		if value := os.Getenv(alt); value != "" {
			viper.Set(key, value)
			break
		}
	}
}

// Load reads configuration from file and environment variables
func Load() error {
	return LoadFile("")
}

// LoadFile reads configuration from an explicit file, or searches the default
// locations when path is empty
func LoadFile(path string) error {
	viper.Reset()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/mediathek")
	}

	setDefaults()

	viper.SetEnvPrefix("MEDIATHEK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	bindEnvWithAlternatives("description.max_length", "MAX_DESCRIPTION")

	bindEnvWithAlternatives("logging.level", "LOG_LEVEL")
	viper.BindEnv("logging.format")
	viper.BindEnv("logging.app.level")
	viper.BindEnv("logging.api.level")

	bindEnvWithAlternatives("api.port", "API_PORT")
	viper.BindEnv("api.cors_origins")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if os.IsNotExist(err) {
				return errors.Wrap(err, errors.CodeMissingConfig, "failed to read config file")
			}
			return errors.ConfigError("failed to read config file", err)
		}
	}

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return errors.ConfigError("failed to unmarshal config", err)
	}

	if err := loaded.Validate(); err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "configuration validation failed")
	}

	cfg = loaded
	return nil
}

// Get returns the current configuration, falling back to defaults when
// nothing was loaded
func Get() *Config {
	if cfg == nil {
		return Defaults()
	}
	return cfg
}

// Defaults returns the configuration used when no file or environment is present
func Defaults() *Config {
	return &Config{
		Description: DescriptionConfig{MaxLength: DefaultMaxDescriptionLength},
		Logging:     LoggingConfig{Format: "json"},
		API:         APIConfig{Port: 8080, CORSOrigins: []string{"*"}},
	}
}

func setDefaults() {
	defaults := Defaults()

	viper.SetDefault("description.max_length", defaults.Description.MaxLength)

	viper.SetDefault("logging.format", defaults.Logging.Format)

	viper.SetDefault("api.port", defaults.API.Port)
	viper.SetDefault("api.cors_origins", defaults.API.CORSOrigins)
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.Description.MaxLength <= 0 {
		return fmt.Errorf("description.max_length must be positive, got %d", c.Description.MaxLength)
	}

	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port must be between 0 and 65535, got %d", c.API.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats := map[string]bool{"json": true, "text": true}

	if c.Logging.Format != "" && !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	if c.Logging.App.Level != "" && !validLevels[c.Logging.App.Level] {
		return fmt.Errorf("logging.app.level must be one of: debug, info, warn, error")
	}

	if c.Logging.API.Level != "" && !validLevels[c.Logging.API.Level] {
		return fmt.Errorf("logging.api.level must be one of: debug, info, warn, error")
	}

	return nil
}

// GetAppLogLevel returns the log level for application logging
// Priority: logging.app.level → logging.level → "info"
func (c *Config) GetAppLogLevel() string {
	if c.Logging.App.Level != "" {
		return c.Logging.App.Level
	}
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}

// GetAPILogLevel returns the log level for HTTP API logging
// Priority: logging.api.level → logging.level → "info"
func (c *Config) GetAPILogLevel() string {
	if c.Logging.API.Level != "" {
		return c.Logging.API.Level
	}
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	return "info"
}

// IsUsingLegacyLogging returns true if using deprecated logging.level
func (c *Config) IsUsingLegacyLogging() bool {
	return c.Logging.Level != "" && c.Logging.App.Level == "" && c.Logging.API.Level == ""
}
