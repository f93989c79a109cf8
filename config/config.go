// Package config loads server configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	HTTP     HTTPConfig
	Database DatabaseConfig
	Currency CurrencyConfig
}

// HTTPConfig holds server settings.
type HTTPConfig struct {
	Port        int
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// CurrencyConfig holds presentation settings passed through to exports.
type CurrencyConfig struct {
	Symbol string
}

// Load reads configuration from an optional config file and env.
// Env var overrides use prefix DUES_, e.g. DUES_HTTP_PORT=9000.
// path may be empty, in which case only defaults and env apply.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.cors_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("database.path", "union.db")
	v.SetDefault("currency.symbol", "GH₵")

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("DUES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
