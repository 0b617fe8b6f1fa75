package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API   APIConfig
	Site  SiteConfig
	State StateConfig
	Log   LogConfig
}

// APIConfig holds listings API settings.
type APIConfig struct {
	BaseURL   string  `mapstructure:"base_url"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second
}

// SiteConfig holds the public site used for "open in browser" links.
type SiteConfig struct {
	URL string
}

// StateConfig locates the persisted key-value file.
type StateConfig struct {
	Path string
}

// LogConfig controls where diagnostics go while the TUI owns the terminal.
type LogConfig struct {
	File string
}

// Load reads configuration from file and env. Env var overrides use prefix EARN_.
// An explicit path must exist; the default location is optional.
func Load(path string) (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()

	// default values
	v.SetDefault("api.base_url", "https://earn.superteam.fun/api")
	v.SetDefault("api.rate_limit", 4.0)
	v.SetDefault("site.url", "https://earn.superteam.fun")
	v.SetDefault("state.path", filepath.Join(home, ".local", "state", "earn", "state.json"))
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "earn", "earn.log"))

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("EARN_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "earn"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("EARN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	c.Site.URL = strings.TrimRight(c.Site.URL, "/")
	return c, nil
}
