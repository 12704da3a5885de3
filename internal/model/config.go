package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultBackendURL is used when no backend URL is configured.
const DefaultBackendURL = "http://localhost:3000"

// envPrefix namespaces environment overrides, e.g. FAQCHAT_BACKEND_URL.
const envPrefix = "FAQCHAT"

// HTTPConfig holds transport settings for the backend client.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// StatusConfig controls the request status indicator.
type StatusConfig struct {
	// ResetDelay is how long a settled status stays visible before
	// returning to idle.
	ResetDelay time.Duration `mapstructure:"reset_delay" yaml:"reset_delay"`
}

// SuggestionsConfig controls the related-questions sidebar.
type SuggestionsConfig struct {
	Limit int `mapstructure:"limit" yaml:"limit"`
}

// LogConfig holds diagnostic log settings. The log always goes to a
// file because the terminal belongs to the UI.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// HistoryConfig holds the opt-in transcript store settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// BackendURL is the base URL for /api/ask and /api/search.
	BackendURL  string            `mapstructure:"backend_url" yaml:"backend_url"`
	HTTP        HTTPConfig        `mapstructure:"http" yaml:"http"`
	Status      StatusConfig      `mapstructure:"status" yaml:"status"`
	Suggestions SuggestionsConfig `mapstructure:"suggestions" yaml:"suggestions"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
	History     HistoryConfig     `mapstructure:"history" yaml:"history"`
}

// BaseURL returns the backend base URL with surrounding whitespace and a
// single trailing slash removed, falling back to DefaultBackendURL.
func (c *AppConfig) BaseURL() string {
	u := strings.TrimSpace(c.BackendURL)
	if u == "" {
		return DefaultBackendURL
	}
	return strings.TrimSuffix(u, "/")
}

// ConfigDir returns ~/.config/faqchat, or the working directory when the
// home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "faqchat")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/faqchat/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		HTTP:        HTTPConfig{Timeout: 30 * time.Second},
		Status:      StatusConfig{ResetDelay: 1400 * time.Millisecond},
		Suggestions: SuggestionsConfig{Limit: 10},
		Log: LogConfig{
			File:  filepath.Join(dir, "faqchat.log"),
			Level: "info",
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    filepath.Join(dir, "history.db"),
		},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"backend-url": "backend_url",
	"log-level":   "log.level",
	"history":     "history.enabled",
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with FAQCHAT_ and any changed flags in
// flags override file values. If the file does not exist, defaults apply.
func LoadConfig(path string, flags *pflag.FlagSet) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("backend_url", "")
	v.SetDefault("http.timeout", def.HTTP.Timeout)
	v.SetDefault("status.reset_delay", def.Status.ResetDelay)
	v.SetDefault("suggestions.limit", def.Suggestions.Limit)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.path", def.History.Path)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Suggestions.Limit <= 0 {
		cfg.Suggestions.Limit = def.Suggestions.Limit
	}
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = def.HTTP.Timeout
	}
	if cfg.Status.ResetDelay <= 0 {
		cfg.Status.ResetDelay = def.Status.ResetDelay
	}

	return cfg, nil
}

// SaveBackendURL stores backendURL in the YAML file at path, creating
// the file and its parent directories if needed. Only the file's own
// contents are read back and rewritten, so environment and flag
// overrides of the running process are never persisted.
func SaveBackendURL(path string, backendURL string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	v.Set("backend_url", strings.TrimSpace(backendURL))

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
