// Package config loads PagePress settings with Viper.
// Precedence is defaults < config file < PAGEPRESS_* environment variables
// < flags bound by the caller.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so "log.level"
// is read from PAGEPRESS_LOG_LEVEL.
const EnvPrefix = "pagepress"

// ConfigOption describes one configuration key.
type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the configuration keys, their defaults and
// what they mean. It is the single source of truth for defaults.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "http_addr", Default: ":8001", Comment: "Listen address for the HTTP service"},
		{Key: "output_dir", Default: "", Comment: "Directory for CLI output files; empty means the working directory"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn or error"},
		{Key: "log.format", Default: "json", Comment: "Log format: json or text"},

		{Key: "themes.default", Default: "mocha-minimalist", Comment: "Theme used when none is requested"},
		{Key: "themes.dir", Default: "", Comment: "Directory of <name>.css files overriding or adding themes"},

		{Key: "render.sanitize", Default: false, Comment: "Strip unsafe HTML from rendered output"},
		{Key: "render.title", Default: "Converted Document", Comment: "Page title when the document declares none"},

		{Key: "server.cors_origins", Default: []string{}, Comment: "Allowed CORS origins; empty allows all"},
		{Key: "server.max_body_bytes", Default: 1 << 20, Comment: "Largest accepted request body in bytes"},
		{Key: "server.shutdown_timeout", Default: "10s", Comment: "Grace period for in-flight requests on shutdown"},

		{Key: "fetch.timeout", Default: "30s", Comment: "Timeout for fetching URL sources"},
		{Key: "fetch.user_agent", Default: "PagePress/1.0", Comment: "User-Agent sent when fetching URL sources"},

		{Key: "crawl.max_pages", Default: 100, Comment: "Most pages converted by convert --all"},
	}
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration into v. A config file set upstream with
// SetConfigFile must exist; otherwise a "config" file is looked up in the
// usual places and is optional.
func Load(ctx context.Context, v *viper.Viper) error {
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "pagepress"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pagepress"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// PAGEPRESS_SERVER_CORS_ORIGINS arrives as one comma-separated string.
	if s, ok := v.Get("server.cors_origins").(string); ok {
		v.Set("server.cors_origins", splitList(s))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// CheckConfigValidity reports every invalid setting at once.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error

	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	switch v.GetString("log.level") {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q must be debug, info, warn or error", v.GetString("log.level")))
	}
	switch v.GetString("log.format") {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be json or text", v.GetString("log.format")))
	}
	if strings.TrimSpace(v.GetString("themes.default")) == "" {
		errs = append(errs, errors.New("themes.default is required"))
	}
	if dir := v.GetString("themes.dir"); dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("themes.dir %q is not a directory", dir))
		}
	}
	if v.GetInt64("server.max_body_bytes") <= 0 {
		errs = append(errs, errors.New("server.max_body_bytes must be greater than 0"))
	}
	if v.GetInt("crawl.max_pages") <= 0 {
		errs = append(errs, errors.New("crawl.max_pages must be greater than 0"))
	}
	for _, key := range []string{"server.shutdown_timeout", "fetch.timeout"} {
		if d, err := time.ParseDuration(v.GetString(key)); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive duration", key))
		}
	}
	return errors.Join(errs...)
}
