package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	v := viper.New()
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, ":8001", v.GetString("http_addr"))
	assert.Equal(t, "mocha-minimalist", v.GetString("themes.default"))
	assert.Equal(t, 10*time.Second, v.GetDuration("server.shutdown_timeout"))
	assert.EqualValues(t, 1<<20, v.GetInt64("server.max_body_bytes"))
	assert.False(t, v.GetBool("render.sanitize"))
	require.NoError(t, CheckConfigValidity(v))
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagepress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":9000\"\nthemes:\n  default: dark-sage\nlog:\n  level: debug\n"), 0o644))
	t.Setenv("PAGEPRESS_LOG_LEVEL", "warn")
	t.Setenv("PAGEPRESS_SERVER_CORS_ORIGINS", "https://a.test, https://b.test")

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, Load(context.Background(), v))

	assert.Equal(t, ":9000", v.GetString("http_addr"))
	assert.Equal(t, "dark-sage", v.GetString("themes.default"))
	assert.Equal(t, "warn", v.GetString("log.level"))
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, v.GetStringSlice("server.cors_origins"))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, Load(context.Background(), v))
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := viper.New()
	v.Set("http_addr", "")
	v.Set("log.level", "loud")
	v.Set("log.format", "xml")
	v.Set("themes.default", "")
	v.Set("themes.dir", filepath.Join(t.TempDir(), "absent"))
	v.Set("server.max_body_bytes", 0)
	v.Set("server.shutdown_timeout", "soon")
	v.Set("fetch.timeout", "-1s")

	err := CheckConfigValidity(v)
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"http_addr is required",
		`log.level "loud"`,
		`log.format "xml"`,
		"themes.default is required",
		"themes.dir",
		"server.max_body_bytes must be greater than 0",
		"server.shutdown_timeout must be a positive duration",
		"fetch.timeout must be a positive duration",
	} {
		assert.True(t, strings.Contains(msg, want), "expected %q in %q", want, msg)
	}
}
