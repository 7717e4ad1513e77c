package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Second, cfg.EvalTimeout())
	assert.NotEmpty(t, cfg.IDFunc()())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		ext  string
		data string
	}{
		{".yaml", "logging:\n  level: debug\nengine:\n  timeout: 2s\n  id_style: compact\n"},
		{".yml", "logging:\n  level: debug\nengine:\n  timeout: 2s\n  id_style: compact\n"},
		{".toml", "[logging]\nlevel = \"debug\"\n\n[engine]\ntimeout = \"2s\"\nid_style = \"compact\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, Parse([]byte(tt.data), tt.ext, &cfg))
			require.NoError(t, cfg.Validate())

			assert.Equal(t, "debug", cfg.Logging.Level)
			assert.Equal(t, "console", cfg.Logging.Format, "unset fields keep defaults")
			assert.Equal(t, 2*time.Second, cfg.EvalTimeout())
			assert.Equal(t, "compact", cfg.Engine.IDStyle)
		})
	}
}

func TestParseUnknownFormat(t *testing.T) {
	cfg := Default()
	require.Error(t, Parse([]byte("{}"), ".json", &cfg))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level", func(c *Config) { c.Logging.Level = "loud" }},
		{"format", func(c *Config) { c.Logging.Format = "xml" }},
		{"output", func(c *Config) { c.Logging.Output = "" }},
		{"id style", func(c *Config) { c.Engine.IDStyle = "serial" }},
		{"timeout syntax", func(c *Config) { c.Engine.Timeout = "soon" }},
		{"timeout sign", func(c *Config) { c.Engine.Timeout = "-1s" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STRATA_LOG_LEVEL": "warn",
		"STRATA_TIMEOUT":   "250ms",
		"STRATA_ID_STYLE":  "",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 250*time.Millisecond, cfg.EvalTimeout())
	assert.Equal(t, "uuid", cfg.Engine.IDStyle, "empty values are ignored")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strata.toml")
	require.NoError(t, os.WriteFile(path, []byte("[output]\nindent = false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Output.Indent)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("engine:\n  timeout: never\n"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}
