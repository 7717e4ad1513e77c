// Package config loads strata settings from a YAML or TOML file with
// STRATA_* environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/strata/pkg/layer"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the full set of settings.
type Config struct {
	Logging Logging `yaml:"logging" toml:"logging"`
	Engine  Engine  `yaml:"engine" toml:"engine"`
	Output  Output  `yaml:"output" toml:"output"`
}

// Logging configures structured logging.
type Logging struct {
	// Level is the minimum level: trace, debug, info, warn or error.
	Level string `yaml:"level" toml:"level" validate:"oneof=trace debug info warn error"`
	// Format is json or console.
	Format string `yaml:"format" toml:"format" validate:"oneof=json console"`
	// Output is stdout, stderr or a file path.
	Output string `yaml:"output" toml:"output" validate:"required"`
}

// Engine configures script evaluation.
type Engine struct {
	// Timeout bounds a single evaluation, as a Go duration string.
	Timeout string `yaml:"timeout" toml:"timeout" validate:"required"`
	// IDStyle picks the generator for new layer ids: uuid or compact.
	IDStyle string `yaml:"id_style" toml:"id_style" validate:"oneof=uuid compact"`
}

// Output configures how documents are written.
type Output struct {
	Indent bool `yaml:"indent" toml:"indent"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info", Format: "console", Output: "stderr"},
		Engine:  Engine{Timeout: "5s", IDStyle: string(layer.IDStyleUUID)},
		Output:  Output{Indent: true},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path yields the defaults with overrides.
// The format follows the extension: .yaml, .yml or .toml.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "reading config")
		}
		if err := Parse(data, filepath.Ext(path), &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parsing %s", path)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes data in the format named by ext into cfg. Fields missing
// from data keep their current values.
func Parse(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	}
	return errors.Newf("unsupported config format %q", ext)
}

// ApplyEnv overrides settings from STRATA_LOG_LEVEL, STRATA_LOG_FORMAT,
// STRATA_LOG_OUTPUT, STRATA_TIMEOUT and STRATA_ID_STYLE.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for key, dst := range map[string]*string{
		"STRATA_LOG_LEVEL":  &c.Logging.Level,
		"STRATA_LOG_FORMAT": &c.Logging.Format,
		"STRATA_LOG_OUTPUT": &c.Logging.Output,
		"STRATA_TIMEOUT":    &c.Engine.Timeout,
		"STRATA_ID_STYLE":   &c.Engine.IDStyle,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
}

var validate = validator.New()

// Validate checks every field, including that the timeout parses as a
// positive duration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return errors.Wrap(err, "invalid config: engine timeout")
	}
	if d <= 0 {
		return errors.Newf("invalid config: engine timeout %s is not positive", d)
	}
	return nil
}

// EvalTimeout returns the parsed engine timeout. It is only meaningful on a
// validated config.
func (c Config) EvalTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Engine.Timeout)
	return d
}

// IDFunc returns the layer id generator selected by the config.
func (c Config) IDFunc() layer.IDFunc {
	return layer.Generator(layer.IDStyle(c.Engine.IDStyle))
}
