// Package config loads the YAML configuration shared by the wasm-binfmt tools.
//
// A configuration file selects decoder features, tightens parser limits and
// sets up logging and terminal output:
//
//	features:
//	  multi_value: true
//	limits:
//	  max_types: 1024
//	  max_code_locals: 4096
//	log:
//	  level: debug
//	  development: true
//	output:
//	  color: never
//
// Omitted fields keep their defaults. Unknown fields are rejected.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/features/multivalue"
	"github.com/wippyai/wasm-binfmt/features/wasm1"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the root configuration document.
type Config struct {
	Features Features `yaml:"features"`
	Limits   Limits   `yaml:"limits"`
	Log      Log      `yaml:"log"`
	Output   Output   `yaml:"output"`
}

// Features toggles optional decoder features. WebAssembly 1.0 is always on.
type Features struct {
	MultiValue bool `yaml:"multi_value"`
}

// Limits tightens parser limits. Zero leaves a limit at its default; a value
// above the default has no effect.
type Limits struct {
	MaxTypes       uint32 `yaml:"max_types"`
	MaxImports     uint32 `yaml:"max_imports"`
	MaxFunctions   uint32 `yaml:"max_functions"`
	MaxTables      uint32 `yaml:"max_tables"`
	MaxMemories    uint32 `yaml:"max_memories"`
	MaxGlobals     uint32 `yaml:"max_globals"`
	MaxExports     uint32 `yaml:"max_exports"`
	MaxCodes       uint32 `yaml:"max_codes"`
	MaxCodeLocals  uint32 `yaml:"max_code_locals"`
	MaxDataEntries uint32 `yaml:"max_data_entries"`
	MaxElemEntries uint32 `yaml:"max_elem_entries"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Output configures terminal rendering.
type Output struct {
	Color string `yaml:"color"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:    Log{Level: "warn"},
		Output: Output{Color: ColorAuto},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes a configuration document over the defaults and validates it.
// An empty document yields the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that YAML decoding cannot.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("output.color: want %s, %s or %s, got %q", ColorAuto, ColorAlways, ColorNever, c.Output.Color)
	}
	return nil
}

// DecoderFeatures returns the feature set to compose a decoder from.
func (c *Config) DecoderFeatures() []ver1.Feature {
	fs := []ver1.Feature{wasm1.Feature()}
	if c.Features.MultiValue {
		fs = append(fs, multivalue.Feature())
	}
	if c.Limits != (Limits{}) {
		fs = append(fs, ver1.LimitsFeature{Limits: ver1.Limits(c.Limits)})
	}
	return fs
}

// Logger builds the zap logger described by c.Log. Logs go to stderr.
func (c *Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return l, nil
}
