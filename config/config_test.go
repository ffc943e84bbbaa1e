package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/wasm-binfmt/binfmt/ver1"
	"github.com/wippyai/wasm-binfmt/config"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wasm-binfmt.yaml")
	doc := `
features:
  multi_value: true
limits:
  max_types: 16
  max_code_locals: 8
log:
  level: debug
  development: true
output:
  color: never
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := &config.Config{
		Features: config.Features{MultiValue: true},
		Limits:   config.Limits{MaxTypes: 16, MaxCodeLocals: 8},
		Log:      config.Log{Level: "debug", Development: true},
		Output:   config.Output{Color: config.ColorNever},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	f, err := ver1.Compose(cfg.DecoderFeatures()...)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	p := f.Params()
	if !p.AllowMultiValue {
		t.Error("multi-value not enabled")
	}
	if p.Limits.MaxTypes != 16 || p.Limits.MaxCodeLocals != 8 {
		t.Errorf("limits = %+v", p.Limits)
	}
	if p.Limits.MaxImports != ver1.DefaultLimits().MaxImports {
		t.Errorf("MaxImports = %d, want default", p.Limits.MaxImports)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Errorf("empty document mismatch (-want +got):\n%s", diff)
	}
	if n := len(cfg.DecoderFeatures()); n != 1 {
		t.Errorf("default features = %d, want wasm1 only", n)
	}

	cfg, err = config.Parse(strings.NewReader("output:\n  color: always\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Log.Level != "warn" || cfg.Output.Color != config.ColorAlways {
		t.Errorf("partial document = %+v", cfg)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown field", "feature:\n  multi_value: true\n", "field feature not found"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"bad color", "output:\n  color: rainbow\n", "output.color"},
		{"bad type", "limits:\n  max_types: many\n", "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil || !os.IsNotExist(errors.Cause(err)) {
		t.Errorf("Load() error = %v", err)
	}
}

func TestLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "error"
	l, err := cfg.Logger()
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled at error level")
	}
	if !l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("error level disabled")
	}
}
