package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/lattice/internal/errors"
	"github.com/vango-dev/lattice/pkg/env"
	"github.com/vango-dev/lattice/pkg/layout"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Inspect.Port != DefaultPort {
		t.Errorf("Inspect.Port = %d, want %d", cfg.Inspect.Port, DefaultPort)
	}
	if cfg.Inspect.Host != DefaultHost {
		t.Errorf("Inspect.Host = %q, want %q", cfg.Inspect.Host, DefaultHost)
	}
	if cfg.Layout.Spacing != 8 {
		t.Errorf("Layout.Spacing = %g, want 8", cfg.Layout.Spacing)
	}
	if cfg.Layout.Alignment != "center" {
		t.Errorf("Layout.Alignment = %q, want center", cfg.Layout.Alignment)
	}
	if cfg.Snapshots.Dir != DefaultSnapshotDir {
		t.Errorf("Snapshots.Dir = %q, want %q", cfg.Snapshots.Dir, DefaultSnapshotDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("missing config should yield defaults, got %v", err)
	}
	if cfg.Inspect.Port != DefaultPort {
		t.Errorf("Inspect.Port = %d, want default", cfg.Inspect.Port)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}

	configJSON := `{
  "name": "dashboard",
  "logLevel": "debug",
  "layout": {"spacing": 0, "alignment": "start", "width": 320},
  "inspect": {"port": 9090, "tracing": true},
  "snapshots": {"s3": {"bucket": "goldens", "prefix": "dash/", "region": "eu-west-1"}}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err = Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "dashboard" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Layout.Spacing != 0 {
		t.Errorf("explicit zero spacing should survive, got %g", cfg.Layout.Spacing)
	}
	if cfg.Layout.Alignment != "start" {
		t.Errorf("Layout.Alignment = %q", cfg.Layout.Alignment)
	}
	if cfg.Inspect.Port != 9090 || !cfg.Inspect.Tracing {
		t.Errorf("unexpected inspect config %+v", cfg.Inspect)
	}
	if cfg.Inspect.Host != DefaultHost {
		t.Errorf("unset host should default, got %q", cfg.Inspect.Host)
	}
	if cfg.Snapshots.S3 == nil || cfg.Snapshots.S3.Bucket != "goldens" {
		t.Fatalf("unexpected snapshot config %+v", cfg.Snapshots)
	}
	if cfg.Snapshots.Dir != DefaultSnapshotDir {
		t.Errorf("Snapshots.Dir = %q", cfg.Snapshots.Dir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("{\n  \"name\": \"x\",\n  oops\n}"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !errors.Is(err, "E101") {
		t.Errorf("expected E101, got %v", err)
	}
	le := err.(*errors.LatticeError)
	if le.Location == nil || le.Location.Line != 3 {
		t.Errorf("expected location on line 3, got %+v", le.Location)
	}
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	if err := cfg.Save(); err == nil {
		t.Error("Save without a path should fail")
	}

	cfg.Name = "saved"
	cfg.Inspect.Port = 8181
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("saved file should end with a newline")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Name != "saved" || loaded.Inspect.Port != 8181 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   string
	}{
		{"port too low", func(c *Config) { c.Inspect.Port = 0 }, "E102"},
		{"port too high", func(c *Config) { c.Inspect.Port = 70000 }, "E102"},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, "E103"},
		{"negative spacing", func(c *Config) { c.Layout.Spacing = -1 }, "E104"},
		{"bad alignment", func(c *Config) { c.Layout.Alignment = "diagonal" }, "E104"},
		{"negative width", func(c *Config) { c.Layout.Width = -5 }, "E104"},
		{"s3 without bucket", func(c *Config) { c.Snapshots.S3 = &S3Config{Prefix: "x/"} }, "E105"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		cfg := New()
		cfg.LogLevel = name
		got, err := cfg.SlogLevel()
		if err != nil || got != want {
			t.Errorf("SlogLevel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
}

func TestInspectAddress(t *testing.T) {
	cfg := New()
	if got := cfg.InspectAddress(); got != "localhost:7070" {
		t.Errorf("InspectAddress() = %q", got)
	}
	cfg.Inspect.Host = "::1"
	if got := cfg.InspectURL(); got != "http://[::1]:7070" {
		t.Errorf("InspectURL() = %q", got)
	}
}

func TestEnvironment(t *testing.T) {
	cfg := New()
	cfg.Layout.Spacing = 2
	cfg.Layout.Alignment = "end"

	e := cfg.Environment()
	if got := env.Value(e, layout.SpacingKey); got != 2 {
		t.Errorf("spacing = %g, want 2", got)
	}
	if got := env.Value(e, layout.AlignmentKey); got != layout.AlignEnd {
		t.Errorf("alignment = %v, want end", got)
	}
}

func TestDefaultProposal(t *testing.T) {
	cfg := New()
	p := cfg.DefaultProposal()
	if p.Width.Bounded() || p.Height.Bounded() {
		t.Errorf("zero dimensions should be unbounded, got %v", p)
	}

	cfg.Layout.Width = 320
	p = cfg.DefaultProposal()
	if w, ok := p.Width.Value(); !ok || w != 320 {
		t.Errorf("expected width 320, got %v", p.Width)
	}
}

func TestSnapshotsPath(t *testing.T) {
	cfg, err := Load("/srv/app")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.SnapshotsPath(); got != filepath.Join("/srv/app", DefaultSnapshotDir) {
		t.Errorf("SnapshotsPath() = %q", got)
	}
	cfg.Snapshots.Dir = "/var/goldens"
	if got := cfg.SnapshotsPath(); got != "/var/goldens" {
		t.Errorf("absolute dir should be kept, got %q", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "scenes", "cards")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := FindProjectRoot(nested); err != nil || ok {
		t.Fatalf("expected no root yet, got ok=%v err=%v", ok, err)
	}

	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !Exists(root) {
		t.Error("Exists should report the config")
	}

	found, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: ok=%v err=%v", ok, err)
	}
	want, _ := filepath.EvalSymlinks(root)
	got, _ := filepath.EvalSymlinks(found)
	if got != want {
		t.Errorf("FindProjectRoot = %q, want %q", got, want)
	}
}
