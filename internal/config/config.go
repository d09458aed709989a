package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/lattice/internal/errors"
	"github.com/vango-dev/lattice/pkg/env"
	"github.com/vango-dev/lattice/pkg/layout"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "lattice.json"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultSnapshotDir is where file snapshots are stored.
	DefaultSnapshotDir = "testdata/snapshots"

	// DefaultLogLevel is the level used when logLevel is unset.
	DefaultLogLevel = "info"

	// DefaultMetricsNamespace prefixes every exported metric.
	DefaultMetricsNamespace = "lattice"
)

// Config represents the complete lattice.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"logLevel,omitempty"`

	// Layout contains the defaults applied by layout passes.
	Layout LayoutConfig `json:"layout"`

	// Inspect contains inspector server settings.
	Inspect InspectConfig `json:"inspect"`

	// Snapshots selects where golden snapshots are stored.
	Snapshots SnapshotConfig `json:"snapshots"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LayoutConfig contains layout defaults.
type LayoutConfig struct {
	// Spacing is the gap between stack children that do not set one.
	Spacing float64 `json:"spacing"`

	// Alignment is the default cross-axis alignment: start, center or end.
	Alignment string `json:"alignment,omitempty"`

	// Width and Height are the default proposal for the layout command.
	// Zero means unbounded.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// InspectConfig contains inspector server settings.
type InspectConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// MetricsNamespace prefixes exported Prometheus metrics.
	MetricsNamespace string `json:"metricsNamespace,omitempty"`

	// Tracing enables OpenTelemetry spans for batches and passes.
	Tracing bool `json:"tracing,omitempty"`
}

// SnapshotConfig selects snapshot storage. When S3 is set, snapshots go to
// the bucket; otherwise they are files under Dir.
type SnapshotConfig struct {
	// Dir is the snapshot directory, relative to the config file.
	Dir string `json:"dir,omitempty"`

	// S3 stores snapshots in an S3 bucket instead of on disk.
	S3 *S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 snapshot storage settings.
type S3Config struct {
	Bucket       string `json:"bucket"`
	Prefix       string `json:"prefix,omitempty"`
	Region       string `json:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	def := layout.DefaultConfig()
	return &Config{
		LogLevel: DefaultLogLevel,
		Layout: LayoutConfig{
			Spacing:   def.Spacing,
			Alignment: def.Alignment.String(),
		},
		Inspect: InspectConfig{
			Host:             DefaultHost,
			Port:             DefaultPort,
			MetricsNamespace: DefaultMetricsNamespace,
		},
		Snapshots: SnapshotConfig{
			Dir: DefaultSnapshotDir,
		},
	}
}

// Load reads configuration from the specified directory. A directory
// without lattice.json yields the defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := New()
		cfg.configPath = path
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		le := errors.New("E101").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
		if syn, ok := err.(*json.SyntaxError); ok {
			le.WithOffset(path, data, syn.Offset-1)
		}
		return nil, le
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E101").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E101").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Layout.Alignment == "" {
		c.Layout.Alignment = layout.DefaultConfig().Alignment.String()
	}
	if c.Inspect.Host == "" {
		c.Inspect.Host = DefaultHost
	}
	if c.Inspect.Port == 0 {
		c.Inspect.Port = DefaultPort
	}
	if c.Inspect.MetricsNamespace == "" {
		c.Inspect.MetricsNamespace = DefaultMetricsNamespace
	}
	if c.Snapshots.Dir == "" {
		c.Snapshots.Dir = DefaultSnapshotDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspect.Port < 1 || c.Inspect.Port > 65535 {
		return errors.New("E102").
			WithDetailf("inspect.port is %d; it must be between 1 and 65535", c.Inspect.Port)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.Layout.Spacing < 0 {
		return errors.New("E104").
			WithDetailf("layout.spacing is %g; it must not be negative", c.Layout.Spacing)
	}
	if _, err := layout.ParseAlignment(c.Layout.Alignment); err != nil {
		return errors.New("E104").Wrap(err).
			WithSuggestion("Use start, center or end")
	}
	if c.Layout.Width < 0 || c.Layout.Height < 0 {
		return errors.New("E104").
			WithDetail("layout.width and layout.height must not be negative")
	}
	if c.Snapshots.S3 != nil && strings.TrimSpace(c.Snapshots.S3.Bucket) == "" {
		return errors.New("E105")
	}
	return nil
}

// SlogLevel converts LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, errors.New("E103").
			WithDetailf("logLevel is %q; it must be one of debug, info, warn or error", c.LogLevel)
	}
	return level, nil
}

// InspectAddress returns the listen address of the inspector.
func (c *Config) InspectAddress() string {
	return net.JoinHostPort(c.Inspect.Host, strconv.Itoa(c.Inspect.Port))
}

// InspectURL returns the base URL of the inspector.
func (c *Config) InspectURL() string {
	return "http://" + c.InspectAddress()
}

// Environment returns the layout environment described by the config.
// Validate should have succeeded first; an unknown alignment falls back to
// the default.
func (c *Config) Environment() *env.Environment {
	e := env.With(env.New(), layout.SpacingKey, c.Layout.Spacing)
	if a, err := layout.ParseAlignment(c.Layout.Alignment); err == nil {
		e = env.With(e, layout.AlignmentKey, a)
	}
	return e
}

// DefaultProposal returns the configured proposal for the layout command.
func (c *Config) DefaultProposal() layout.Proposal {
	return layout.Proposal{
		Width:  extent(c.Layout.Width),
		Height: extent(c.Layout.Height),
	}
}

func extent(v float64) layout.Extent {
	if v <= 0 {
		return layout.Unbounded
	}
	return layout.Fixed(v)
}

// SnapshotsPath returns the absolute snapshot directory.
func (c *Config) SnapshotsPath() string {
	if filepath.IsAbs(c.Snapshots.Dir) {
		return c.Snapshots.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshots.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the one containing
// lattice.json. It reports false when none is found.
func FindProjectRoot(startDir string) (string, bool, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	for {
		if Exists(dir) {
			return dir, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest lattice.json at or above the working
// directory, or the defaults rooted at the working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, ok, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	if !ok {
		root = wd
	}
	return Load(root)
}
