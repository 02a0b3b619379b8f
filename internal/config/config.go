package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/recon/internal/errors"
	"github.com/vango-dev/recon/pkg/reconcile"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "recon.json"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "localhost:7070"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "recon"

	// DefaultSnapshotPrefix is the default object key prefix for snapshots.
	DefaultSnapshotPrefix = "recon/"
)

// Config represents the complete recon.json configuration.
type Config struct {
	// Reconcile contains engine policy.
	Reconcile ReconcileConfig `json:"reconcile"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Inspect contains inspector server configuration.
	Inspect InspectConfig `json:"inspect"`

	// Snapshot contains S3 snapshot configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ReconcileConfig selects engine policies.
type ReconcileConfig struct {
	// AttrRefresh is "full" or "diff".
	AttrRefresh string `json:"attrRefresh"`

	// KeyCollision is "last-wins" or "error".
	KeyCollision string `json:"keyCollision"`

	// EventPrefix marks event handler props (default: "on").
	EventPrefix string `json:"eventPrefix"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level"`

	// Format is text or json.
	Format string `json:"format"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	Namespace string `json:"namespace"`
}

// InspectConfig contains inspector settings.
type InspectConfig struct {
	// Addr is the host:port the inspector listens on.
	Addr string `json:"addr"`
}

// SnapshotConfig contains snapshot upload settings.
type SnapshotConfig struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Reconcile: ReconcileConfig{
			AttrRefresh:  reconcile.AttrRefreshFull.String(),
			KeyCollision: reconcile.KeyCollisionLastWins.String(),
			EventPrefix:  reconcile.DefaultEventPrefix,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Inspect: InspectConfig{
			Addr: DefaultInspectAddr,
		},
		Snapshot: SnapshotConfig{
			Prefix: DefaultSnapshotPrefix,
		},
	}
}

// Load reads recon.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No recon.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'recon config init' to create one")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse recon.json: " + err.Error()).
			WithSuggestion("Check that recon.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
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
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Reconcile.AttrRefresh == "" {
		c.Reconcile.AttrRefresh = reconcile.AttrRefreshFull.String()
	}
	if c.Reconcile.KeyCollision == "" {
		c.Reconcile.KeyCollision = reconcile.KeyCollisionLastWins.String()
	}
	if c.Reconcile.EventPrefix == "" {
		c.Reconcile.EventPrefix = reconcile.DefaultEventPrefix
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Snapshot.Prefix == "" {
		c.Snapshot.Prefix = DefaultSnapshotPrefix
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := reconcile.ParseAttrRefresh(c.Reconcile.AttrRefresh); err != nil {
		return invalid("reconcile.attrRefresh", err.Error(), `Use "full" or "diff"`)
	}
	if _, err := reconcile.ParseKeyCollision(c.Reconcile.KeyCollision); err != nil {
		return invalid("reconcile.keyCollision", err.Error(), `Use "last-wins" or "error"`)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return invalid("log.level", err.Error(), "Use debug, info, warn or error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return invalid("log.format", "unknown format "+c.Log.Format, "Use text or json")
	}
	if c.Inspect.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Inspect.Addr); err != nil {
			return invalid("inspect.addr", err.Error(), "Use host:port, e.g. localhost:7070")
		}
	}
	if c.Snapshot.Bucket != "" && c.Snapshot.Region == "" {
		return invalid("snapshot.region", "region is required when a bucket is set", "")
	}
	return nil
}

func invalid(key, detail, suggestion string) error {
	err := errors.New("E122").WithPath(key).WithDetail(detail)
	if suggestion != "" {
		err = err.WithSuggestion(suggestion)
	}
	return err
}

// EngineOptions converts the reconcile section into engine options.
// Call it on a validated config; unparseable values fall back to defaults.
func (c *Config) EngineOptions() []reconcile.Option {
	refresh, _ := reconcile.ParseAttrRefresh(c.Reconcile.AttrRefresh)
	collision, _ := reconcile.ParseKeyCollision(c.Reconcile.KeyCollision)
	prefix := c.Reconcile.EventPrefix
	if prefix == "" {
		prefix = reconcile.DefaultEventPrefix
	}
	return []reconcile.Option{
		reconcile.WithAttrRefresh(refresh),
		reconcile.WithKeyCollision(collision),
		reconcile.WithEventPrefix(prefix),
	}
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// recon.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No recon.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'recon config init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest recon.json at or above the working
// directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return New(), nil
	}
	return Load(root)
}
