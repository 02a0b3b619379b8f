package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/recon/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Reconcile.AttrRefresh != "full" {
		t.Errorf("Reconcile.AttrRefresh = %q, want %q", cfg.Reconcile.AttrRefresh, "full")
	}
	if cfg.Reconcile.KeyCollision != "last-wins" {
		t.Errorf("Reconcile.KeyCollision = %q, want %q", cfg.Reconcile.KeyCollision, "last-wins")
	}
	if cfg.Inspect.Addr != DefaultInspectAddr {
		t.Errorf("Inspect.Addr = %q, want %q", cfg.Inspect.Addr, DefaultInspectAddr)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if errors.CodeOf(err) != "E141" {
		t.Errorf("missing config error = %v, want E141", err)
	}

	configJSON := `{
  "reconcile": {
    "attrRefresh": "diff",
    "keyCollision": "error"
  },
  "log": {
    "level": "debug"
  },
  "snapshot": {
    "bucket": "snaps",
    "region": "eu-west-1"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Reconcile.AttrRefresh != "diff" || cfg.Reconcile.KeyCollision != "error" {
		t.Errorf("Reconcile = %+v", cfg.Reconcile)
	}
	if cfg.Reconcile.EventPrefix != "on" {
		t.Errorf("EventPrefix default not applied: %q", cfg.Reconcile.EventPrefix)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel())
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want text", cfg.Log.Format)
	}
	if cfg.Snapshot.Bucket != "snaps" || cfg.Snapshot.Prefix != DefaultSnapshotPrefix {
		t.Errorf("Snapshot = %+v", cfg.Snapshot)
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path = %q", cfg.Path())
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(configPath, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if errors.CodeOf(err) != "E120" {
		t.Errorf("Expected E120 error, got: %v", err)
	}
}

func TestLoadFile_InvalidValue(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(configPath, []byte(`{"reconcile":{"attrRefresh":"sometimes"}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if errors.CodeOf(err) != "E122" {
		t.Errorf("Expected E122 error, got: %v", err)
	}
}

func TestSave(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := New()
	cfg.Inspect.Addr = "0.0.0.0:9000"

	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Inspect.Addr != "0.0.0.0:9000" {
		t.Errorf("Inspect.Addr = %q", loaded.Inspect.Addr)
	}

	loaded.Log.Format = "json"
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	reloaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if reloaded.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", reloaded.Log.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"attr refresh", func(c *Config) { c.Reconcile.AttrRefresh = "partial" }, "reconcile.attrRefresh"},
		{"key collision", func(c *Config) { c.Reconcile.KeyCollision = "first-wins" }, "reconcile.keyCollision"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"inspect addr", func(c *Config) { c.Inspect.Addr = "7070" }, "inspect.addr"},
		{"snapshot region", func(c *Config) { c.Snapshot.Bucket = "b" }, "snapshot.region"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			re, ok := err.(*errors.Error)
			if !ok {
				t.Fatalf("Validate = %v, want *errors.Error", err)
			}
			if re.Code != "E122" || re.Path != tt.path {
				t.Errorf("got %s at %q, want E122 at %q", re.Code, re.Path, tt.path)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	cfg := New()
	cfg.Reconcile.EventPrefix = ""
	if got := len(cfg.EngineOptions()); got != 3 {
		t.Errorf("EngineOptions = %d options, want 3", got)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := FindProjectRoot(nested); errors.CodeOf(err) != "E141" {
		t.Errorf("expected E141 before recon.json exists, got %v", err)
	}

	if err := New().SaveTo(filepath.Join(root, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	if !Exists(root) {
		t.Error("Exists should report the saved file")
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.EvalSymlinks(root)
	if got != root && got != want {
		t.Errorf("FindProjectRoot = %q, want %q", got, root)
	}
}
