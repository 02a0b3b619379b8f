package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/recon/internal/config"
	"github.com/vango-dev/recon/internal/errors"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := run(t, "config", "init", dir); err != nil {
		t.Fatal(err)
	}
	return filepath.Join(dir, config.ConfigFileName)
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	path := writeConfig(t)

	if _, err := run(t, "config", "init", filepath.Dir(path)); errors.CodeOf(err) != "E120" {
		t.Errorf("second init = %v, want E120", err)
	}
	if _, err := run(t, "config", "init", "--force", filepath.Dir(path)); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err := run(t, "--config", path, "--log-format", "json", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("show output is not JSON: %v\n%s", err, out)
	}
	if cfg.Log.Format != "json" || cfg.Reconcile.AttrRefresh != "full" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestInvalidOverride(t *testing.T) {
	path := writeConfig(t)
	if _, err := run(t, "--config", path, "--log-level", "loud", "config", "show"); errors.CodeOf(err) != "E122" {
		t.Errorf("err = %v, want E122", err)
	}
}

func TestDemo(t *testing.T) {
	path := writeConfig(t)
	out, err := run(t, "--config", path, "demo", "--stats")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"# mount",
		"# increment",
		"# reverse list",
		"count: 1",
		"# mutations by type",
		"Played 6 steps",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSnapshotNeedsBucket(t *testing.T) {
	path := writeConfig(t)
	if _, err := run(t, "--config", path, "snapshot", "list"); errors.CodeOf(err) != "E151" {
		t.Errorf("err = %v, want E151", err)
	}
}
