package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.SyncTimeout != 50*time.Millisecond {
		t.Errorf("sync timeout = %v", cfg.SyncTimeout)
	}
	if cfg.LogFile != "" {
		t.Errorf("log file = %q", cfg.LogFile)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
manifest_path: /opt/app/actions.json
default_bindings_dir: /opt/app/bindings
bindings_dir: /home/user/.config/xrizer/bindings
log_file: /tmp/xrizer.xlog
sync_timeout: 100ms
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ManifestPath != "/opt/app/actions.json" {
		t.Errorf("manifest = %q", cfg.ManifestPath)
	}
	if cfg.BindingsDir != "/home/user/.config/xrizer/bindings" {
		t.Errorf("bindings dir = %q", cfg.BindingsDir)
	}
	if cfg.SyncTimeout != 100*time.Millisecond {
		t.Errorf("sync timeout = %v", cfg.SyncTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bindings_dir: /from/file\nsync_timeout: 30ms\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvBindingsDir, "/from/env")
	t.Setenv(EnvLogFile, "/tmp/env.xlog")
	t.Setenv(EnvSyncTimeout, "75ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BindingsDir != "/from/env" {
		t.Errorf("bindings dir = %q, env should win", cfg.BindingsDir)
	}
	if cfg.LogFile != "/tmp/env.xlog" {
		t.Errorf("log file = %q", cfg.LogFile)
	}
	if cfg.SyncTimeout != 75*time.Millisecond {
		t.Errorf("sync timeout = %v", cfg.SyncTimeout)
	}
}

func TestEnvBadDuration(t *testing.T) {
	t.Setenv(EnvSyncTimeout, "not-a-duration")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for bad duration")
	}
}

func TestNonPositiveTimeoutFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sync_timeout: 0s\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SyncTimeout != Default().SyncTimeout {
		t.Errorf("sync timeout = %v", cfg.SyncTimeout)
	}
}
