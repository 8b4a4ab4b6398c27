package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Dir == "" {
		t.Error("expected a default dir")
	}
	if !reflect.DeepEqual(cfg.Extensions, []string{".taskpaper"}) {
		t.Errorf("extensions = %v, want [.taskpaper]", cfg.Extensions)
	}
	if cfg.IndexPath != "" {
		t.Errorf("index path = %q, want empty (db default)", cfg.IndexPath)
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("failed to get default path: %v", err)
	}

	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
	if !strings.Contains(path, filepath.Join(".tp", "config.yaml")) {
		t.Errorf("expected path to contain .tp/config.yaml, got %q", path)
	}
}

func TestDefaultPath_EnvOverride(t *testing.T) {
	t.Setenv("TP_CONFIG", "/elsewhere/tp.yaml")

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("failed to get default path: %v", err)
	}
	if path != "/elsewhere/tp.yaml" {
		t.Errorf("path = %q, want TP_CONFIG value", path)
	}
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing config should fall back to defaults, got %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "dir: /somewhere/lists\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if cfg.Dir != "/somewhere/lists" {
		t.Errorf("dir = %q, want /somewhere/lists", cfg.Dir)
	}
	// Unset fields keep their defaults
	if !reflect.DeepEqual(cfg.Extensions, []string{".taskpaper"}) {
		t.Errorf("extensions = %v, want default", cfg.Extensions)
	}
}

func TestLoad_Full(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "dir: /lists\nindex: /lists/.index.db\nextensions:\n  - .taskpaper\n  - .todo\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	want := &Config{
		Dir:        "/lists",
		IndexPath:  "/lists/.index.db",
		Extensions: []string{".taskpaper", ".todo"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "dir: ~/lists\nindex: ~/custom/index.db\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if want := filepath.Join(home, "lists"); cfg.Dir != want {
		t.Errorf("dir = %q, want %q", cfg.Dir, want)
	}
	if want := filepath.Join(home, "custom", "index.db"); cfg.IndexPath != want {
		t.Errorf("index = %q, want %q", cfg.IndexPath, want)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("extensions: notalist\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed config")
	}
}
