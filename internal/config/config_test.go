package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %s, want %s", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Upstream.BaseURL != DefaultUpstreamURL {
		t.Errorf("Upstream.BaseURL = %s, want %s", cfg.Upstream.BaseURL, DefaultUpstreamURL)
	}
	if cfg.Layout.RankSpacing != 200 || cfg.Layout.LayerSpacing != 100 {
		t.Errorf("Layout = %+v, want 200/100", cfg.Layout)
	}
	if cfg.Layout.LegacyOffset {
		t.Error("LegacyOffset should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
upstream:
  base_url: http://alerts.internal:5000/
  timeout: 3s
layout:
  layer_spacing: 80
  legacy_offset: true
log:
  level: DEBUG
  format: console
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}

	if cfg.Upstream.BaseURL != "http://alerts.internal:5000" {
		t.Errorf("Upstream.BaseURL = %s, want trailing slash trimmed", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.Timeout.Duration() != 3*time.Second {
		t.Errorf("Upstream.Timeout = %s, want 3s", cfg.Upstream.Timeout.Duration())
	}
	if cfg.Layout.RankSpacing != DefaultRankSpacing || cfg.Layout.LayerSpacing != 80 {
		t.Errorf("Layout = %+v, want default rank spacing and 80", cfg.Layout)
	}
	if !cfg.Layout.LegacyOffset {
		t.Error("LegacyOffset should be loaded")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("Log = %+v, want debug/console", cfg.Log)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %s, want default", cfg.Server.Addr)
	}
}

func TestLoadFromPathInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "server: [", "parse config"},
		{"bad duration", "upstream:\n  timeout: soon\n", "parse config"},
		{"bad url", "upstream:\n  base_url: not a url\n", "BaseURL"},
		{"negative spacing", "layout:\n  rank_spacing: -5\n", "RankSpacing"},
		{"bad level", "log:\n  level: loud\n", "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, err := LoadFromPath(configPath)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:9090"
	cfg.Layout.LegacyOffset = true

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, _, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Server.Addr = %s, want 127.0.0.1:9090", loaded.Server.Addr)
	}
	if !loaded.Layout.LegacyOffset {
		t.Error("LegacyOffset should round trip")
	}
	if loaded.Server.ReadTimeout != cfg.Server.ReadTimeout {
		t.Errorf("ReadTimeout = %s, want %s", loaded.Server.ReadTimeout.Duration(), cfg.Server.ReadTimeout.Duration())
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	t.Run("explicit path wins", func(t *testing.T) {
		explicit := filepath.Join(tmpDir, "explicit.yaml")
		if err := DefaultConfig().Save(explicit); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		t.Setenv(EnvConfigPath, explicit)
		if found := FindConfigPath(); found != explicit {
			t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
		}
	})

	t.Run("missing explicit path falls back", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
		if found := FindConfigPath(); found == "" {
			t.Error("FindConfigPath() should fall back when env path doesn't exist")
		}
	})
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}

func TestSummary(t *testing.T) {
	summary := DefaultConfig().Summary()
	if !strings.Contains(summary, DefaultUpstreamURL) || !strings.Contains(summary, "legacy offset false") {
		t.Errorf("unexpected summary: %s", summary)
	}
}
