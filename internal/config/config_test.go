package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"prospector/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	chdir(t, t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "prospector")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "prospector.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.RequestTimeout() != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", cfg.RequestTimeout())
	}
	if cfg.MinRequestInterval() != 0 {
		t.Fatalf("expected unpaced requests by default, got %s", cfg.MinRequestInterval())
	}
	if cfg.LeadSource.Host != config.Default().LeadSource.Host {
		t.Fatalf("unexpected lead source host: %q", cfg.LeadSource.Host)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.LockDir(), cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "prospector.toml")
	body := `
[paths]
data_dir = "` + filepath.Join(tempDir, "data") + `"

[lead_source]
base_url = "http://127.0.0.1:9999/"
host = "leads.test"

[http]
timeout_seconds = 15
min_request_interval_ms = 250

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.LeadSource.BaseURL != "http://127.0.0.1:9999" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.LeadSource.BaseURL)
	}
	if cfg.LeadSource.Host != "leads.test" {
		t.Fatalf("unexpected host %q", cfg.LeadSource.Host)
	}
	if cfg.EmailSource.BaseURL != config.Default().EmailSource.BaseURL {
		t.Fatalf("expected email source default, got %q", cfg.EmailSource.BaseURL)
	}
	if cfg.RequestTimeout() != 15*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.RequestTimeout())
	}
	if cfg.MinRequestInterval() != 250*time.Millisecond {
		t.Fatalf("unexpected interval %s", cfg.MinRequestInterval())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging normalized, got %+v", cfg.Logging)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("PROSPECTOR_DATA_DIR", filepath.Join(tempDir, "env-data"))
	t.Setenv("PROSPECTOR_EMAIL_SOURCE_URL", "http://localhost:8080")

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != filepath.Join(tempDir, "env-data") {
		t.Fatalf("expected env data dir, got %q", cfg.Paths.DataDir)
	}
	if cfg.EmailSource.BaseURL != "http://localhost:8080" {
		t.Fatalf("expected env email source, got %q", cfg.EmailSource.BaseURL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"scheme", func(c *config.Config) { c.LeadSource.BaseURL = "ftp://example.com" }, "lead_source.base_url"},
		{"host", func(c *config.Config) { c.EmailSource.Host = "" }, "email_source.host"},
		{"timeout", func(c *config.Config) { c.HTTP.TimeoutSeconds = 0 }, "http.timeout_seconds"},
		{"interval", func(c *config.Config) { c.HTTP.MinRequestIntervalMS = -1 }, "http.min_request_interval_ms"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.DataDir = t.TempDir()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "prospector.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\nstaging_dir = \"/tmp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	target := filepath.Join(tempDir, "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(target); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			panic("testing.Chdir: " + err.Error())
		}
	})
}
