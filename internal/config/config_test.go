package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatalf("expected exists=false for missing file %s", path)
	}
	if cfg.Gateway.BaseURL != defaultGatewayBaseURL {
		t.Errorf("unexpected gateway base url: %q", cfg.Gateway.BaseURL)
	}
	if cfg.PollInterval() != 3*time.Second {
		t.Errorf("unexpected poll interval: %v", cfg.PollInterval())
	}
	if cfg.MaxWait() != 15*time.Minute {
		t.Errorf("unexpected max wait: %v", cfg.MaxWait())
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[gateway]",
		`base_url = "http://gateway.local:9000/"`,
		"",
		"[workflow]",
		"poll_interval = 1",
		"poll_backoff = 2.0",
		"poll_interval_max = 8",
		"max_wait = 60",
		"",
		"[paths]",
		`library_dir = "` + filepath.Join(dir, "episodes") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.Gateway.BaseURL != "http://gateway.local:9000" {
		t.Errorf("trailing slash should be trimmed, got %q", cfg.Gateway.BaseURL)
	}
	if cfg.PollInterval() != time.Second {
		t.Errorf("unexpected poll interval: %v", cfg.PollInterval())
	}
	if cfg.PollIntervalMax() != 8*time.Second {
		t.Errorf("unexpected poll interval max: %v", cfg.PollIntervalMax())
	}
	if cfg.MaxWait() != time.Minute {
		t.Errorf("unexpected max wait: %v", cfg.MaxWait())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing base url", func(c *Config) { c.Gateway.BaseURL = "" }, "gateway.base_url"},
		{"relative base url", func(c *Config) { c.Gateway.BaseURL = "gateway.local" }, "absolute URL"},
		{"backoff below one", func(c *Config) { c.Workflow.PollBackoff = 0.5 }, "poll_backoff"},
		{"interval max below interval", func(c *Config) { c.Workflow.PollIntervalMax = 1; c.Workflow.PollInterval = 5 }, "poll_interval_max"},
		{"negative max wait", func(c *Config) { c.Workflow.MaxWait = -1 }, "max_wait"},
		{"missing library dir", func(c *Config) { c.Paths.LibraryDir = " " }, "library_dir"},
		{"bad log format", func(c *Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Paths.LibraryDir = "/tmp/episodes"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config failed validation: %v", err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/episodes")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "episodes") {
		t.Errorf("ExpandPath = %q", got)
	}
}
