package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Gateway contains connection settings for the generation backend.
type Gateway struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Workflow contains polling cadence and bounds for generation jobs.
type Workflow struct {
	// PollInterval is the seconds between status checks.
	PollInterval int `toml:"poll_interval"`
	// PollBackoff multiplies the interval after each "still working" poll.
	// 1.0 keeps a fixed cadence.
	PollBackoff float64 `toml:"poll_backoff"`
	// PollIntervalMax caps the grown interval, in seconds.
	PollIntervalMax int `toml:"poll_interval_max"`
	// MaxWait bounds the total wait for a job, in seconds. 0 disables the bound.
	MaxWait int `toml:"max_wait"`
}

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
	LogDir     string `toml:"log_dir"`
}

// Player contains configuration for audio playback.
type Player struct {
	Binary        string   `toml:"binary"`
	FFprobeBinary string   `toml:"ffprobe_binary"`
	ExtraArgs     []string `toml:"extra_args"`
	Autoplay      bool     `toml:"autoplay"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Ready          bool   `toml:"ready"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for repocast.
type Config struct {
	Gateway       Gateway       `toml:"gateway"`
	Workflow      Workflow      `toml:"workflow"`
	Paths         Paths         `toml:"paths"`
	Player        Player        `toml:"player"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/repocast/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path and the third reports whether a file existed there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/repocast/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("repocast.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the library and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LibraryDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// GatewayTimeout returns the per-request timeout for gateway calls.
func (c *Config) GatewayTimeout() time.Duration {
	if c.Gateway.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Gateway.RequestTimeout) * time.Second
}

// PollInterval returns the initial delay between status polls.
func (c *Config) PollInterval() time.Duration {
	if c.Workflow.PollInterval <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.Workflow.PollInterval) * time.Second
}

// PollIntervalMax returns the ceiling for the grown poll interval.
func (c *Config) PollIntervalMax() time.Duration {
	if c.Workflow.PollIntervalMax <= 0 {
		return c.PollInterval()
	}
	return time.Duration(c.Workflow.PollIntervalMax) * time.Second
}

// MaxWait returns the total wait bound for a generation job. Zero means
// unbounded.
func (c *Config) MaxWait() time.Duration {
	if c.Workflow.MaxWait <= 0 {
		return 0
	}
	return time.Duration(c.Workflow.MaxWait) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
