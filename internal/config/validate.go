package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks the configuration for values that would break at runtime.
func (c *Config) Validate() error {
	var problems []string

	if c.Gateway.BaseURL == "" {
		problems = append(problems, "gateway.base_url is required")
	} else if parsed, err := url.Parse(c.Gateway.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		problems = append(problems, fmt.Sprintf("gateway.base_url %q is not an absolute URL", c.Gateway.BaseURL))
	}
	if c.Gateway.RequestTimeout < 0 {
		problems = append(problems, "gateway.request_timeout must not be negative")
	}

	if c.Workflow.PollInterval < 0 {
		problems = append(problems, "workflow.poll_interval must not be negative")
	}
	if c.Workflow.PollBackoff != 0 && c.Workflow.PollBackoff < 1 {
		problems = append(problems, "workflow.poll_backoff must be at least 1.0")
	}
	if c.Workflow.PollIntervalMax != 0 && c.Workflow.PollIntervalMax < c.Workflow.PollInterval {
		problems = append(problems, "workflow.poll_interval_max must not be below workflow.poll_interval")
	}
	if c.Workflow.MaxWait < 0 {
		problems = append(problems, "workflow.max_wait must not be negative")
	}

	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		problems = append(problems, "paths.library_dir is required")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported (console or json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
