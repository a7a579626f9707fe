package config

import "strings"

// normalize trims string fields and expands path values before validation.
func (c *Config) normalize() error {
	c.Gateway.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gateway.BaseURL), "/")
	c.Player.Binary = strings.TrimSpace(c.Player.Binary)
	c.Player.FFprobeBinary = strings.TrimSpace(c.Player.FFprobeBinary)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Player.Binary == "" {
		c.Player.Binary = defaultPlayerBinary
	}
	if c.Player.FFprobeBinary == "" {
		c.Player.FFprobeBinary = defaultFFprobeBinary
	}

	for _, field := range []*string{&c.Paths.LibraryDir, &c.Paths.LogDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}
