package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	return c.Models.validate()
}

func (a *AppConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug|info|warn|error (got %q)", a.LogLevel)
	}
	if strings.TrimSpace(a.HTTPAddr) == "" {
		return fmt.Errorf("app.http_addr cannot be empty")
	}
	return nil
}

func (m *ModelsConfig) validate() error {
	if strings.TrimSpace(m.RegistryPath) != "" {
		// entries come from the registry file and are checked when it is read
		return nil
	}
	if len(m.Entries) == 0 {
		return fmt.Errorf("models.entries requires at least one model")
	}
	seen := make(map[string]bool, len(m.Entries))
	for i, e := range m.Entries {
		if e.Name == "" {
			return fmt.Errorf("models.entries[%d] missing name", i)
		}
		if e.Path == "" {
			return fmt.Errorf("models.entries.%s missing path", e.Name)
		}
		if seen[e.Name] {
			return fmt.Errorf("models.entries contains duplicate name: %s", e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}
