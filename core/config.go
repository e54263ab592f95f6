package core

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var apiVersionPattern = regexp.MustCompile(`^v\d+\.\d+$`)

// Config holds process-level settings that are identical for every
// invocation. The user agent is the fixed client identifier sent on each
// outbound request; it is explicit configuration rather than a constant baked
// into request construction.
type Config struct {
	APIVersion         string `koanf:"api_version" mapstructure:"api_version"`
	UserAgent          string `koanf:"user_agent" mapstructure:"user_agent"`
	Address            string `koanf:"address" mapstructure:"address"`
	HTTPTimeoutSeconds int    `koanf:"http_timeout_seconds" mapstructure:"http_timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		APIVersion:         "v58.0",
		UserAgent:          "salesforce-remove-from-permission-set/1.0",
		HTTPTimeoutSeconds: 30,
	}
}

func (c Config) Validate() error {
	version := strings.TrimSpace(c.APIVersion)
	if version == "" {
		return fmt.Errorf("core: api_version is required")
	}
	if !apiVersionPattern.MatchString(version) {
		return fmt.Errorf("core: api_version %q must look like v58.0", version)
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("core: user_agent is required")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("core: http_timeout_seconds must be positive")
	}
	return nil
}

// HTTPTimeout returns the configured outbound call timeout as a duration.
func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}
