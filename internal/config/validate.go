package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if err := validateSource("lead_source", c.LeadSource); err != nil {
		return err
	}
	if err := validateSource("email_source", c.EmailSource); err != nil {
		return err
	}
	if err := c.validateHTTP(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func validateSource(section string, src Source) error {
	parsed, err := url.Parse(src.BaseURL)
	if err != nil {
		return fmt.Errorf("%s.base_url: %w", section, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s.base_url must use http or https, got %q", section, src.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s.base_url must include a host", section)
	}
	if src.Host == "" {
		return fmt.Errorf("%s.host must be set", section)
	}
	return nil
}

func (c *Config) validateHTTP() error {
	if c.HTTP.TimeoutSeconds < 1 || c.HTTP.TimeoutSeconds > maxHTTPTimeoutSeconds {
		return fmt.Errorf("http.timeout_seconds must be between 1 and %d", maxHTTPTimeoutSeconds)
	}
	if c.HTTP.MinRequestIntervalMS < 0 || c.HTTP.MinRequestIntervalMS > maxMinRequestIntervalMS {
		return fmt.Errorf("http.min_request_interval_ms must be between 0 and %d", maxMinRequestIntervalMS)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeoutSeconds < 1 || c.Notifications.RequestTimeoutSeconds > maxHTTPTimeoutSeconds {
		return fmt.Errorf("notifications.request_timeout_seconds must be between 1 and %d", maxHTTPTimeoutSeconds)
	}
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	parsed, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic must be a full http(s) topic url, got %q", c.Notifications.NtfyTopic)
	}
	return nil
}
