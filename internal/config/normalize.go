package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.LeadSource = normalizeSource(c.LeadSource, "PROSPECTOR_LEAD_SOURCE_URL", defaultLeadSourceURL, defaultLeadSourceHost)
	c.EmailSource = normalizeSource(c.EmailSource, "PROSPECTOR_EMAIL_SOURCE_URL", defaultEmailSourceURL, defaultEmailSourceHost)
	if c.HTTP.TimeoutSeconds == 0 {
		c.HTTP.TimeoutSeconds = defaultHTTPTimeoutSeconds
	}
	c.normalizeLogging()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeoutSeconds == 0 {
		c.Notifications.RequestTimeoutSeconds = defaultNtfyTimeoutSeconds
	}
	c.Metrics.TextfilePath = strings.TrimSpace(c.Metrics.TextfilePath)
	if c.Metrics.TextfilePath != "" {
		expanded, err := expandPath(c.Metrics.TextfilePath)
		if err != nil {
			return fmt.Errorf("metrics.textfile_path: %w", err)
		}
		c.Metrics.TextfilePath = expanded
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("PROSPECTOR_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func normalizeSource(src Source, envKey, fallbackURL, fallbackHost string) Source {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		src.BaseURL = value
	}
	src.BaseURL = strings.TrimRight(strings.TrimSpace(src.BaseURL), "/")
	if src.BaseURL == "" {
		src.BaseURL = fallbackURL
	}
	src.Host = strings.TrimSpace(src.Host)
	if src.Host == "" {
		src.Host = fallbackHost
	}
	return src
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
