package config

const (
	defaultConfigPath         = "~/.config/prospector/config.toml"
	defaultDataDir            = "~/.local/share/prospector"
	defaultLogDir             = "~/.local/share/prospector/logs"
	defaultLeadSourceURL      = "https://apollo-api-pro.p.rapidapi.com"
	defaultLeadSourceHost     = "apollo-api-pro.p.rapidapi.com"
	defaultEmailSourceURL     = "https://validect-email-verification-v1.p.rapidapi.com"
	defaultEmailSourceHost    = "validect-email-verification-v1.p.rapidapi.com"
	defaultHTTPTimeoutSeconds = 60
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	maxMinRequestIntervalMS   = 60_000
	maxHTTPTimeoutSeconds     = 600
	defaultNtfyTimeoutSeconds = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		LeadSource: Source{
			BaseURL: defaultLeadSourceURL,
			Host:    defaultLeadSourceHost,
		},
		EmailSource: Source{
			BaseURL: defaultEmailSourceURL,
			Host:    defaultEmailSourceHost,
		},
		HTTP: HTTP{
			TimeoutSeconds: defaultHTTPTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeoutSeconds: defaultNtfyTimeoutSeconds,
		},
	}
}
