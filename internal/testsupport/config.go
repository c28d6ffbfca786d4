package testsupport

import (
	"path/filepath"
	"testing"

	"prospector/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.HTTP.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLeadSource points the lead source at a test server.
func WithLeadSource(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LeadSource.BaseURL = baseURL
	}
}

// WithEmailSource points the email source at a test server.
func WithEmailSource(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.EmailSource.BaseURL = baseURL
	}
}

// WithMetricsTextfile enables the Prometheus textfile inside the temp dir.
func WithMetricsTextfile(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.TextfilePath = filepath.Join(b.baseDir, name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
