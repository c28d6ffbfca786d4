package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"prospector/internal/config"
	"prospector/internal/logging"
	"prospector/internal/metrics"
	"prospector/internal/notifications"
	"prospector/internal/store"
)

// commandContext builds the shared runtime once per invocation and hands it
// to every command.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	runID   string
	store   *store.Store
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		runID:      uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureStore() (*store.Store, error) {
	if c.store != nil {
		return c.store, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	c.store = st
	return st, nil
}

func (c *commandContext) ensureLogger(console io.Writer) (*slog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, c.runID, console)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	c.logger = logger
	return logger, nil
}

func (c *commandContext) ensureMetrics() *metrics.Recorder {
	if c.metrics == nil {
		c.metrics = metrics.New()
	}
	return c.metrics
}

// flushMetrics writes the textfile when one is configured.
func (c *commandContext) flushMetrics() error {
	if c.metrics == nil || c.config == nil {
		return nil
	}
	return c.metrics.WriteTextfile(c.config.Metrics.TextfilePath)
}

func (c *commandContext) close() error {
	var errs []error
	if err := c.flushMetrics(); err != nil {
		errs = append(errs, fmt.Errorf("write metrics: %w", err))
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, err)
		}
		c.store = nil
	}
	return errors.Join(errs...)
}

// runtime is what store-backed commands receive.
type runtime struct {
	cfg      *config.Config
	store    *store.Store
	logger   *slog.Logger
	notifier notifications.Service
	runID    string
}

// withRuntime opens the store and logger, runs fn, then flushes metrics and
// closes the store whether or not fn failed. Metrics are only written when a
// command asked for a recorder.
func (c *commandContext) withRuntime(cmd *cobra.Command, fn func(*runtime) error) (err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	st, err := c.ensureStore()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := c.close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(&runtime{
		cfg:      cfg,
		store:    st,
		logger:   logger,
		notifier: notifications.NewService(cfg),
		runID:    c.runID,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
