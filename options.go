package envinject

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/envinject/pkg/constants"
	"github.com/agentstation/envinject/pkg/errors"
	"github.com/agentstation/envinject/pkg/manifest"
)

// config holds the engine settings
type config struct {
	loader manifest.Loader
	suffix string
	dryRun bool
	logger *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		loader: manifest.Default,
		suffix: constants.InjectedSuffix,
	}
}

func (c *config) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// Option is a function that configures an Engine instance
type Option func(*config) error

// WithManifestLoader replaces the file based manifest loader
func WithManifestLoader(loader manifest.Loader) Option {
	return func(c *config) error {
		if loader == nil {
			return errors.NewValidationError("loader", nil, "manifest loader cannot be nil")
		}
		c.loader = loader
		return nil
	}
}

// WithSuffix configures the suffix appended to the output path
func WithSuffix(suffix string) Option {
	return func(c *config) error {
		if suffix == "" {
			return errors.NewValidationError("suffix", suffix, "suffix cannot be empty")
		}
		c.suffix = suffix
		return nil
	}
}

// WithDryRun configures whether the output file is written
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithLogger configures the logger used instead of the one in the context
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
