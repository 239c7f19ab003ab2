// Package app provides the application context and dependency management
// for the envinject CLI. It centralizes configuration, logging and engine
// construction so commands only see appcontext.Interface.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/envinject"
	"github.com/agentstation/envinject/internal/appcontext"
	"github.com/agentstation/envinject/pkg/errors"
)

// App represents the envinject application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Extra engine options applied to every engine (useful for testing)
	engineOpts []envinject.Option
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment,
// .envinject.env files and the config file, and can be customized using
// functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured report format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Suffix returns the configured output suffix.
func (a *App) Suffix() string {
	return a.config.Suffix
}

// DryRun reports whether dry run is configured.
func (a *App) DryRun() bool {
	return a.config.DryRun
}

// Engine creates an engine from the app configuration. opts are applied
// last and override the configured values.
func (a *App) Engine(opts ...envinject.Option) (envinject.Engine, error) {
	all := a.buildEngineOptions()
	all = append(all, a.engineOpts...)
	all = append(all, opts...)

	engine, err := envinject.New(all...)
	if err != nil {
		return nil, errors.NewConfigError("engine", "failed to create engine", err)
	}
	return engine, nil
}

// buildEngineOptions constructs engine options from the app configuration.
func (a *App) buildEngineOptions() []envinject.Option {
	opts := []envinject.Option{
		envinject.WithLogger(a.logger),
		envinject.WithDryRun(a.config.DryRun),
	}
	if a.config.Suffix != "" {
		opts = append(opts, envinject.WithSuffix(a.config.Suffix))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithEngineOptions adds options applied to every engine the app creates.
func WithEngineOptions(opts ...envinject.Option) Option {
	return func(a *App) error {
		a.engineOpts = append(a.engineOpts, opts...)
		return nil
	}
}
