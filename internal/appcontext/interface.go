// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than the
// concrete App so they can be exercised with a Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/envinject"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/envinject/app implements it.
type Interface interface {
	// Engine creates an engine configured from the application settings.
	// Options passed here are applied after the configured ones.
	Engine(...envinject.Option) (envinject.Engine, error)

	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured report format (log, table, json, yaml).
	OutputFormat() string

	// Suffix returns the configured output file suffix.
	Suffix() string

	// DryRun reports whether runs should skip writing the output file.
	DryRun() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
