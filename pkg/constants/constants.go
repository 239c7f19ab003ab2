// Package constants provides shared constants used throughout the envinject codebase.
package constants

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Output constants
const (
	// InjectedSuffix is appended to the source path to name the patched file.
	InjectedSuffix = "-injected"

	// TempFilePattern names the scratch file written before the rename.
	TempFilePattern = ".envinject-*"
)

// Config file constants
const (
	// ConfigName is the base name of the optional config file.
	ConfigName = ".envinject"

	// EnvPrefix prefixes environment variables read by viper.
	EnvPrefix = "ENVINJECT"
)
