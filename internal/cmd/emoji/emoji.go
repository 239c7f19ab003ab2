// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across commands.
package emoji

// Symbol constants for CLI status lines.
const (
	// Success marks a written output file.
	Success = "✓"

	// Error marks a failed run.
	Error = "✗"

	// Warning marks entries that need attention, such as secrets whose
	// value stays at the file default.
	Warning = "!"

	// Info marks informational lines such as dry run notices.
	Info = "i"
)
