// Package parser turns configuration file lines into entries.
//
// Both dialects make a single left-to-right pass with no lookahead past the
// current line and emit exactly one entry per line, numbered from 1. Lines
// that cannot be classified become invalid entries carrying the raw text;
// they are never dropped and never produce an error.
package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/agentstation/envinject/internal/utils/ptr"
	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/errors"
	"github.com/agentstation/envinject/pkg/logging"
)

const (
	commentMarker   = "#"
	separator       = "="
	placeholderOpen = "${"
)

// placeholderPattern matches ${NAME} and ${NAME:default}, with optional
// surrounding whitespace. The default may be empty but may not contain '}'.
var placeholderPattern = regexp.MustCompile(`^\s*\$\{([A-Z0-9_]+)(?::([^}]*))?\}\s*$`)

// Parse dispatches to the parser for the given dialect.
func Parse(ctx context.Context, dialect entry.Dialect, lines []string) ([]entry.Entry, error) {
	var entries []entry.Entry
	switch dialect {
	case entry.DialectEnv:
		entries = ParseEnv(lines)
	case entry.DialectProperties:
		entries = ParseProperties(lines)
	default:
		return nil, errors.NewValidationError("dialect", dialect, "unsupported dialect")
	}

	logger := logging.FromContext(ctx)
	for _, e := range entries {
		logger.Debug().
			Int("line", e.Line).
			Str("name", e.Name).
			Str("default", ptr.Deref(e.Default)).
			Str("reference", ptr.Deref(e.Reference)).
			Bool("valid", e.Valid).
			Msg("Parsed entry")
	}
	return entries, nil
}

// ParseEnv parses KEY=value lines.
func ParseEnv(lines []string) []entry.Entry {
	entries := make([]entry.Entry, 0, len(lines))
	for i, raw := range lines {
		entries = append(entries, parseEnvLine(i+1, raw))
	}
	return entries
}

func parseEnvLine(line int, raw string) entry.Entry {
	name, value, ok := split(raw)
	if !ok {
		return entry.Invalid(line, raw)
	}
	return entry.Static(line, raw, name, value)
}

// ParseProperties parses key=value and key=${ENV[:default]} lines.
func ParseProperties(lines []string) []entry.Entry {
	entries := make([]entry.Entry, 0, len(lines))
	for i, raw := range lines {
		entries = append(entries, parsePropertiesLine(i+1, raw))
	}
	return entries
}

func parsePropertiesLine(line int, raw string) entry.Entry {
	name, value, ok := split(raw)
	if !ok {
		return entry.Invalid(line, raw)
	}
	if !strings.HasPrefix(value, placeholderOpen) {
		return entry.Static(line, raw, name, value)
	}

	m := placeholderPattern.FindStringSubmatchIndex(value)
	if m == nil {
		return entry.Invalid(line, raw)
	}
	reference := value[m[2]:m[3]]

	var def *string
	if m[4] >= 0 {
		def = ptr.String(value[m[4]:m[5]])
	}
	return entry.Placeholder(line, raw, name, reference, def)
}

// split strips an inline comment and splits the rest on the first '='.
// It reports false for blank, comment-only and separator-less lines.
func split(raw string) (name, value string, ok bool) {
	content := raw
	if i := strings.Index(content, commentMarker); i >= 0 {
		content = content[:i]
	}
	if strings.TrimSpace(content) == "" {
		return "", "", false
	}
	name, value, ok = strings.Cut(content, separator)
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(name), strings.TrimSpace(value), true
}
