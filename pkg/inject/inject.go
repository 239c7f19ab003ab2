// Package inject renders reconciled entries back into configuration file
// lines and writes the patched file next to its source.
package inject

import (
	"sort"
	"strings"

	"github.com/agentstation/envinject/internal/utils/ptr"
	"github.com/agentstation/envinject/pkg/constants"
	"github.com/agentstation/envinject/pkg/entry"
)

// OutputPath returns the path the patched file is written to.
func OutputPath(sourcePath string) string {
	return OutputPathWithSuffix(sourcePath, constants.InjectedSuffix)
}

// OutputPathWithSuffix returns sourcePath with suffix appended, falling
// back to the default suffix when suffix is empty.
func OutputPathWithSuffix(sourcePath, suffix string) string {
	if suffix == "" {
		suffix = constants.InjectedSuffix
	}
	return sourcePath + suffix
}

// Render returns the output lines for entries, ordered by line number.
// Lines that were not changed by reconciliation are emitted exactly as read.
func Render(dialect entry.Dialect, entries []entry.Entry) []string {
	ordered := append([]entry.Entry(nil), entries...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Line < ordered[j].Line
	})

	lines := make([]string, 0, len(ordered))
	for _, e := range ordered {
		lines = append(lines, RenderLine(dialect, e))
	}
	return lines
}

// RenderLine returns the output line for a single entry.
func RenderLine(dialect entry.Dialect, e entry.Entry) string {
	if dialect == entry.DialectProperties {
		return renderProperties(e)
	}
	return renderEnv(e)
}

// renderEnv rewrites injected and synthesized entries as NAME=value.
// Everything else, including entries matched by a secret whose value is
// unknown, keeps its original text.
func renderEnv(e entry.Entry) string {
	if !e.Valid {
		return e.Raw
	}
	if e.Synthesized || (e.IsInjected && !e.Secret) {
		return e.Name + "=" + strings.TrimSpace(e.Value())
	}
	return e.Raw
}

// renderProperties rewraps an injected placeholder with the resolved value
// as its new default: name=${REF:value}.
func renderProperties(e entry.Entry) string {
	if !e.Valid || e.Reference == nil || e.Secret || !e.IsInjected {
		return e.Raw
	}
	value := ptr.Deref(e.Injected)
	if e.Injected == nil {
		value = ptr.Deref(e.Default)
	}
	return e.Name + "=${" + *e.Reference + ":" + strings.TrimSpace(value) + "}"
}
