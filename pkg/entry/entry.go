// Package entry defines the value types shared by the parse, reconcile,
// inject and report stages: a parsed configuration line (Entry) and an
// environment declaration taken from a container spec (Declaration).
//
// Entries are values. Every transition returns a modified copy, so an
// Entry handed to the injector or the report can never change under it.
package entry

import (
	"github.com/agentstation/envinject/internal/utils/ptr"
)

// Declaration is one environment variable declared for a container.
// Value is nil for secrets, whose value this engine never sees.
type Declaration struct {
	Name   string  `json:"name" yaml:"name"`
	Value  *string `json:"value,omitempty" yaml:"value,omitempty"`
	Secret bool    `json:"secret" yaml:"secret"`
}

// Plain creates a non-secret declaration.
func Plain(name, value string) Declaration {
	return Declaration{Name: name, Value: ptr.String(value)}
}

// Secret creates a secret declaration with no value.
func Secret(name string) Declaration {
	return Declaration{Name: name, Secret: true}
}

// Entry is one line of a configuration file, or one appended line
// synthesized from a declaration, plus its reconciliation state.
type Entry struct {
	// Line is the 1-based position in the rendered file.
	Line int `json:"line" yaml:"line"`

	// Name is the parsed key, or the raw line when the line is invalid.
	Name string `json:"name" yaml:"name"`

	// Raw is the source line exactly as read. Empty for synthesized entries.
	Raw string `json:"-" yaml:"-"`

	// Default is the literal value found in the file.
	Default *string `json:"default,omitempty" yaml:"default,omitempty"`

	// Reference is the variable named inside a ${...} placeholder
	// (properties dialect only).
	Reference *string `json:"reference,omitempty" yaml:"reference,omitempty"`

	// Injected is the value taken from a matching non-secret declaration.
	Injected *string `json:"-" yaml:"-"`

	Valid           bool `json:"valid" yaml:"valid"`
	IsInjected      bool `json:"injected" yaml:"injected"`
	Secret          bool `json:"secret" yaml:"secret"`
	PresentInSource bool `json:"present_in_source" yaml:"present_in_source"`
	Synthesized     bool `json:"synthesized" yaml:"synthesized"`
}

// Invalid creates an entry for a line that could not be parsed.
// The raw text doubles as the name so diagnostics can show it.
func Invalid(line int, raw string) Entry {
	return Entry{Line: line, Name: raw, Raw: raw}
}

// Static creates a valid entry with a literal default value.
func Static(line int, raw, name, value string) Entry {
	return Entry{Line: line, Name: name, Raw: raw, Default: ptr.String(value), Valid: true}
}

// Placeholder creates a valid properties entry referencing an environment
// variable. def is nil when the placeholder carries no default.
func Placeholder(line int, raw, name, reference string, def *string) Entry {
	return Entry{Line: line, Name: name, Raw: raw, Reference: ptr.String(reference), Default: def, Valid: true}
}

// Synthesize creates the entry appended for a declaration with no
// counterpart in the file.
func Synthesize(line int, d Declaration) Entry {
	e := Entry{
		Line:        line,
		Name:        d.Name,
		Valid:       true,
		Secret:      d.Secret,
		Synthesized: true,
	}
	if !d.Secret && d.Value != nil {
		e.Injected = ptr.String(*d.Value)
	}
	return e
}

// Key returns the name an entry is matched on for the given dialect:
// the key for env files, the placeholder reference for properties files.
// Invalid entries and properties entries without a reference have no key.
func (e Entry) Key(d Dialect) (string, bool) {
	if !e.Valid {
		return "", false
	}
	switch d {
	case DialectEnv:
		return e.Name, e.Name != ""
	case DialectProperties:
		if e.Reference == nil {
			return "", false
		}
		return *e.Reference, true
	}
	return "", false
}

// WithDeclaration returns a copy of e with the declaration applied.
// A secret declaration only marks the entry and clears any earlier
// injection; its value stays unknown.
func (e Entry) WithDeclaration(d Declaration) Entry {
	e.PresentInSource = true
	if d.Secret {
		e.Secret = true
		e.IsInjected = false
		e.Injected = nil
		return e
	}
	e.Secret = false
	e.IsInjected = true
	if d.Value != nil {
		e.Injected = ptr.String(*d.Value)
	} else {
		e.Injected = nil
	}
	return e
}

// Value returns the value the entry renders with: the injected value for
// non-secret injected or synthesized entries, the file default otherwise.
func (e Entry) Value() string {
	if !e.Secret && (e.IsInjected || e.Synthesized) {
		return ptr.Deref(e.Injected)
	}
	return ptr.Deref(e.Default)
}

// Equal reports whether two entries carry the same fields.
func (e Entry) Equal(o Entry) bool {
	return e.Line == o.Line &&
		e.Name == o.Name &&
		e.Raw == o.Raw &&
		ptr.Equal(e.Default, o.Default) &&
		ptr.Equal(e.Reference, o.Reference) &&
		ptr.Equal(e.Injected, o.Injected) &&
		e.Valid == o.Valid &&
		e.IsInjected == o.IsInjected &&
		e.Secret == o.Secret &&
		e.PresentInSource == o.PresentInSource &&
		e.Synthesized == o.Synthesized
}
