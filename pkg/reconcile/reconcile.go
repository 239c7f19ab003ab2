// Package reconcile cross-references parsed entries against the
// environment declarations of a container.
//
// Matching is by entry key: the variable name for env files and the
// placeholder reference for properties files. Each step is a pure function
// from an entry to a new entry; input slices are never modified.
package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/errors"
)

// Reconciler applies declarations to entries of one dialect.
type Reconciler interface {
	// Reconcile returns the updated entries plus, for dialects that
	// synthesize, one appended entry per declaration with no match.
	Reconcile(entries []entry.Entry, decls []entry.Declaration) *Result
}

// reconciler is the default implementation of Reconciler
type reconciler struct {
	dialect entry.Dialect
	logger  *zerolog.Logger
}

// Option configures a Reconciler
type Option func(*reconciler) error

// WithLogger sets the logger used for per-entry debug output.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *reconciler) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "cannot be nil")
		}
		r.logger = logger
		return nil
	}
}

// New creates a Reconciler for the given dialect.
func New(dialect entry.Dialect, opts ...Option) (Reconciler, error) {
	if !dialect.IsValid() {
		return nil, errors.NewValidationError("dialect", dialect, "unsupported dialect")
	}
	nop := zerolog.Nop()
	r := &reconciler{dialect: dialect, logger: &nop}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Reconcile is a convenience wrapper that reconciles without logging.
func Reconcile(dialect entry.Dialect, entries []entry.Entry, decls []entry.Declaration) (*Result, error) {
	r, err := New(dialect)
	if err != nil {
		return nil, err
	}
	return r.Reconcile(entries, decls), nil
}

// Apply returns e updated with the declaration matching its key, if any.
// Invalid entries, entries without a key and synthesized entries are
// returned unchanged.
func Apply(dialect entry.Dialect, e entry.Entry, idx *Index) entry.Entry {
	if e.Synthesized {
		return e
	}
	key, ok := e.Key(dialect)
	if !ok {
		return e
	}
	d, ok := idx.Lookup(key)
	if !ok {
		return e
	}
	return e.WithDeclaration(d)
}

// Reconcile implements Reconciler.
func (r *reconciler) Reconcile(entries []entry.Entry, decls []entry.Declaration) *Result {
	idx := NewIndex(decls)
	result := &Result{
		Dialect: r.dialect,
		Entries: make([]entry.Entry, 0, len(entries)),
	}

	matched := make(map[string]bool, idx.Len())
	for _, e := range entries {
		updated := Apply(r.dialect, e, idx)
		if key, ok := updated.Key(r.dialect); ok {
			matched[key] = true
		}
		result.Entries = append(result.Entries, updated)
		result.Stats.count(updated)

		if updated.PresentInSource && !e.Synthesized {
			r.logger.Debug().
				Int("line", updated.Line).
				Str("name", updated.Name).
				Bool("secret", updated.Secret).
				Bool("injected", updated.IsInjected).
				Msg("Matched declaration")
		}
	}

	if !r.dialect.Synthesizes() {
		return result
	}

	// Every unmatched declaration gets its own line, duplicates included.
	next := len(entries) + 1
	for _, d := range decls {
		if matched[d.Name] {
			continue
		}
		synth := entry.Synthesize(next, d)
		next++
		result.Synthesized = append(result.Synthesized, synth)
		result.Stats.Synthesized++

		r.logger.Debug().
			Int("line", synth.Line).
			Str("name", synth.Name).
			Bool("secret", synth.Secret).
			Msg("Synthesized entry from declaration")
	}
	return result
}
