package reconcile

import (
	"fmt"

	"github.com/agentstation/envinject/pkg/entry"
)

// Result represents the outcome of a reconciliation
type Result struct {
	// Dialect the entries were reconciled for
	Dialect entry.Dialect

	// Entries are the file entries in original order, updated
	Entries []entry.Entry

	// Synthesized are entries appended for unmatched declarations
	Synthesized []entry.Entry

	// Stats about the reconciliation
	Stats Statistics
}

// All returns the file entries followed by the synthesized entries.
func (r *Result) All() []entry.Entry {
	all := make([]entry.Entry, 0, len(r.Entries)+len(r.Synthesized))
	all = append(all, r.Entries...)
	return append(all, r.Synthesized...)
}

// Statistics contains counts gathered while reconciling
type Statistics struct {
	Entries     int
	Invalid     int
	Injected    int
	Secret      int
	Unmatched   int
	Synthesized int
}

func (s *Statistics) count(e entry.Entry) {
	if e.Synthesized {
		return
	}
	s.Entries++
	switch {
	case !e.Valid:
		s.Invalid++
	case e.IsInjected:
		s.Injected++
	case e.Secret:
		s.Secret++
	case !e.PresentInSource:
		s.Unmatched++
	}
}

// Summary returns a one-line human readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d entries: %d injected, %d secret, %d unmatched, %d invalid, %d synthesized",
		r.Stats.Entries, r.Stats.Injected, r.Stats.Secret, r.Stats.Unmatched, r.Stats.Invalid, r.Stats.Synthesized)
}
