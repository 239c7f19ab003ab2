// Package report groups reconciled entries into diagnostic buckets.
//
// The buckets are independent filters over the same entries, so one entry
// may appear in several of them. Generate never fails; an empty input
// yields a report with six empty buckets.
package report

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/envinject/pkg/entry"
)

// Kind identifies a report bucket.
type Kind string

// Report buckets in display order.
const (
	KindInvalid           Kind = "invalid"
	KindUnmatched         Kind = "unmatched"
	KindInjected          Kind = "injected"
	KindSecret            Kind = "secret"
	KindSynthesized       Kind = "synthesized"
	KindSynthesizedSecret Kind = "synthesized_secret"
)

// Kinds returns every bucket kind in display order.
func Kinds() []Kind {
	return []Kind{KindInvalid, KindUnmatched, KindInjected, KindSecret, KindSynthesized, KindSynthesizedSecret}
}

// Title returns the heading logged above a bucket.
func (k Kind) Title() string {
	switch k {
	case KindInvalid:
		return "Invalid entries or empty lines"
	case KindUnmatched:
		return "Valid entries with no counterpart in the manifest"
	case KindInjected:
		return "Valid entries injected with environment values"
	case KindSecret:
		return "Valid entries whose environment variable is a secret"
	case KindSynthesized:
		return "Manifest entries not present in the file"
	case KindSynthesizedSecret:
		return "Secret manifest entries not present in the file"
	}
	return string(k)
}

// Item is one reported line.
type Item struct {
	Line int    `json:"line" yaml:"line"`
	Name string `json:"name" yaml:"name"`
}

// Report holds the six diagnostic views of a reconciled file.
type Report struct {
	Invalid           []Item `json:"invalid" yaml:"invalid"`
	Unmatched         []Item `json:"unmatched" yaml:"unmatched"`
	Injected          []Item `json:"injected" yaml:"injected"`
	Secret            []Item `json:"secret" yaml:"secret"`
	Synthesized       []Item `json:"synthesized" yaml:"synthesized"`
	SynthesizedSecret []Item `json:"synthesized_secret" yaml:"synthesized_secret"`
}

// Generate builds a report from the final entries, in entry order.
func Generate(entries []entry.Entry) *Report {
	r := &Report{
		Invalid:           []Item{},
		Unmatched:         []Item{},
		Injected:          []Item{},
		Secret:            []Item{},
		Synthesized:       []Item{},
		SynthesizedSecret: []Item{},
	}

	for _, e := range entries {
		item := Item{Line: e.Line, Name: e.Name}
		if !e.Valid {
			r.Invalid = append(r.Invalid, item)
			continue
		}
		if !e.Synthesized && !e.PresentInSource {
			r.Unmatched = append(r.Unmatched, item)
		}
		if e.IsInjected {
			r.Injected = append(r.Injected, item)
		}
		if e.Secret && !e.Synthesized {
			r.Secret = append(r.Secret, item)
		}
		if e.Synthesized && !e.Secret {
			r.Synthesized = append(r.Synthesized, item)
		}
		if e.Synthesized && e.Secret {
			r.SynthesizedSecret = append(r.SynthesizedSecret, item)
		}
	}
	return r
}

// Bucket returns the items of one bucket.
func (r *Report) Bucket(k Kind) []Item {
	switch k {
	case KindInvalid:
		return r.Invalid
	case KindUnmatched:
		return r.Unmatched
	case KindInjected:
		return r.Injected
	case KindSecret:
		return r.Secret
	case KindSynthesized:
		return r.Synthesized
	case KindSynthesizedSecret:
		return r.SynthesizedSecret
	}
	return nil
}

// Len returns the total number of items across all buckets.
func (r *Report) Len() int {
	n := 0
	for _, k := range Kinds() {
		n += len(r.Bucket(k))
	}
	return n
}

// Log writes every bucket to logger at info level: a heading per bucket
// followed by one "<line>. <name>" message per item.
func Log(logger *zerolog.Logger, r *Report) {
	for _, k := range Kinds() {
		items := r.Bucket(k)
		logger.Info().Str("bucket", string(k)).Int("count", len(items)).Msg(k.Title())
		for _, item := range items {
			logger.Info().
				Str("bucket", string(k)).
				Int("line", item.Line).
				Msgf("%d. %s", item.Line, item.Name)
		}
	}
}
