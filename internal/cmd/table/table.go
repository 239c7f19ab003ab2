// Package table converts report data into rows for table output.
package table

import (
	"strconv"

	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/report"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ReportToTableData converts a report to one row per bucket item,
// grouped by bucket in display order.
func ReportToTableData(r *report.Report) Data {
	rows := make([][]string, 0, r.Len())
	for _, k := range report.Kinds() {
		for _, item := range r.Bucket(k) {
			rows = append(rows, []string{string(k), strconv.Itoa(item.Line), item.Name})
		}
	}
	return Data{
		Headers:         []string{"Bucket", "Line", "Name"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft},
	}
}

// EntriesToTableData converts entries to rows showing their state.
// Secret values never appear since entries carry none.
func EntriesToTableData(entries []entry.Entry) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Line),
			e.Name,
			state(e),
		})
	}
	return Data{
		Headers:         []string{"Line", "Name", "State"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft, AlignLeft},
	}
}

func state(e entry.Entry) string {
	switch {
	case !e.Valid:
		return "invalid"
	case e.Synthesized && e.Secret:
		return "synthesized secret"
	case e.Synthesized:
		return "synthesized"
	case e.IsInjected:
		return "injected"
	case e.Secret:
		return "secret"
	default:
		return "unmatched"
	}
}
