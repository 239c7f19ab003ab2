package output

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/envinject/internal/cmd/table"
	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/report"
)

// FormatReport writes a report in the given format. The log format sends
// each bucket through logger; the others write to w.
func FormatReport(w io.Writer, logger *zerolog.Logger, format Format, r *report.Report) error {
	if format == FormatAuto {
		format = DetectFormat("")
	}

	switch format {
	case FormatLog, "":
		report.Log(logger, r)
		return nil
	case FormatTable:
		return NewFormatter(format).Format(w, table.ReportToTableData(r))
	default:
		return NewFormatter(format).Format(w, r)
	}
}

// FormatEntries writes one table row per entry with its line, name and
// state. Values are left out so nothing secret is printed.
func FormatEntries(w io.Writer, entries []entry.Entry) error {
	return NewFormatter(FormatTable).Format(w, table.EntriesToTableData(entries))
}
