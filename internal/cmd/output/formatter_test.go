package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/logging"
	"github.com/agentstation/envinject/pkg/report"
)

func sampleReport() *report.Report {
	return report.Generate([]entry.Entry{
		entry.Invalid(1, "broken"),
		entry.Static(2, "DB_HOST=x", "DB_HOST", "x").WithDeclaration(entry.Plain("DB_HOST", "10.0.0.5")),
		entry.Synthesize(3, entry.Plain("NEW_VAR", "v")),
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatLog, false},
		{"log", FormatLog, false},
		{"TABLE", FormatTable, false},
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"auto", FormatAuto, false},
		{"wide", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
	// tests do not run on a terminal
	assert.Equal(t, FormatJSON, DetectFormat(""))
	assert.Equal(t, FormatJSON, DetectFormat("auto"))
}

func TestFormatReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, logging.NewNopLogger(), FormatJSON, sampleReport()))

	var got report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []report.Item{{Line: 1, Name: "broken"}}, got.Invalid)
	assert.Equal(t, []report.Item{{Line: 3, Name: "NEW_VAR"}}, got.Synthesized)
	assert.Contains(t, buf.String(), `"synthesized_secret": []`)
}

func TestFormatReportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, logging.NewNopLogger(), FormatYAML, sampleReport()))

	var got report.Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []report.Item{{Line: 2, Name: "DB_HOST"}}, got.Injected)
}

func TestFormatReportTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatReport(&buf, logging.NewNopLogger(), FormatTable, sampleReport()))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "BUCKET")
	assert.Contains(t, out, "NEW_VAR")
	assert.Contains(t, out, "broken")
}

func TestFormatReportLog(t *testing.T) {
	var buf bytes.Buffer
	tl := logging.NewTestLogger(t)

	require.NoError(t, FormatReport(&buf, tl.Logger, FormatLog, sampleReport()))
	assert.Empty(t, buf.String())
	tl.AssertContains(t, "3. NEW_VAR")
}

func TestFormatEntries(t *testing.T) {
	var buf bytes.Buffer
	entries := []entry.Entry{
		entry.Static(1, "DB_HOST=local", "DB_HOST", "local").WithDeclaration(entry.Plain("DB_HOST", "10.0.0.5")),
		entry.Invalid(2, "broken"),
		entry.Synthesize(3, entry.Secret("API_KEY")),
	}
	require.NoError(t, FormatEntries(&buf, entries))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "STATE")
	assert.Contains(t, out, "injected")
	assert.Contains(t, out, "synthesized secret")
	assert.NotContains(t, out, "10.0.0.5")
}

func TestTableFormatterReflection(t *testing.T) {
	type row struct {
		Name   string `json:"name"`
		Count  int    `json:"item_count,omitempty"`
		Hidden string `json:"-"`
	}

	var buf bytes.Buffer
	require.NoError(t, (&TableFormatter{}).Format(&buf, []row{{Name: "a", Count: 1, Hidden: "secret"}}))
	assert.Contains(t, buf.String(), "a")
	assert.NotContains(t, buf.String(), "secret")
	assert.Contains(t, strings.ToUpper(buf.String()), "ITEM COUNT")
}
