package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/logging"
	"github.com/agentstation/envinject/pkg/parser"
	"github.com/agentstation/envinject/pkg/reconcile"
	"github.com/agentstation/envinject/pkg/report"
)

func TestGenerateEmpty(t *testing.T) {
	r := report.Generate(nil)
	require.NotNil(t, r)

	for _, k := range report.Kinds() {
		assert.NotNil(t, r.Bucket(k), k)
		assert.Empty(t, r.Bucket(k), k)
	}
	assert.Zero(t, r.Len())
}

func TestGenerateEnv(t *testing.T) {
	lines := []string{
		"DB_HOST=localhost",
		"",
		"API_KEY=changeme",
		"UNSET=1",
		"broken",
	}
	entries := parser.ParseEnv(lines)
	result, err := reconcile.Reconcile(entry.DialectEnv, entries, []entry.Declaration{
		entry.Plain("DB_HOST", "10.0.0.5"),
		entry.Secret("API_KEY"),
		entry.Plain("NEW_VAR", "v"),
		entry.Secret("NEW_SECRET"),
	})
	require.NoError(t, err)

	r := report.Generate(result.All())

	assert.Equal(t, []report.Item{{Line: 2, Name: ""}, {Line: 5, Name: "broken"}}, r.Invalid)
	assert.Equal(t, []report.Item{{Line: 4, Name: "UNSET"}}, r.Unmatched)
	assert.Equal(t, []report.Item{{Line: 1, Name: "DB_HOST"}}, r.Injected)
	assert.Equal(t, []report.Item{{Line: 3, Name: "API_KEY"}}, r.Secret)
	assert.Equal(t, []report.Item{{Line: 6, Name: "NEW_VAR"}}, r.Synthesized)
	assert.Equal(t, []report.Item{{Line: 7, Name: "NEW_SECRET"}}, r.SynthesizedSecret)
	assert.Equal(t, 7, r.Len())
}

func TestGenerateProperties(t *testing.T) {
	lines := []string{
		"db.port=${DB_PORT:defaultPort}",
		"db.password=${DB_PASSWORD}",
		"server.port=8080",
		"x=${BAD}}",
	}
	entries := parser.ParseProperties(lines)
	result, err := reconcile.Reconcile(entry.DialectProperties, entries, []entry.Declaration{
		entry.Plain("DB_PORT", "1443"),
		entry.Secret("DB_PASSWORD"),
		entry.Plain("NEVER_USED", "x"),
	})
	require.NoError(t, err)

	r := report.Generate(result.All())

	assert.Equal(t, []report.Item{{Line: 4, Name: "x=${BAD}}"}}, r.Invalid)
	assert.Equal(t, []report.Item{{Line: 3, Name: "server.port"}}, r.Unmatched)
	assert.Equal(t, []report.Item{{Line: 1, Name: "db.port"}}, r.Injected)
	assert.Equal(t, []report.Item{{Line: 2, Name: "db.password"}}, r.Secret)
	assert.Empty(t, r.Synthesized)
	assert.Empty(t, r.SynthesizedSecret)
}

func TestGenerateLastDeclarationWins(t *testing.T) {
	// a later secret declaration clears the earlier injection
	entries := []entry.Entry{
		entry.Static(1, "A=1", "A", "1").WithDeclaration(entry.Plain("A", "2")).WithDeclaration(entry.Secret("A")),
	}
	r := report.Generate(entries)
	assert.Empty(t, r.Injected)
	assert.Equal(t, []report.Item{{Line: 1, Name: "A"}}, r.Secret)
	assert.Empty(t, r.Unmatched)
}

func TestKindTitles(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range report.Kinds() {
		title := k.Title()
		assert.NotEqual(t, string(k), title)
		assert.False(t, seen[title], "duplicate title %q", title)
		seen[title] = true
	}
	assert.Nil(t, (&report.Report{}).Bucket("unknown"))
}

func TestLog(t *testing.T) {
	tl := logging.NewTestLogger(t)

	r := report.Generate([]entry.Entry{
		entry.Invalid(1, "oops"),
		entry.Synthesize(2, entry.Plain("NEW_VAR", "v")),
	})
	report.Log(tl.Logger, r)

	tl.AssertContains(t, report.KindInvalid.Title())
	tl.AssertContains(t, "1. oops")
	tl.AssertContains(t, "2. NEW_VAR")
	assert.Equal(t, len(report.Kinds())+2, len(tl.Lines()))
}
