package inject_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/envinject/pkg/entry"
	pkgerrors "github.com/agentstation/envinject/pkg/errors"
	"github.com/agentstation/envinject/pkg/inject"
	"github.com/agentstation/envinject/pkg/parser"
	"github.com/agentstation/envinject/pkg/reconcile"
)

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func reconciled(t *testing.T, dialect entry.Dialect, path string, decls ...entry.Declaration) (*parser.Source, []entry.Entry) {
	t.Helper()
	src, err := parser.ReadFile(path)
	require.NoError(t, err)
	entries, err := parser.Parse(context.Background(), dialect, src.Lines)
	require.NoError(t, err)
	result, err := reconcile.Reconcile(dialect, entries, decls)
	require.NoError(t, err)
	return src, result.All()
}

func TestWrite(t *testing.T) {
	path := writeSource(t, "app.env", "DB_HOST=localhost\nDB_PORT=5432\n")
	src, entries := reconciled(t, entry.DialectEnv, path,
		entry.Plain("DB_HOST", "10.0.0.5"),
		entry.Plain("NEW_VAR", "v"),
	)

	out, err := inject.Write(entry.DialectEnv, src, entries)
	require.NoError(t, err)

	assert.True(t, out.Written)
	assert.Equal(t, path+"-injected", out.Path)
	assert.Equal(t, []string{"DB_HOST=10.0.0.5", "DB_PORT=5432", "NEW_VAR=v"}, out.Lines)

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "DB_HOST=10.0.0.5\nDB_PORT=5432\nNEW_VAR=v\n", string(data))

	// source untouched
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DB_HOST=localhost\nDB_PORT=5432\n", string(data))

	// no temp files left behind
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".envinject-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestWriteRoundTripBytes(t *testing.T) {
	tests := []struct {
		name    string
		dialect entry.Dialect
		content string
	}{
		{"env with trailing newline", entry.DialectEnv, "A=1\n# note\n\nB = 2 # x\n"},
		{"env without trailing newline", entry.DialectEnv, "A=1\nB=2"},
		{"env crlf", entry.DialectEnv, "A=1\r\nB=2\r\n"},
		{"properties", entry.DialectProperties, "a.b=${A:1}\nc=static\nx=${BAD}}\n"},
		{"empty file", entry.DialectEnv, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, "config", tt.content)
			src, entries := reconciled(t, tt.dialect, path)
			out, err := inject.Write(tt.dialect, src, entries)
			require.NoError(t, err)

			data, err := os.ReadFile(out.Path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestWriteReplacesExistingOutput(t *testing.T) {
	path := writeSource(t, "app.properties", "db.port=${DB_PORT:defaultPort}\n")
	require.NoError(t, os.WriteFile(path+"-injected", []byte("stale\nstale\nstale\n"), 0o600))

	src, entries := reconciled(t, entry.DialectProperties, path, entry.Plain("DB_PORT", "1443"))
	_, err := inject.Write(entry.DialectProperties, src, entries)
	require.NoError(t, err)

	data, err := os.ReadFile(path + "-injected")
	require.NoError(t, err)
	assert.Equal(t, "db.port=${DB_PORT:1443}\n", string(data))
}

func TestWriteOptions(t *testing.T) {
	path := writeSource(t, "app.env", "A=1\n")
	src, entries := reconciled(t, entry.DialectEnv, path, entry.Plain("A", "2"))

	t.Run("dry run", func(t *testing.T) {
		out, err := inject.Write(entry.DialectEnv, src, entries, inject.WithDryRun(true))
		require.NoError(t, err)
		assert.False(t, out.Written)
		assert.Equal(t, "A=2\n", out.Content)
		assert.NoFileExists(t, out.Path)
	})

	t.Run("suffix", func(t *testing.T) {
		out, err := inject.Write(entry.DialectEnv, src, entries, inject.WithSuffix(".patched"))
		require.NoError(t, err)
		assert.Equal(t, path+".patched", out.Path)
		assert.FileExists(t, out.Path)
	})
}

func TestWriteTakesTrailingNewlineFromSource(t *testing.T) {
	path := writeSource(t, "app.env", "A=1\n")
	entries := []entry.Entry{entry.Static(1, "A=1", "A", "1")}

	// the file on disk is not read again
	out, err := inject.Write(entry.DialectEnv, &parser.Source{Path: path, Lines: []string{"A=1"}}, entries, inject.WithDryRun(true))
	require.NoError(t, err)
	assert.Equal(t, "A=1", out.Content)

	empty := writeSource(t, "empty.env", "")
	out, err = inject.Write(entry.DialectEnv, &parser.Source{Path: empty}, []entry.Entry{entry.Synthesize(1, entry.Plain("NEW", "v"))}, inject.WithDryRun(true))
	require.NoError(t, err)
	assert.Equal(t, "NEW=v\n", out.Content)
}

func TestWriteSourceErrors(t *testing.T) {
	dir := t.TempDir()
	entries := []entry.Entry{entry.Static(1, "A=1", "A", "1")}
	source := func(path string) *parser.Source {
		return &parser.Source{Path: path, Lines: []string{"A=1"}, TrailingNewline: true}
	}

	t.Run("missing source", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.env")
		_, err := inject.Write(entry.DialectEnv, source(missing), entries)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotFound(err))
		assert.NoFileExists(t, missing+"-injected")
		assert.NoFileExists(t, missing)
	})

	t.Run("directory source", func(t *testing.T) {
		_, err := inject.Write(entry.DialectEnv, source(dir), entries)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotAFile(err))
		assert.NoFileExists(t, dir+"-injected")
	})

	t.Run("unreadable source", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		path := writeSource(t, "locked.env", "A=1\n")
		require.NoError(t, os.Chmod(path, 0o000))
		_, err := inject.Write(entry.DialectEnv, source(path), entries)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsAccessDenied(err))
		assert.NoFileExists(t, path+"-injected")
	})

	t.Run("destination is a directory", func(t *testing.T) {
		path := writeSource(t, "app.env", "A=1\n")
		require.NoError(t, os.Mkdir(path+"-injected", 0o755))
		_, err := inject.Write(entry.DialectEnv, source(path), entries)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsNotAFile(err))
	})
}
