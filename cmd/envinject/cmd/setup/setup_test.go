package setup

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/envinject"
	"github.com/agentstation/envinject/internal/appcontext"
	"github.com/agentstation/envinject/pkg/entry"
	pkgerrors "github.com/agentstation/envinject/pkg/errors"
	"github.com/agentstation/envinject/pkg/manifest"
	"github.com/agentstation/envinject/pkg/report"
)

const deployment = `apiVersion: apps/v1
kind: Deployment
spec:
  template:
    spec:
      containers:
        - name: app
          image: app:1.0
          env:
            - name: DB_HOST
              value: "10.0.0.5"
            - name: DB_PORT
              value: "1443"
            - name: API_KEY
              valueFrom:
                secretKeyRef:
                  name: api
                  key: key
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestEnvCommand(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, ".env", "DB_HOST=localhost\nAPI_KEY=changeme\n")
	yml := writeFile(t, dir, "deploy.yaml", deployment)

	cmd := NewEnvCommand(&appcontext.Mock{})
	_, stderr, err := execute(t, cmd, "-e", env, "-y", yml, "-i", "app:1.0")
	require.NoError(t, err)

	data, err := os.ReadFile(env + "-injected")
	require.NoError(t, err)
	assert.Equal(t, "DB_HOST=10.0.0.5\nAPI_KEY=changeme\nDB_PORT=1443\n", string(data))
	assert.Contains(t, stderr, "Wrote "+env+"-injected")
	assert.Contains(t, stderr, "1 secret entries")
}

func TestPropertiesCommand(t *testing.T) {
	dir := t.TempDir()
	props := writeFile(t, dir, "app.properties", "db.port=${DB_PORT:defaultPort}\ndb.host=${DB_HOST}\n")
	yml := writeFile(t, dir, "deploy.yaml", deployment)

	cmd := NewPropertiesCommand(&appcontext.Mock{})
	stdout, _, err := execute(t, cmd, "--properties", props, "--yaml", yml, "--image", "app:1.0", "--report-format", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(props + "-injected")
	require.NoError(t, err)
	assert.Equal(t, "db.port=${DB_PORT:1443}\ndb.host=${DB_HOST:10.0.0.5}\n", string(data))

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &r))
	assert.Len(t, r.Injected, 2)
	assert.Empty(t, r.Synthesized)
}

func TestDryRunAndSuffix(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, "app.env", "DB_HOST=localhost\n")
	yml := writeFile(t, dir, "deploy.yaml", deployment)

	cmd := NewEnvCommand(&appcontext.Mock{})
	stdout, stderr, err := execute(t, cmd, "-e", env, "-y", yml, "-i", "app:1.0", "--dry-run", "--suffix", ".new")
	require.NoError(t, err)

	assert.Equal(t, "DB_HOST=10.0.0.5\nDB_PORT=1443\nAPI_KEY=\n", stdout)
	assert.Contains(t, stderr, "Dry run")
	assert.NoFileExists(t, env+".new")
	assert.NoFileExists(t, env+"-injected")
}

func TestSynthesizedSecretReported(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, "app.env", "DB_HOST=localhost\n")
	yml := writeFile(t, dir, "deploy.yaml", deployment)

	stdout, _, err := execute(t, NewEnvCommand(&appcontext.Mock{}), "-e", env, "-y", yml, "-i", "app:1.0", "--report-format", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(env + "-injected")
	require.NoError(t, err)
	assert.Equal(t, "DB_HOST=10.0.0.5\nDB_PORT=1443\nAPI_KEY=\n", string(data))

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &r))
	assert.Equal(t, []report.Item{{Line: 2, Name: "DB_PORT"}}, r.Synthesized)
	assert.Equal(t, []report.Item{{Line: 3, Name: "API_KEY"}}, r.SynthesizedSecret)
	assert.Empty(t, r.Secret)
}

func TestEntriesListing(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, "app.env", "DB_HOST=localhost\nbroken\n")
	yml := writeFile(t, dir, "deploy.yaml", deployment)

	stdout, _, err := execute(t, NewEnvCommand(&appcontext.Mock{}), "-e", env, "-y", yml, "-i", "app:1.0", "--entries", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, strings.ToUpper(stdout), "STATE")
	assert.Contains(t, stdout, "injected")
	assert.Contains(t, stdout, "invalid")
	assert.Contains(t, stdout, "synthesized secret")
	assert.NotContains(t, stdout, "localhost")
}

func TestFallsBackToAppSettings(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, "app.env", "A=1\n")

	var got []envinject.Option
	app := &appcontext.Mock{
		OutputFormatFunc: func() string { return "yaml" },
		DryRunFunc:       func() bool { return true },
		EngineFunc: func(opts ...envinject.Option) (envinject.Engine, error) {
			got = opts
			return envinject.New(
				envinject.WithDryRun(true),
				envinject.WithManifestLoader(manifest.LoaderFunc(func(context.Context, string, string) ([]entry.Declaration, error) {
					return []entry.Declaration{entry.Plain("A", "2")}, nil
				})),
			)
		},
	}

	stdout, _, err := execute(t, NewEnvCommand(app), "-e", env, "-y", "m.yaml", "-i", "app")
	require.NoError(t, err)

	assert.Empty(t, got, "unset flags must not override app settings")
	assert.Contains(t, stdout, "A=2\n")
	assert.Contains(t, stdout, "injected:")
	assert.NoFileExists(t, env+"-injected")
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, ".env", "A=1\n")
	yml := writeFile(t, dir, "deploy.yaml", deployment)

	t.Run("missing required flags", func(t *testing.T) {
		_, _, err := execute(t, NewEnvCommand(&appcontext.Mock{}), "-e", env)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required flag")
	})

	t.Run("invalid report format", func(t *testing.T) {
		_, _, err := execute(t, NewEnvCommand(&appcontext.Mock{}), "-e", env, "-y", yml, "-i", "app:1.0", "--report-format", "xml")
		require.Error(t, err)
		assert.True(t, pkgerrors.IsValidationError(err))
		assert.Contains(t, err.Error(), "report-format")
		assert.NoFileExists(t, env+"-injected")
	})

	t.Run("unknown image", func(t *testing.T) {
		_, _, err := execute(t, NewEnvCommand(&appcontext.Mock{}), "-e", env, "-y", yml, "-i", "nope:1")
		assert.ErrorIs(t, err, pkgerrors.ErrContainerNotFound)
		assert.NoFileExists(t, env+"-injected")
	})

	t.Run("missing manifest", func(t *testing.T) {
		_, _, err := execute(t, NewEnvCommand(&appcontext.Mock{}), "-e", env, "-y", filepath.Join(dir, "none.yaml"), "-i", "app:1.0")
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("positional arguments rejected", func(t *testing.T) {
		_, _, err := execute(t, NewEnvCommand(&appcontext.Mock{}), "extra", "-e", env, "-y", yml, "-i", "app:1.0")
		assert.Error(t, err)
	})
}
