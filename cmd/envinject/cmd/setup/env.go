package setup

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/envinject/internal/appcontext"
	"github.com/agentstation/envinject/pkg/entry"
)

// NewEnvCommand creates the env command with app dependencies.
func NewEnvCommand(app appcontext.Interface) *cobra.Command {
	return newCommand(app, dialectCommand{
		dialect:   entry.DialectEnv,
		use:       "env",
		fileFlag:  "env",
		fileShort: "e",
		fileUsage: ".env file to inject into",
		short:     "Inject manifest env values into a .env file",
		long: `Env reads KEY=value lines from a .env file and replaces the value of
every key the container declares in the manifest. Keys declared by a
secret keep their file default. Declared keys missing from the file are
appended at the end.`,
		example: `  envinject env -e .env -y deploy.yaml -i registry.local/app:1.0
  envinject env -e .env -y deploy.yaml -i app:1.0 --dry-run
  envinject env -e .env -y deploy.yaml -i app:1.0 --report-format table`,
	})
}
