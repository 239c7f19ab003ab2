package setup

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/envinject/internal/appcontext"
	"github.com/agentstation/envinject/pkg/entry"
)

// NewPropertiesCommand creates the properties command with app dependencies.
func NewPropertiesCommand(app appcontext.Interface) *cobra.Command {
	return newCommand(app, dialectCommand{
		dialect:   entry.DialectProperties,
		use:       "properties",
		fileFlag:  "properties",
		fileShort: "p",
		fileUsage: ".properties file to inject into",
		short:     "Inject manifest env values into a .properties file",
		long: `Properties reads name=${VAR:default} placeholders from a .properties
file and rewrites each placeholder whose VAR the container declares with
the declared value as its new default. Static values, secret references
and unknown variables are left as they are.`,
		example: `  envinject properties -p application.properties -y deploy.yaml -i app:1.0
  envinject properties -p application.properties -y deploy.yaml -i app:1.0 --report-format json`,
	})
}
