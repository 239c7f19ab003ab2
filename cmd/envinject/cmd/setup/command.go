// Package setup provides the env and properties commands, which inject
// manifest env values into a configuration file of the matching dialect.
package setup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/envinject"
	"github.com/agentstation/envinject/internal/appcontext"
	"github.com/agentstation/envinject/internal/cmd/emoji"
	"github.com/agentstation/envinject/internal/cmd/output"
	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/errors"
)

// Flags holds the flag values of a dialect command.
type Flags struct {
	File         string
	Manifest     string
	Image        string
	Suffix       string
	ReportFormat string
	DryRun       bool
	Entries      bool
}

// dialectCommand describes how a dialect is exposed on the command line.
type dialectCommand struct {
	dialect   entry.Dialect
	use       string
	fileFlag  string
	fileShort string
	fileUsage string
	short     string
	long      string
	example   string
}

func newCommand(app appcontext.Interface, d dialectCommand) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     d.use,
		GroupID: "core",
		Short:   d.short,
		Long:    d.long,
		Example: d.example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd, app, d.dialect, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.File, d.fileFlag, d.fileShort, "", d.fileUsage)
	cmd.Flags().StringVarP(&flags.Manifest, "yaml", "y", "", "Kubernetes manifest declaring the container")
	cmd.Flags().StringVarP(&flags.Image, "image", "i", "", "image of the container whose env is injected")
	cmd.Flags().StringVar(&flags.Suffix, "suffix", "", "suffix appended to the output file name (default -injected)")
	cmd.Flags().StringVar(&flags.ReportFormat, "report-format", "", "report format: log, table, json, yaml, auto")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "print the patched file instead of writing it")
	cmd.Flags().BoolVar(&flags.Entries, "entries", false, "list every entry with its line and state")

	_ = cmd.MarkFlagRequired(d.fileFlag)
	_ = cmd.MarkFlagRequired("yaml")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

// Run executes one dialect command. Flags that were not set fall back to
// the app configuration.
func Run(cmd *cobra.Command, app appcontext.Interface, dialect entry.Dialect, flags *Flags) error {
	logger := app.Logger()

	formatName := app.OutputFormat()
	if cmd.Flags().Changed("report-format") {
		formatName = flags.ReportFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return errors.WrapValidation("report-format", err)
	}

	var opts []envinject.Option
	if cmd.Flags().Changed("suffix") {
		opts = append(opts, envinject.WithSuffix(flags.Suffix))
	}
	dryRun := app.DryRun()
	if cmd.Flags().Changed("dry-run") {
		dryRun = flags.DryRun
		opts = append(opts, envinject.WithDryRun(dryRun))
	}

	engine, err := app.Engine(opts...)
	if err != nil {
		return err
	}

	logger.Info().
		Str("file", flags.File).
		Str("manifest", flags.Manifest).
		Str("image", flags.Image).
		Msg("Injecting manifest env")

	result, err := engine.Run(cmd.Context(), envinject.Request{
		Dialect:      dialect,
		ConfigPath:   flags.File,
		ManifestPath: flags.Manifest,
		Image:        flags.Image,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		if _, err := io.WriteString(out, result.Content); err != nil {
			return err
		}
	}

	if flags.Entries {
		if err := output.FormatEntries(out, result.Entries); err != nil {
			return fmt.Errorf("writing entries: %w", err)
		}
	}

	if err := output.FormatReport(out, logger, format, result.Report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	printStatus(cmd.ErrOrStderr(), result)
	return nil
}

func printStatus(w io.Writer, result *envinject.Result) {
	if result.Written {
		_, _ = fmt.Fprintf(w, "%s Wrote %s (%d lines)\n", emoji.Success, result.OutputPath, len(result.Lines))
	} else {
		_, _ = fmt.Fprintf(w, "%s Dry run, %s not written\n", emoji.Info, result.OutputPath)
	}
	if n := len(result.Report.Secret); n > 0 {
		_, _ = fmt.Fprintf(w, "%s %d secret entries kept their file defaults\n", emoji.Warning, n)
	}
}
