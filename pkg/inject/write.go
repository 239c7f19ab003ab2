package inject

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/envinject/pkg/constants"
	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/errors"
	"github.com/agentstation/envinject/pkg/parser"
)

// Options is the configuration for Write.
type Options struct {
	suffix          string
	trailingNewline bool
	dryRun          bool
}

// Option is a function that configures write options.
type Option func(*Options)

// WithSuffix overrides the suffix appended to the source path.
func WithSuffix(suffix string) Option {
	return func(o *Options) {
		o.suffix = suffix
	}
}

// WithDryRun renders without touching the filesystem.
func WithDryRun(enabled bool) Option {
	return func(o *Options) {
		o.dryRun = enabled
	}
}

// Output describes a rendered patched file.
type Output struct {
	Path    string
	Lines   []string
	Content string
	Written bool
}

// Write renders entries and replaces the file at the output path derived
// from src.Path. The output keeps the source's trailing newline; an empty
// source gets one. The source must still be a readable regular file;
// otherwise nothing is written. The content goes to a temporary file in the same
// directory which is then renamed over the destination, so readers never
// see a partial or missing file.
func Write(dialect entry.Dialect, src *parser.Source, entries []entry.Entry, opts ...Option) (*Output, error) {
	sourcePath := src.Path
	if err := parser.CheckRegularFile(sourcePath); err != nil {
		return nil, err
	}

	o := &Options{trailingNewline: src.TrailingNewline || len(src.Lines) == 0}
	for _, opt := range opts {
		opt(o)
	}

	lines := Render(dialect, entries)
	out := &Output{
		Path:    OutputPathWithSuffix(sourcePath, o.suffix),
		Lines:   lines,
		Content: join(lines, o.trailingNewline),
	}
	if o.dryRun {
		return out, nil
	}

	mode := os.FileMode(constants.FilePermissions)
	if info, err := os.Stat(sourcePath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := writeAtomic(out.Path, []byte(out.Content), mode); err != nil {
		return nil, err
	}
	out.Written = true
	return out, nil
}

func join(lines []string, trailingNewline bool) string {
	if len(lines) == 0 {
		return ""
	}
	content := strings.Join(lines, "\n")
	if trailingNewline {
		content += "\n"
	}
	return content
}

func writeAtomic(path string, data []byte, mode os.FileMode) error {
	if info, err := os.Stat(path); err == nil && !info.Mode().IsRegular() {
		return errors.WrapIO("stat", path, errors.ErrNotAFile)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), constants.TempFilePattern)
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("sync", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return errors.WrapIO("chmod", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
