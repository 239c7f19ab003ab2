package parser

import (
	"io/fs"
	"os"
	"strings"

	"github.com/agentstation/envinject/pkg/errors"
)

// Source is a configuration file split into lines.
type Source struct {
	Path  string
	Lines []string

	// TrailingNewline records whether the file ended with a newline so the
	// injector can reproduce it.
	TrailingNewline bool
}

// ReadFile reads a configuration file. A missing path, a path that is not a
// regular file, or an unreadable file is an error; nothing is created.
// Lines are split on '\n' only, so a '\r' stays part of its line.
func ReadFile(path string) (*Source, error) {
	if err := CheckRegularFile(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classify("read", path, err)
	}
	return SplitLines(path, string(data)), nil
}

// SplitLines splits file content into a Source.
func SplitLines(path, content string) *Source {
	src := &Source{Path: path}
	if content == "" {
		return src
	}
	if strings.HasSuffix(content, "\n") {
		src.TrailingNewline = true
		content = strings.TrimSuffix(content, "\n")
	}
	src.Lines = strings.Split(content, "\n")
	return src
}

// CheckRegularFile verifies that path names a readable regular file.
func CheckRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return classify("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return errors.WrapIO("stat", path, errors.ErrNotAFile)
	}
	f, err := os.Open(path)
	if err != nil {
		return classify("open", path, err)
	}
	return f.Close()
}

func classify(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errors.WrapIO(op, path, errors.NewNotFoundError("file", path))
	case errors.Is(err, fs.ErrPermission):
		return errors.WrapIO(op, path, errors.ErrAccessDenied)
	default:
		return errors.WrapIO(op, path, err)
	}
}
