package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/envinject"
	"github.com/agentstation/envinject/pkg/constants"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	EngineFunc       func(...envinject.Option) (envinject.Engine, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	SuffixFunc       func() string
	DryRunFunc       func() bool
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Engine returns an engine using the mock function or a default engine.
func (m *Mock) Engine(opts ...envinject.Option) (envinject.Engine, error) {
	if m.EngineFunc != nil {
		return m.EngineFunc(opts...)
	}
	return envinject.New(append([]envinject.Option{envinject.WithLogger(m.Logger())}, opts...)...)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "log".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "log"
}

// Suffix returns the suffix using the mock function or the default suffix.
func (m *Mock) Suffix() string {
	if m.SuffixFunc != nil {
		return m.SuffixFunc()
	}
	return constants.InjectedSuffix
}

// DryRun returns the dry run setting using the mock function or false.
func (m *Mock) DryRun() bool {
	if m.DryRunFunc != nil {
		return m.DryRunFunc()
	}
	return false
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
