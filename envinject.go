// Package envinject reconciles configuration file defaults against the
// environment a Kubernetes manifest declares for a container, and writes
// the patched file next to the original.
//
// A run reads the file, parses it for its dialect, loads the container's
// env declarations from the manifest, reconciles the two, writes the
// result to <file>-injected and builds a diagnostic report.
//
//	engine, err := envinject.New()
//	if err != nil {
//		return err
//	}
//	result, err := engine.Run(ctx, envinject.Request{
//		Dialect:      entry.DialectEnv,
//		ConfigPath:   ".env",
//		ManifestPath: "deploy.yaml",
//		Image:        "registry.local/app:1.0",
//	})
package envinject

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/envinject/pkg/entry"
	"github.com/agentstation/envinject/pkg/errors"
	"github.com/agentstation/envinject/pkg/inject"
	"github.com/agentstation/envinject/pkg/logging"
	"github.com/agentstation/envinject/pkg/parser"
	"github.com/agentstation/envinject/pkg/reconcile"
	"github.com/agentstation/envinject/pkg/report"
)

// Engine runs the parse, reconcile, inject and report pipeline.
type Engine interface {
	// Run processes one configuration file against one manifest container
	Run(ctx context.Context, req Request) (*Result, error)

	// OnInjected registers a callback for entries injected with a value
	OnInjected(EntryHook)

	// OnSecret registers a callback for file entries matched by a secret
	OnSecret(EntryHook)

	// OnSynthesized registers a callback for entries appended from the manifest
	OnSynthesized(EntryHook)
}

// Request names the inputs of a run.
type Request struct {
	Dialect      entry.Dialect
	ConfigPath   string
	ManifestPath string
	Image        string
}

// Validate checks that every field is set.
func (r Request) Validate() error {
	switch {
	case !r.Dialect.IsValid():
		return errors.NewValidationError("dialect", r.Dialect, fmt.Sprintf("unsupported dialect %q", r.Dialect))
	case r.ConfigPath == "":
		return errors.NewValidationError("config", r.ConfigPath, "path is required")
	case r.ManifestPath == "":
		return errors.NewValidationError("manifest", r.ManifestPath, "path is required")
	case r.Image == "":
		return errors.NewValidationError("image", r.Image, "container image is required")
	}
	return nil
}

// Result is the outcome of a run.
type Result struct {
	Dialect      entry.Dialect        `json:"dialect" yaml:"dialect"`
	SourcePath   string               `json:"source" yaml:"source"`
	OutputPath   string               `json:"output" yaml:"output"`
	Written      bool                 `json:"written" yaml:"written"`
	Entries      []entry.Entry        `json:"entries" yaml:"entries"`
	Declarations []entry.Declaration  `json:"declarations" yaml:"declarations"`
	Lines        []string             `json:"-" yaml:"-"`
	Content      string               `json:"-" yaml:"-"`
	Stats        reconcile.Statistics `json:"stats" yaml:"stats"`
	Report       *report.Report       `json:"report" yaml:"report"`
}

// engine is the internal implementation of the Engine interface
type engine struct {
	config *config
	hooks  *hooks
}

// New creates a new Engine with the given options
func New(opts ...Option) (Engine, error) {
	e := &engine{
		config: defaultConfig(),
		hooks:  newHooks(),
	}

	if err := e.config.apply(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}
	return e, nil
}

// Run implements Engine. Nothing is written when ctx is cancelled before
// the inject stage or when any stage fails.
func (e *engine) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx = logging.WithLogger(ctx, e.logger(ctx))
	ctx = logging.WithDialect(ctx, req.Dialect.String())
	ctx = logging.WithFile(ctx, req.ConfigPath)
	ctx = logging.WithImage(ctx, req.Image)
	logger := logging.FromContext(ctx)

	logger.Info().Msg("Reading configuration file")
	src, err := parser.ReadFile(req.ConfigPath)
	if err != nil {
		return nil, err
	}
	entries, err := parser.Parse(ctx, req.Dialect, src.Lines)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decls, err := e.config.loader.Load(ctx, req.ManifestPath, req.Image)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec, err := reconcile.New(req.Dialect, reconcile.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	reconciled := rec.Reconcile(entries, decls)
	all := reconciled.All()
	logger.Info().Msg(reconciled.Summary())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := inject.Write(req.Dialect, src, all,
		inject.WithSuffix(e.config.suffix),
		inject.WithDryRun(e.config.dryRun),
	)
	if err != nil {
		return nil, err
	}
	if out.Written {
		logger.Info().Str("output", out.Path).Int("lines", len(out.Lines)).Msg("Wrote injected file")
	} else {
		logger.Info().Str("output", out.Path).Msg("Dry run, nothing written")
	}

	e.hooks.trigger(all)

	return &Result{
		Dialect:      req.Dialect,
		SourcePath:   req.ConfigPath,
		OutputPath:   out.Path,
		Written:      out.Written,
		Entries:      all,
		Declarations: decls,
		Lines:        out.Lines,
		Content:      out.Content,
		Stats:        reconciled.Stats,
		Report:       report.Generate(all),
	}, nil
}

func (e *engine) logger(ctx context.Context) *zerolog.Logger {
	if e.config.logger != nil {
		return e.config.logger
	}
	return logging.FromContext(ctx)
}

// OnInjected registers a callback for entries injected with a value
func (e *engine) OnInjected(fn EntryHook) { e.hooks.OnInjected(fn) }

// OnSecret registers a callback for file entries matched by a secret
func (e *engine) OnSecret(fn EntryHook) { e.hooks.OnSecret(fn) }

// OnSynthesized registers a callback for entries appended from the manifest
func (e *engine) OnSynthesized(fn EntryHook) { e.hooks.OnSynthesized(fn) }
