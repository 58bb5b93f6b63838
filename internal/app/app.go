// Package app implements the application layer for bud.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.trai.ch/bud/internal/adapters/config" //nolint:depguard // Telemetry names are validated by the loader
	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports"
	"go.trai.ch/bud/internal/engine/builder"
	"go.trai.ch/bud/internal/tasks"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	engine       *builder.Engine
	executor     ports.Executor
	tracer       ports.TracerSwitch
	hasher       ports.Hasher
	logger       ports.Logger
	workDir      string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	engine *builder.Engine,
	executor ports.Executor,
	tracer ports.TracerSwitch,
	hasher ports.Hasher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		engine:       engine,
		executor:     executor,
		tracer:       tracer,
		hasher:       hasher,
		logger:       log,
		workDir:      ".",
	}
}

// WithWorkDir sets the directory the configuration is read from.
// This is primarily used for testing.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// BuildOptions configuration for the Build method.
// Empty values keep the settings from the configuration file.
type BuildOptions struct {
	// Command is the program and arguments run over the sources.
	Command []string
	// SourceExt selects sources by extension.
	SourceExt string
	// Glob selects sources by a doublestar pattern instead of SourceExt.
	Glob      string
	OutputExt string
	Salt      string
	Name      string

	SourceDir   string
	OutputDir   string
	MetaDir     string
	Parallelism int
	JSON        bool
	Telemetry   string
}

// Build runs Command over the selected sources and merges its output into the output directory.
//
// Build failures are logged here and returned joined with domain.ErrBuildExecutionFailed.
func (a *App) Build(ctx context.Context, opts BuildOptions) (*Summary, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, err
	}

	if len(opts.Command) == 0 {
		return nil, domain.ErrNoCommandSpecified
	}

	a.logger.SetJSON(cfg.LogJSON)

	release, err := a.tracer.Use(cfg.Telemetry)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn("Failed to flush telemetry: " + err.Error())
		}
	}()

	task := &tasks.GlobToExt{
		Command:   tasks.ShellCommand(a.executor, opts.Command...),
		SourceExt: opts.SourceExt,
		Glob:      opts.Glob,
		OutputExt: opts.OutputExt,
		Salt:      opts.Salt,
		TaskName:  opts.Name,
		Exclude:   []string{cfg.OutputDir, cfg.MetaDir},
	}

	start := time.Now()
	result, err := a.engine.Execute(ctx, builder.Request{
		SourceDir:   cfg.SourceDir,
		OutputDir:   cfg.OutputDir,
		MetaDir:     cfg.MetaDir,
		Tasks:       []domain.BuildTask{task},
		Parallelism: cfg.Parallelism,
	})
	if err != nil {
		a.logger.Error(err)
		return nil, errors.Join(domain.ErrBuildExecutionFailed, err)
	}

	hash, err := a.hasher.ComputeTreeHash(cfg.OutputDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to fingerprint build output")
	}

	return &Summary{
		Tasks:     len(result.Results),
		Executed:  result.Executed,
		Cached:    result.Cached,
		OutputDir: cfg.OutputDir,
		TreeHash:  hash,
		Duration:  time.Since(start),
	}, nil
}

func (a *App) loadConfig(opts BuildOptions) (*domain.Config, error) {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.SourceDir != "" {
		cfg.SourceDir = opts.SourceDir
	}
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	if opts.MetaDir != "" {
		cfg.MetaDir = opts.MetaDir
	}
	if opts.Parallelism > 0 {
		cfg.Parallelism = opts.Parallelism
	}
	if opts.JSON {
		cfg.LogJSON = true
	}
	if opts.Telemetry != "" {
		kind, err := config.ParseTelemetry(opts.Telemetry)
		if err != nil {
			return nil, err
		}
		cfg.Telemetry = kind
	}
	return cfg, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Output bool
	Meta   bool
	// OutputDir and MetaDir override the configured directories when set.
	OutputDir string
	MetaDir   string
}

// Clean removes the output directory and the build cache based on the provided options.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	cfg, err := a.configLoader.Load(a.workDir)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	if options.OutputDir != "" {
		cfg.OutputDir = options.OutputDir
	}
	if options.MetaDir != "" {
		cfg.MetaDir = options.MetaDir
	}

	var errs error

	// Helper to remove a directory and log the action
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if options.Output {
		remove(cfg.OutputDir, "build output")
	}

	if options.Meta {
		remove(cfg.MetaDir, "build cache")
	}

	return errs
}
