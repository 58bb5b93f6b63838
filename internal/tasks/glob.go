package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/bud/internal/adapters/digest"
	"go.trai.ch/bud/internal/adapters/fs"
	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports"
	"go.trai.ch/zerr"
)

// Environment variables exported to commands built by ShellCommand.
const (
	EnvSourceDir = "BUD_SOURCE_DIR"
	EnvOutputDir = "BUD_OUTPUT_DIR"
	EnvOutputExt = "BUD_OUTPUT_EXT"
)

// GlobContext is handed to a GlobToExt command.
type GlobContext struct {
	// Task is the name of the running task.
	Task string
	// Sources holds the absolute paths of the matched source files, sorted.
	Sources []string
	// SourceDir is the absolute directory the sources were searched in.
	SourceDir string
	SourceExt string
	// OutputDir is the absolute directory the command must write its files to.
	OutputDir string
	OutputExt string
}

// Command turns the sources of a GlobContext into output files.
type Command func(ctx context.Context, gc *GlobContext) error

// GlobToExt runs a command over every source file with a given extension (or
// matching a glob) and expects one output file with OutputExt per source.
//
// The signature covers the contents of every source, the task's settings, the
// salt and the dependencies' signatures.
type GlobToExt struct {
	Command Command
	// SourceDir is relative to the build's source directory.
	SourceDir string
	SourceExt string
	// Glob, if set, replaces SourceExt as the source filter. It is a doublestar
	// pattern relative to SourceDir.
	Glob string
	// OutputDir is relative to the task's output directory.
	OutputDir string
	OutputExt string
	Salt      string
	// TaskName overrides the generated name.
	TaskName string
	Deps     []domain.BuildTask
	// Exclude lists directories whose files are never sources, typically the
	// build's output and meta directories when they live inside the source tree.
	Exclude []string
}

// Name returns TaskName, or a description of the mapping such as
// "src/**/*.ts -> js/**/*.js".
func (t *GlobToExt) Name() string {
	if t.TaskName != "" {
		return t.TaskName
	}
	return fmt.Sprintf("%s -> %s/**/*%s", t.pattern(), t.OutputDir, t.OutputExt)
}

func (t *GlobToExt) pattern() string {
	if t.Glob != "" {
		return t.SourceDir + "/" + strings.TrimPrefix(t.Glob, "/")
	}
	return t.SourceDir + "/**/*" + t.SourceExt
}

// Dependencies returns the tasks t depends on.
func (t *GlobToExt) Dependencies() []domain.BuildTask { return t.Deps }

// Signature digests the sources found under sourceDir together with the task settings.
func (t *GlobToExt) Signature(_ context.Context, sourceDir string, deps []*domain.BuildTaskResult) (string, error) {
	sources, err := t.sources(sourceDir)
	if err != nil {
		return "", err
	}

	signer := digest.NewSigner().
		Digest("Sources").
		DigestSources(sources).
		Digest("SourceDir").
		Digest(t.SourceDir).
		Digest("SourceExt").
		Digest(t.SourceExt).
		Digest("Glob").
		Digest(t.Glob).
		Digest("OutputDir").
		Digest(t.OutputDir).
		Digest("OutputExt").
		Digest(t.OutputExt).
		Digest("Salt").
		Digest(t.Salt).
		Digest("Dependencies")
	for _, dep := range deps {
		signer.Digest(dep.TaskSignature)
	}
	return signer.Finish().HexSignature()
}

// Execute finds the sources and runs the command with outputDir/OutputDir as its output directory.
func (t *GlobToExt) Execute(ctx context.Context, sourceDir, outputDir string, _ []*domain.BuildTaskResult) error {
	if t.Command == nil {
		return zerr.With(domain.ErrNoCommandSpecified, "task", t.Name())
	}

	sources, err := t.sources(sourceDir)
	if err != nil {
		return err
	}

	out := filepath.Join(outputDir, t.OutputDir)
	if err := os.MkdirAll(out, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create output directory"), "path", out)
	}

	return t.Command(ctx, &GlobContext{
		Task:      t.Name(),
		Sources:   sources,
		SourceDir: filepath.Join(sourceDir, t.SourceDir),
		SourceExt: t.SourceExt,
		OutputDir: out,
		OutputExt: t.OutputExt,
	})
}

func (t *GlobToExt) sources(sourceDir string) ([]string, error) {
	dir := filepath.Join(sourceDir, t.SourceDir)
	if t.Glob != "" {
		return fs.Glob(dir, t.Glob, t.Exclude...)
	}
	return fs.FilesByExt(dir, t.SourceExt, t.Exclude...)
}

// ShellCommand returns a Command that runs argv followed by the source paths.
// The command runs in the output directory and sees the directories and the
// output extension in BUD_SOURCE_DIR, BUD_OUTPUT_DIR and BUD_OUTPUT_EXT.
func ShellCommand(executor ports.Executor, argv ...string) Command {
	return func(ctx context.Context, gc *GlobContext) error {
		if len(argv) == 0 {
			return zerr.With(domain.ErrNoCommandSpecified, "task", gc.Task)
		}

		args := make([]string, 0, len(argv)+len(gc.Sources))
		args = append(args, argv...)
		args = append(args, gc.Sources...)

		return executor.Execute(ctx, &domain.Command{
			Label: gc.Task,
			Args:  args,
			Dir:   gc.OutputDir,
			Env: map[string]string{
				EnvSourceDir: gc.SourceDir,
				EnvOutputDir: gc.OutputDir,
				EnvOutputExt: gc.OutputExt,
			},
		})
	}
}
