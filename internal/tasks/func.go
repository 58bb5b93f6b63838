package tasks

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/zerr"
)

// Action produces a task's output inside outputDir.
type Action func(ctx context.Context, sourceDir, outputDir string, deps []*domain.BuildTaskResult) error

// Func is a build task backed by a Go function.
//
// Its signature covers only the dependencies and the salt, so changing what
// Action does requires changing Salt to invalidate earlier outputs.
type Func struct {
	TaskName string
	Deps     []domain.BuildTask
	Salt     string
	Action   Action
}

// NewFunc creates a Func task.
func NewFunc(name string, action Action, deps ...domain.BuildTask) *Func {
	return &Func{
		TaskName: name,
		Deps:     deps,
		Action:   action,
	}
}

// Name returns the task name.
func (f *Func) Name() string { return f.TaskName }

// Dependencies returns the tasks f depends on.
func (f *Func) Dependencies() []domain.BuildTask { return f.Deps }

// Signature returns the StandardSignature of f.
func (f *Func) Signature(_ context.Context, _ string, deps []*domain.BuildTaskResult) (string, error) {
	return StandardSignature(deps, f.TaskName, f.Salt)
}

// Execute runs the action. A nil action produces an empty output.
func (f *Func) Execute(ctx context.Context, sourceDir, outputDir string, deps []*domain.BuildTaskResult) error {
	if f.Action == nil {
		return nil
	}
	return f.Action(ctx, sourceDir, outputDir, deps)
}

// WriteFile returns an action that writes content to the relative path name.
func WriteFile(name, content string) Action {
	return func(_ context.Context, _, outputDir string, _ []*domain.BuildTaskResult) error {
		path := filepath.Join(outputDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(path))
		}
		if err := os.WriteFile(path, []byte(content), domain.FilePerm); err != nil { //nolint:gosec // Outputs are world-readable
			return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
		}
		return nil
	}
}
