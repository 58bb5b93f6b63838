package domain

import "context"

// BuildTask is the unit of work supplied to the build engine.
//
// The engine identifies tasks by value equality of the interface, so implementations
// are expected to be pointer types.
type BuildTask interface {
	// Name returns the task name. It must be unique among all tasks of one build.
	Name() string
	// Dependencies returns the tasks this task depends on, in declaration order.
	Dependencies() []BuildTask
	// Signature returns a deterministic, filesystem-safe digest of the task's effective inputs.
	Signature(ctx context.Context, sourceDir string, deps []*BuildTaskResult) (string, error)
	// Execute produces the task's output files inside outputDir.
	Execute(ctx context.Context, sourceDir, outputDir string, deps []*BuildTaskResult) error
}

// BuildTaskResult is the outcome of one executed or reused task.
// It is created once by the engine and never mutated afterwards.
type BuildTaskResult struct {
	Task                BuildTask
	TaskSignature       string
	TaskOutputDir       string
	DependenciesResults []*BuildTaskResult
	Cached              bool
}

// BuildResult summarizes a successful build.
type BuildResult struct {
	// Results holds one entry per distinct task, dependencies first.
	Results  []*BuildTaskResult
	Executed int
	Cached   int
}
