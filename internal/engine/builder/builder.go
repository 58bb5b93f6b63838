// Package builder implements the incremental build engine on top of the task graph runner.
package builder

import (
	"context"

	"github.com/google/uuid"
	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports"
	"go.trai.ch/bud/internal/engine/taskgraph"
	"go.trai.ch/zerr"
)

// Request describes one build invocation.
type Request struct {
	// SourceDir is passed unchanged to every task's Signature and Execute.
	SourceDir string
	// OutputDir receives the merged output. It is deleted and recreated by every successful build.
	OutputDir string
	// MetaDir holds the .done cache and the .partial scratch area.
	MetaDir string
	// Tasks are the root tasks; their transitive dependencies are built as well.
	Tasks []domain.BuildTask
	// Parallelism bounds concurrently running tasks. Zero uses runtime.NumCPU().
	Parallelism int
}

// Engine executes build tasks, reusing promoted outputs from previous builds.
type Engine struct {
	store  ports.OutputStore
	tree   ports.FileTree
	tracer ports.Tracer
	logger ports.Logger
}

// NewEngine creates a new Engine.
func NewEngine(
	store ports.OutputStore,
	tree ports.FileTree,
	tracer ports.Tracer,
	logger ports.Logger,
) *Engine {
	return &Engine{
		store:  store,
		tree:   tree,
		tracer: tracer,
		logger: logger,
	}
}

// Execute builds the requested tasks and merges their outputs into req.OutputDir.
//
// Specification errors (duplicate names, cycles) are reported before anything is
// touched on disk. Any failure aborts the whole build with a single error; the
// .done cache stays valid, so Execute can always be repeated.
func (e *Engine) Execute(ctx context.Context, req Request) (*domain.BuildResult, error) {
	graph, err := domain.NewGraph(req.Tasks...)
	if err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "build")
	defer span.End()

	b := e.newBuild(req, graph)
	span.SetAttribute("build_id", b.id)
	span.SetAttribute("tasks", graph.TaskCount())

	names := make([]string, 0, graph.TaskCount())
	for task := range graph.Walk() {
		names = append(names, task.Name())
	}
	e.tracer.EmitPlan(ctx, names)

	result, err := b.run(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("executed", result.Executed)
	span.SetAttribute("cached", result.Cached)
	return result, nil
}

// build holds the state of one Execute call.
type build struct {
	e          *Engine
	req        Request
	id         string
	graph      *domain.Graph
	signatures *registry[string, domain.BuildTask]
	results    *registry[domain.BuildTask, *domain.BuildTaskResult]
	progress   *progress
}

func (e *Engine) newBuild(req Request, graph *domain.Graph) *build {
	return &build{
		e:          e,
		req:        req,
		id:         uuid.NewString(),
		graph:      graph,
		signatures: newSignatureRegistry[domain.BuildTask](),
		results:    newIdentityRegistry[domain.BuildTask, *domain.BuildTaskResult](),
		progress:   newProgress(e.logger, graph.TaskCount()),
	}
}

func (b *build) run(ctx context.Context) (*domain.BuildResult, error) {
	if err := b.e.store.Reset(b.req.MetaDir); err != nil {
		return nil, err
	}

	roots := b.nodes()
	runner := taskgraph.NewRunner(b.req.Parallelism)
	if err := runner.Run(ctx, roots...); err != nil {
		b.reportSkipped(err)
		return nil, primaryError(err)
	}

	result := b.collect()
	if err := b.aggregate(ctx, result.Results, runner.Parallelism()); err != nil {
		return nil, err
	}
	return result, nil
}

// nodes creates one graph node per distinct task and returns the root nodes.
func (b *build) nodes() []*taskgraph.Node {
	byTask := make(map[domain.BuildTask]*taskgraph.Node, b.graph.TaskCount())

	for task := range b.graph.Walk() {
		deps := make([]*taskgraph.Node, 0, len(task.Dependencies()))
		for _, dep := range task.Dependencies() {
			deps = append(deps, byTask[dep])
		}
		byTask[task] = taskgraph.NewNode(task.Name(), b.action(task), deps...)
	}

	roots := make([]*taskgraph.Node, 0, len(b.graph.Roots()))
	for _, task := range b.graph.Roots() {
		roots = append(roots, byTask[task])
	}
	return roots
}

func (b *build) action(task domain.BuildTask) taskgraph.Action {
	return func(ctx context.Context) error {
		ctx, span := b.e.tracer.Start(ctx, task.Name())
		defer span.End()
		span.SetAttribute("task", task.Name())
		span.SetAttribute("build_id", b.id)

		status, err := b.buildTask(ctx, task, span)
		span.SetAttribute("status", string(status))
		if err != nil {
			span.RecordError(err)
			return err
		}
		return nil
	}
}

// buildTask resolves, signs, and executes or reuses a single task.
func (b *build) buildTask(ctx context.Context, task domain.BuildTask, span ports.Span) (domain.TaskStatus, error) {
	name := task.Name()

	deps, err := b.dependencyResults(task)
	if err != nil {
		return domain.TaskStatusFailed, err
	}

	signature, err := task.Signature(ctx, b.req.SourceDir, deps)
	if err != nil {
		return domain.TaskStatusFailed, zerr.With(zerr.Wrap(err, domain.ErrTaskSignatureFailed.Error()), "task", name)
	}
	span.SetAttribute("signature", signature)

	if owner, loaded := b.signatures.LoadOrStore(signature, task); loaded && owner != task {
		return domain.TaskStatusFailed, domain.NewSignatureClash(owner.Name(), name, signature)
	}

	number := b.progress.next()

	doneDir, cached, err := b.e.store.Lookup(b.req.MetaDir, signature)
	if err != nil {
		return domain.TaskStatusFailed, zerr.With(err, "task", name)
	}

	status := domain.TaskStatusCached
	if cached {
		span.MarkCached()
		b.progress.logReused(number, name)
	} else {
		status = domain.TaskStatusBuilt
		b.progress.logStarted(number, name)

		doneDir, err = b.execute(ctx, task, signature, deps)
		if err != nil {
			return domain.TaskStatusFailed, err
		}
		b.progress.logDone(number, name)
	}

	b.results.LoadOrStore(task, &domain.BuildTaskResult{
		Task:                task,
		TaskSignature:       signature,
		TaskOutputDir:       doneDir,
		DependenciesResults: deps,
		Cached:              cached,
	})
	return status, nil
}

// execute runs the task inside its partial directory and promotes the result.
// A failing task leaves its partial directory behind; the next build wipes it.
func (b *build) execute(
	ctx context.Context,
	task domain.BuildTask,
	signature string,
	deps []*domain.BuildTaskResult,
) (string, error) {
	partialDir, err := b.e.store.Stage(b.req.MetaDir, signature)
	if err != nil {
		return "", zerr.With(err, "task", task.Name())
	}

	if err := task.Execute(ctx, b.req.SourceDir, partialDir, deps); err != nil {
		return "", &taskError{
			err: zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", task.Name()),
		}
	}

	doneDir, err := b.e.store.Promote(b.req.MetaDir, signature)
	if err != nil {
		return "", zerr.With(err, "task", task.Name())
	}
	return doneDir, nil
}

// dependencyResults returns the results of task's direct dependencies in declaration order.
func (b *build) dependencyResults(task domain.BuildTask) ([]*domain.BuildTaskResult, error) {
	deps := task.Dependencies()
	results := make([]*domain.BuildTaskResult, 0, len(deps))
	for _, dep := range deps {
		res, ok := b.results.Load(dep)
		if !ok {
			return nil, zerr.With(zerr.With(errMissingResult, "task", task.Name()), "dependency", dep.Name())
		}
		results = append(results, res)
	}
	return results, nil
}

// collect gathers the results of every task, dependencies first.
func (b *build) collect() *domain.BuildResult {
	result := &domain.BuildResult{
		Results: make([]*domain.BuildTaskResult, 0, b.graph.TaskCount()),
	}
	for task := range b.graph.Walk() {
		res, ok := b.results.Load(task)
		if !ok {
			continue
		}
		result.Results = append(result.Results, res)
		if res.Cached {
			result.Cached++
		} else {
			result.Executed++
		}
	}
	return result
}

func (b *build) reportSkipped(err error) {
	agg, ok := asAggregate(err)
	if !ok {
		return
	}
	for _, n := range agg.Skipped {
		b.e.logger.Warn("Skipped " + n.Name() + ": a dependency did not complete.")
	}
}
