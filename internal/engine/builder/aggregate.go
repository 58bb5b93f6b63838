package builder

import (
	"context"
	"path"

	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// aggregate merges the done directories of results into the output directory.
// Every file is checked for clashes before the output directory is touched.
func (b *build) aggregate(ctx context.Context, results []*domain.BuildTaskResult, limit int) error {
	listings, err := b.list(ctx, results, limit)
	if err != nil {
		return err
	}

	if err := checkOutputClashes(results, listings); err != nil {
		return err
	}

	if err := b.e.tree.RecreateDir(b.req.OutputDir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputAggregationFailed.Error()), "output_dir", b.req.OutputDir)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, res := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := b.e.tree.CopyTree(res.TaskOutputDir, b.req.OutputDir); err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrOutputAggregationFailed.Error()), "task", res.Task.Name())
			}
			return nil
		})
	}
	return g.Wait()
}

// list returns the relative files of every result, index-aligned with results.
func (b *build) list(ctx context.Context, results []*domain.BuildTaskResult, limit int) ([][]string, error) {
	listings := make([][]string, len(results))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, res := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files, err := b.e.tree.ListFiles(res.TaskOutputDir)
			if err != nil {
				return zerr.With(zerr.Wrap(err, domain.ErrOutputAggregationFailed.Error()), "task", res.Task.Name())
			}
			listings[i] = files
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return listings, nil
}

// checkOutputClashes reports the first relative path contributed by two different tasks.
// A file in one task and a directory of the same path in another also clash.
func checkOutputClashes(results []*domain.BuildTaskResult, listings [][]string) error {
	files := make(map[string]domain.BuildTask)
	dirs := make(map[string]domain.BuildTask)
	for i, res := range results {
		for _, file := range listings[i] {
			if owner, ok := files[file]; ok && owner != res.Task {
				return domain.NewOutputClash(owner.Name(), res.Task.Name(), file)
			}
			if owner, ok := dirs[file]; ok && owner != res.Task {
				return domain.NewOutputClash(owner.Name(), res.Task.Name(), file)
			}
			files[file] = res.Task

			for dir := path.Dir(file); dir != "."; dir = path.Dir(dir) {
				if owner, ok := files[dir]; ok && owner != res.Task {
					return domain.NewOutputClash(owner.Name(), res.Task.Name(), dir)
				}
				if _, ok := dirs[dir]; !ok {
					dirs[dir] = res.Task
				}
			}
		}
	}
	return nil
}
