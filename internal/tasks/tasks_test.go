package tasks_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports/mocks"
	"go.trai.ch/bud/internal/tasks"
	"go.uber.org/mock/gomock"
)

func writeSources(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

// upperCase writes every source to OutputDir with OutputExt, upper-cased.
func upperCase(_ context.Context, gc *tasks.GlobContext) error {
	for _, src := range gc.Sources {
		data, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(gc.SourceDir, src)
		if err != nil {
			return err
		}
		out := filepath.Join(gc.OutputDir, strings.TrimSuffix(rel, gc.SourceExt)+gc.OutputExt)
		if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(out, []byte(strings.ToUpper(string(data))), 0o600); err != nil {
			return err
		}
	}
	return nil
}

func TestStandardSignature(t *testing.T) {
	dep := &domain.BuildTaskResult{TaskSignature: "abc"}

	first, err := tasks.StandardSignature([]*domain.BuildTaskResult{dep}, "salt")
	require.NoError(t, err)
	again, err := tasks.StandardSignature([]*domain.BuildTaskResult{dep}, "salt")
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Len(t, first, 64)

	otherSalt, err := tasks.StandardSignature([]*domain.BuildTaskResult{dep}, "pepper")
	require.NoError(t, err)
	assert.NotEqual(t, first, otherSalt)

	noDeps, err := tasks.StandardSignature(nil, "salt")
	require.NoError(t, err)
	assert.NotEqual(t, first, noDeps)
}

func TestFunc(t *testing.T) {
	dep := tasks.NewFunc("dep", nil)
	task := tasks.NewFunc("task", tasks.WriteFile("nested/foo.txt", "42"), dep)

	assert.Equal(t, "task", task.Name())
	assert.Equal(t, []domain.BuildTask{dep}, task.Dependencies())

	out := t.TempDir()
	require.NoError(t, task.Execute(context.Background(), "", out, nil))

	data, err := os.ReadFile(filepath.Join(out, "nested", "foo.txt"))
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))

	require.NoError(t, dep.Execute(context.Background(), "", out, nil))
}

func TestFunc_SignatureDependsOnNameAndSalt(t *testing.T) {
	ctx := context.Background()
	a := tasks.NewFunc("a", nil)
	b := tasks.NewFunc("b", nil)

	sigA, err := a.Signature(ctx, "", nil)
	require.NoError(t, err)
	sigB, err := b.Signature(ctx, "", nil)
	require.NoError(t, err)
	assert.NotEqual(t, sigA, sigB)

	a.Salt = "v2"
	salted, err := a.Signature(ctx, "", nil)
	require.NoError(t, err)
	assert.NotEqual(t, sigA, salted)
}

func TestGlobToExt_Name(t *testing.T) {
	task := &tasks.GlobToExt{SourceDir: "src", SourceExt: ".ts", OutputDir: "js", OutputExt: ".js"}
	assert.Equal(t, "src/**/*.ts -> js/**/*.js", task.Name())

	task.Glob = "lib/*.ts"
	assert.Equal(t, "src/lib/*.ts -> js/**/*.js", task.Name())

	task.TaskName = "compile"
	assert.Equal(t, "compile", task.Name())
}

func TestGlobToExt_Execute(t *testing.T) {
	src := t.TempDir()
	writeSources(t, src, map[string]string{
		"txt/a.txt":         "alpha",
		"txt/deep/b.txt":    "beta",
		"txt/ignored.md":    "nope",
		"other/outside.txt": "outside",
	})

	task := &tasks.GlobToExt{
		Command:   upperCase,
		SourceDir: "txt",
		SourceExt: ".txt",
		OutputDir: "upper",
		OutputExt: ".up",
	}

	out := t.TempDir()
	require.NoError(t, task.Execute(context.Background(), src, out, nil))

	data, err := os.ReadFile(filepath.Join(out, "upper", "a.up"))
	require.NoError(t, err)
	assert.Equal(t, "ALPHA", string(data))

	data, err = os.ReadFile(filepath.Join(out, "upper", "deep", "b.up"))
	require.NoError(t, err)
	assert.Equal(t, "BETA", string(data))

	assert.NoFileExists(t, filepath.Join(out, "upper", "ignored.up"))
	assert.NoFileExists(t, filepath.Join(out, "upper", "outside.up"))
}

func TestGlobToExt_GlobFilter(t *testing.T) {
	src := t.TempDir()
	writeSources(t, src, map[string]string{
		"a.txt":     "a",
		"sub/b.txt": "b",
	})

	var seen []string
	task := &tasks.GlobToExt{
		Command: func(_ context.Context, gc *tasks.GlobContext) error {
			seen = gc.Sources
			return nil
		},
		Glob: "*.txt",
	}

	require.NoError(t, task.Execute(context.Background(), src, t.TempDir(), nil))
	require.Len(t, seen, 1)
	assert.Equal(t, "a.txt", filepath.Base(seen[0]))
}

func TestGlobToExt_Exclude(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	writeSources(t, src, map[string]string{"a.txt": "alpha"})

	var seen []string
	task := &tasks.GlobToExt{
		Command: func(_ context.Context, gc *tasks.GlobContext) error {
			seen = gc.Sources
			return nil
		},
		SourceExt: ".txt",
		Exclude:   []string{filepath.Join(src, "build"), filepath.Join(src, ".bud")},
	}

	before, err := task.Signature(ctx, src, nil)
	require.NoError(t, err)

	writeSources(t, src, map[string]string{
		"build/a.txt":          "alpha",
		".bud/.done/sig/a.txt": "alpha",
	})

	after, err := task.Signature(ctx, src, nil)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.NoError(t, task.Execute(ctx, src, t.TempDir(), nil))
	assert.Equal(t, []string{filepath.Join(src, "a.txt")}, seen)
}

func TestGlobToExt_Signature(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	writeSources(t, src, map[string]string{"a.txt": "alpha"})

	task := &tasks.GlobToExt{Command: upperCase, SourceExt: ".txt", OutputExt: ".up"}

	first, err := task.Signature(ctx, src, nil)
	require.NoError(t, err)
	again, err := task.Signature(ctx, src, nil)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	t.Run("content change", func(t *testing.T) {
		writeSources(t, src, map[string]string{"a.txt": "changed"})
		t.Cleanup(func() { writeSources(t, src, map[string]string{"a.txt": "alpha"}) })

		changed, err := task.Signature(ctx, src, nil)
		require.NoError(t, err)
		assert.NotEqual(t, first, changed)
	})

	t.Run("new source", func(t *testing.T) {
		writeSources(t, src, map[string]string{"b.txt": "beta"})
		t.Cleanup(func() { require.NoError(t, os.Remove(filepath.Join(src, "b.txt"))) })

		changed, err := task.Signature(ctx, src, nil)
		require.NoError(t, err)
		assert.NotEqual(t, first, changed)
	})

	t.Run("salt", func(t *testing.T) {
		salted := *task
		salted.Salt = "v2"
		changed, err := salted.Signature(ctx, src, nil)
		require.NoError(t, err)
		assert.NotEqual(t, first, changed)
	})

	t.Run("dependency", func(t *testing.T) {
		changed, err := task.Signature(ctx, src, []*domain.BuildTaskResult{{TaskSignature: "dep"}})
		require.NoError(t, err)
		assert.NotEqual(t, first, changed)
	})
}

func TestGlobToExt_MissingSourceDir(t *testing.T) {
	var called bool
	task := &tasks.GlobToExt{
		Command: func(_ context.Context, gc *tasks.GlobContext) error {
			called = true
			assert.Empty(t, gc.Sources)
			return nil
		},
		SourceDir: "missing",
		SourceExt: ".txt",
	}

	_, err := task.Signature(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, task.Execute(context.Background(), t.TempDir(), t.TempDir(), nil))
	assert.True(t, called)
}

func TestGlobToExt_NoCommand(t *testing.T) {
	task := &tasks.GlobToExt{SourceExt: ".txt"}
	err := task.Execute(context.Background(), t.TempDir(), t.TempDir(), nil)
	require.ErrorContains(t, err, domain.ErrNoCommandSpecified.Error())
}

func TestShellCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	gc := &tasks.GlobContext{
		Task:      "compile",
		Sources:   []string{"/src/a.txt", "/src/b.txt"},
		SourceDir: "/src",
		OutputDir: "/out",
		OutputExt: ".up",
	}

	executor.EXPECT().Execute(gomock.Any(), &domain.Command{
		Label: "compile",
		Args:  []string{"tool", "--flag", "/src/a.txt", "/src/b.txt"},
		Dir:   "/out",
		Env: map[string]string{
			tasks.EnvSourceDir: "/src",
			tasks.EnvOutputDir: "/out",
			tasks.EnvOutputExt: ".up",
		},
	}).Return(nil)

	cmd := tasks.ShellCommand(executor, "tool", "--flag")
	require.NoError(t, cmd(context.Background(), gc))
}

func TestShellCommand_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	cmd := tasks.ShellCommand(executor)
	err := cmd(context.Background(), &tasks.GlobContext{Task: "empty"})
	require.ErrorContains(t, err, domain.ErrNoCommandSpecified.Error())
}
