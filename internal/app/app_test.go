package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bud/internal/adapters/cas"
	"go.trai.ch/bud/internal/adapters/config"
	"go.trai.ch/bud/internal/adapters/fs"
	"go.trai.ch/bud/internal/adapters/telemetry"
	"go.trai.ch/bud/internal/app"
	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports/mocks"
	"go.trai.ch/bud/internal/engine/builder"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app      *app.App
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	tracer   *mocks.MockTracerSwitch
	hasher   *mocks.MockHasher
	logger   *mocks.MockLogger
	cfg      *domain.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		tracer:   mocks.NewMockTracerSwitch(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	root := t.TempDir()
	f.cfg = &domain.Config{
		SourceDir: filepath.Join(root, "src"),
		OutputDir: filepath.Join(root, "build"),
		MetaDir:   filepath.Join(root, ".bud"),
		Telemetry: domain.TelemetryNone,
	}
	require.NoError(t, os.MkdirAll(f.cfg.SourceDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(f.cfg.SourceDir, "a.txt"), []byte("alpha"), 0o600))

	engine := builder.NewEngine(cas.NewStore(), fs.NewTree(fs.NewWalker()), telemetry.NewNoOpTracer(), f.logger)
	f.app = app.New(f.loader, engine, f.executor, f.tracer, f.hasher, f.logger).WithWorkDir(root)
	return f
}

func noRelease(context.Context) error { return nil }

func TestApp_Build(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load(gomock.Any()).Return(f.cfg, nil)
	f.logger.EXPECT().SetJSON(false)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.tracer.EXPECT().Use(domain.TelemetryNone).Return(noRelease, nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd *domain.Command) error {
			assert.Equal(t, []string{"tool", filepath.Join(f.cfg.SourceDir, "a.txt")}, cmd.Args)
			return os.WriteFile(filepath.Join(cmd.Dir, "a.out"), []byte("ALPHA"), 0o600)
		})
	f.hasher.EXPECT().ComputeTreeHash(f.cfg.OutputDir).Return("0123456789abcdef", nil)

	summary, err := f.app.Build(context.Background(), app.BuildOptions{
		Command:   []string{"tool"},
		SourceExt: ".txt",
		OutputExt: ".out",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Tasks)
	assert.Equal(t, 1, summary.Executed)
	assert.Equal(t, "0123456789abcdef", summary.TreeHash)

	data, err := os.ReadFile(filepath.Join(f.cfg.OutputDir, "a.out"))
	require.NoError(t, err)
	assert.Equal(t, "ALPHA", string(data))
}

func TestApp_Build_Overrides(t *testing.T) {
	f := newFixture(t)
	otherOut := filepath.Join(t.TempDir(), "elsewhere")

	f.loader.EXPECT().Load(gomock.Any()).Return(f.cfg, nil)
	f.logger.EXPECT().SetJSON(true)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.tracer.EXPECT().Use(domain.TelemetryProgrock).Return(noRelease, nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil)
	f.hasher.EXPECT().ComputeTreeHash(otherOut).Return("hash", nil)

	summary, err := f.app.Build(context.Background(), app.BuildOptions{
		Command:   []string{"tool"},
		SourceExt: ".txt",
		OutputDir: otherOut,
		JSON:      true,
		Telemetry: "progrock",
	})
	require.NoError(t, err)
	assert.Equal(t, otherOut, summary.OutputDir)
	assert.DirExists(t, otherOut)
}

func TestApp_Build_Cached(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load(gomock.Any()).Return(f.cfg, nil).Times(2)
	f.logger.EXPECT().SetJSON(false).Times(2)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.tracer.EXPECT().Use(domain.TelemetryNone).Return(noRelease, nil).Times(2)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	f.hasher.EXPECT().ComputeTreeHash(gomock.Any()).Return("hash", nil).Times(2)

	opts := app.BuildOptions{Command: []string{"tool"}, SourceExt: ".txt"}
	_, err := f.app.Build(context.Background(), opts)
	require.NoError(t, err)

	summary, err := f.app.Build(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Executed)
	assert.Equal(t, 1, summary.Cached)
}

func TestApp_Build_DefaultLayoutIsIdempotent(t *testing.T) {
	f := newFixture(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("alpha"), 0o600))

	engine := builder.NewEngine(cas.NewStore(), fs.NewTree(fs.NewWalker()), telemetry.NewNoOpTracer(), f.logger)
	a := app.New(config.NewLoader(f.logger), engine, f.executor, f.tracer, f.hasher, f.logger).WithWorkDir(root)

	f.logger.EXPECT().SetJSON(false).Times(3)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.tracer.EXPECT().Use(domain.TelemetryOTel).Return(noRelease, nil).Times(3)
	f.hasher.EXPECT().ComputeTreeHash(filepath.Join(root, domain.DefaultOutputDir)).Return("hash", nil).Times(3)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd *domain.Command) error {
			assert.Equal(t, []string{"copy", filepath.Join(root, "a.txt")}, cmd.Args)
			return os.WriteFile(filepath.Join(cmd.Dir, "a.txt"), []byte("alpha"), 0o600)
		}).Times(1)

	opts := app.BuildOptions{Command: []string{"copy"}, SourceExt: ".txt", OutputExt: ".txt"}
	for range 3 {
		_, err := a.Build(context.Background(), opts)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(root, domain.DefaultOutputDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
}

func TestApp_Build_Failure(t *testing.T) {
	f := newFixture(t)

	var released bool
	f.loader.EXPECT().Load(gomock.Any()).Return(f.cfg, nil)
	f.logger.EXPECT().SetJSON(false)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Error(gomock.Any()).Times(1)
	f.tracer.EXPECT().Use(domain.TelemetryNone).Return(func(context.Context) error {
		released = true
		return nil
	}, nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(errors.New("compiler crashed"))

	_, err := f.app.Build(context.Background(), app.BuildOptions{Command: []string{"tool"}, SourceExt: ".txt"})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.ErrorContains(t, err, "compiler crashed")
	assert.True(t, released)
}

func TestApp_Build_ReleaseFailureIsWarned(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load(gomock.Any()).Return(f.cfg, nil)
	f.logger.EXPECT().SetJSON(false)
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn("Failed to flush telemetry: exporter down").Times(1)
	f.tracer.EXPECT().Use(domain.TelemetryNone).Return(func(context.Context) error {
		return errors.New("exporter down")
	}, nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil)
	f.hasher.EXPECT().ComputeTreeHash(gomock.Any()).Return("hash", nil)

	_, err := f.app.Build(context.Background(), app.BuildOptions{Command: []string{"tool"}, SourceExt: ".txt"})
	require.NoError(t, err)
}

func TestApp_Build_NoCommand(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(f.cfg, nil)

	_, err := f.app.Build(context.Background(), app.BuildOptions{SourceExt: ".txt"})
	require.ErrorIs(t, err, domain.ErrNoCommandSpecified)
}

func TestApp_Build_ConfigError(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(nil, errors.New("bad yaml"))

	_, err := f.app.Build(context.Background(), app.BuildOptions{Command: []string{"tool"}})
	require.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Build_UnknownTelemetry(t *testing.T) {
	f := newFixture(t)
	f.loader.EXPECT().Load(gomock.Any()).Return(f.cfg, nil)

	_, err := f.app.Build(context.Background(), app.BuildOptions{Command: []string{"tool"}, Telemetry: "jaeger"})
	require.ErrorContains(t, err, domain.ErrUnknownTelemetry.Error())
}

func TestApp_Clean(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.cfg.OutputDir, 0o750))
	require.NoError(t, os.MkdirAll(domain.DoneDir(f.cfg.MetaDir), 0o750))

	f.loader.EXPECT().Load(gomock.Any()).Return(f.cfg, nil)
	gomock.InOrder(
		f.logger.EXPECT().Info("removing build output..."),
		f.logger.EXPECT().Info("removed build output"),
		f.logger.EXPECT().Info("removing build cache..."),
		f.logger.EXPECT().Info("removed build cache"),
	)

	err := f.app.Clean(context.Background(), app.CleanOptions{Output: true, Meta: true})
	require.NoError(t, err)
	assert.NoDirExists(t, f.cfg.OutputDir)
	assert.NoDirExists(t, f.cfg.MetaDir)
}

func TestApp_Clean_OutputOnly(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.cfg.OutputDir, 0o750))
	require.NoError(t, os.MkdirAll(f.cfg.MetaDir, 0o750))

	f.loader.EXPECT().Load(gomock.Any()).Return(f.cfg, nil)
	f.logger.EXPECT().Info(gomock.Any()).Times(2)

	err := f.app.Clean(context.Background(), app.CleanOptions{Output: true})
	require.NoError(t, err)
	assert.NoDirExists(t, f.cfg.OutputDir)
	assert.DirExists(t, f.cfg.MetaDir)
}

func TestSummary_Render(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	summary := &app.Summary{
		Tasks:     2,
		Executed:  1,
		Cached:    1,
		OutputDir: "build",
		TreeHash:  "0123456789abcdef",
		Duration:  1500 * time.Millisecond,
	}
	require.NoError(t, summary.Render(&buf))

	assert.Equal(t, "✓ Built 2 tasks in 1.500s (1 executed, 1 cached)\n  → build [0123456789abcdef]\n", buf.String())
}
