package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bud/cmd/bud/commands"
	"go.trai.ch/bud/internal/adapters/cas"
	"go.trai.ch/bud/internal/adapters/fs"
	"go.trai.ch/bud/internal/adapters/telemetry"
	"go.trai.ch/bud/internal/app"
	"go.trai.ch/bud/internal/build"
	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports/mocks"
	"go.trai.ch/bud/internal/engine/builder"
	"go.uber.org/mock/gomock"
)

type harness struct {
	cli      *commands.CLI
	out      *bytes.Buffer
	loader   *mocks.MockConfigLoader
	executor *mocks.MockExecutor
	tracer   *mocks.MockTracerSwitch
	hasher   *mocks.MockHasher
	logger   *mocks.MockLogger
	cfg      *domain.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	h := &harness{
		out:      &bytes.Buffer{},
		loader:   mocks.NewMockConfigLoader(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		tracer:   mocks.NewMockTracerSwitch(ctrl),
		hasher:   mocks.NewMockHasher(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		cfg: &domain.Config{
			SourceDir: filepath.Join(root, "src"),
			OutputDir: filepath.Join(root, "build"),
			MetaDir:   filepath.Join(root, ".bud"),
			Telemetry: domain.TelemetryOTel,
		},
	}
	require.NoError(t, os.MkdirAll(h.cfg.SourceDir, 0o750))

	engine := builder.NewEngine(cas.NewStore(), fs.NewTree(fs.NewWalker()), telemetry.NewNoOpTracer(), h.logger)
	a := app.New(h.loader, engine, h.executor, h.tracer, h.hasher, h.logger).WithWorkDir(root)

	h.cli = commands.New(a)
	h.cli.SetOutput(h.out)
	return h
}

func TestBuild_Success(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	h := newHarness(t)

	h.loader.EXPECT().Load(gomock.Any()).Return(h.cfg, nil).Times(1)
	h.logger.EXPECT().SetJSON(true).Times(1)
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	h.tracer.EXPECT().Use(domain.TelemetryNone).Return(func(context.Context) error { return nil }, nil).Times(1)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd *domain.Command) error {
			assert.Equal(t, []string{"tsc", "--strict"}, cmd.Args)
			assert.Equal(t, "compile", cmd.Label)
			assert.Equal(t, ".js", cmd.Env["BUD_OUTPUT_EXT"])
			return nil
		}).Times(1)
	h.hasher.EXPECT().ComputeTreeHash(h.cfg.OutputDir).Return("feedface", nil).Times(1)

	h.cli.SetArgs([]string{
		"build", "--ext", ".ts", "--out-ext", ".js", "--name", "compile",
		"--json", "--telemetry", "none", "-j", "2",
		"--", "tsc", "--strict",
	})

	err := h.cli.Execute(context.Background())
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "Built 1 task")
	assert.Contains(t, h.out.String(), "[feedface]")
}

func TestBuild_NoCommandShowsHelp(t *testing.T) {
	h := newHarness(t)

	h.cli.SetArgs([]string{"build", "--ext", ".ts"})
	err := h.cli.Execute(context.Background())
	require.NoError(t, err)
	assert.Contains(t, h.out.String(), "Usage:")
}

func TestBuild_ExtAndGlobAreExclusive(t *testing.T) {
	h := newHarness(t)

	h.cli.SetArgs([]string{"build", "--ext", ".ts", "--glob", "**/*.ts", "--", "tsc"})
	err := h.cli.Execute(context.Background())
	require.Error(t, err)
}

func TestClean(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(h.cfg.OutputDir, 0o750))
	require.NoError(t, os.MkdirAll(h.cfg.MetaDir, 0o750))

	h.loader.EXPECT().Load(gomock.Any()).Return(h.cfg, nil).Times(1)
	h.logger.EXPECT().Info(gomock.Any()).Times(4)

	h.cli.SetArgs([]string{"clean"})
	err := h.cli.Execute(context.Background())
	require.NoError(t, err)
	assert.NoDirExists(t, h.cfg.OutputDir)
	assert.NoDirExists(t, h.cfg.MetaDir)
}

func TestClean_CacheOnly(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.MkdirAll(h.cfg.OutputDir, 0o750))
	require.NoError(t, os.MkdirAll(h.cfg.MetaDir, 0o750))

	h.loader.EXPECT().Load(gomock.Any()).Return(h.cfg, nil).Times(1)
	h.logger.EXPECT().Info(gomock.Any()).Times(2)

	h.cli.SetArgs([]string{"clean", "--cache-only"})
	err := h.cli.Execute(context.Background())
	require.NoError(t, err)
	assert.DirExists(t, h.cfg.OutputDir)
	assert.NoDirExists(t, h.cfg.MetaDir)
}

func TestClean_OutputOverride(t *testing.T) {
	h := newHarness(t)
	other := filepath.Join(t.TempDir(), "dist")
	require.NoError(t, os.MkdirAll(other, 0o750))

	h.loader.EXPECT().Load(gomock.Any()).Return(h.cfg, nil).Times(1)
	h.logger.EXPECT().Info(gomock.Any()).Times(2)

	h.cli.SetArgs([]string{"clean", "--output-only", "--output", other})
	err := h.cli.Execute(context.Background())
	require.NoError(t, err)
	assert.NoDirExists(t, other)
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	h.cli.SetArgs([]string{"version"})
	err := h.cli.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bud version "+build.Version+"\n", h.out.String())
}
