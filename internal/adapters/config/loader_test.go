package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bud/internal/adapters/config"
	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, domain.ConfigFileName), []byte(content), 0o600)
	require.NoError(t, err)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	tmpDir := t.TempDir()
	cfg, err := loader.Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, &domain.Config{
		SourceDir: tmpDir,
		OutputDir: filepath.Join(tmpDir, domain.DefaultOutputDir),
		MetaDir:   filepath.Join(tmpDir, domain.DefaultMetaDir),
		Telemetry: domain.TelemetryOTel,
	}, cfg)
}

func TestLoad_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `
version: "1"
source: src
output: /tmp/bud-out
meta: cache
parallelism: 3
log:
  json: true
telemetry: progrock
`)

	cfg, err := loader.Load(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, &domain.Config{
		SourceDir:   filepath.Join(tmpDir, "src"),
		OutputDir:   "/tmp/bud-out",
		MetaDir:     filepath.Join(tmpDir, "cache"),
		Parallelism: 3,
		LogJSON:     true,
		Telemetry:   domain.TelemetryProgrock,
	}, cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "output: dist\n")

	cfg, err := loader.Load(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "dist"), cfg.OutputDir)
	assert.Equal(t, filepath.Join(tmpDir, domain.DefaultMetaDir), cfg.MetaDir)
	assert.Equal(t, domain.TelemetryOTel, cfg.Telemetry)
}

func TestLoad_UnsupportedVersionWarns(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn("Configuration version 2 is not supported, reading it as version 1.").Times(1)
	loader := config.NewLoader(mockLogger)

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "version: \"2\"\n")

	_, err := loader.Load(tmpDir)
	require.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "source: [unterminated",
			wantErr: domain.ErrConfigLoadFailed.Error(),
		},
		{
			name:    "unknown telemetry",
			content: "telemetry: jaeger\n",
			wantErr: domain.ErrUnknownTelemetry.Error(),
		},
		{
			name:    "negative parallelism",
			content: "parallelism: -1\n",
			wantErr: "parallelism must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := config.NewLoader(mocks.NewMockLogger(ctrl))

			tmpDir := t.TempDir()
			writeConfig(t, tmpDir, tt.content)

			_, err := loader.Load(tmpDir)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_UnreadableFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := config.NewLoader(mocks.NewMockLogger(ctrl))

	tmpDir := t.TempDir()
	// A directory in place of the file cannot be read.
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, domain.ConfigFileName), 0o750))

	_, err := loader.Load(tmpDir)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigLoadFailed.Error())
}

func TestParseTelemetry(t *testing.T) {
	for _, value := range []string{"otel", "progrock", "none"} {
		kind, err := config.ParseTelemetry(value)
		require.NoError(t, err)
		assert.Equal(t, domain.TelemetryKind(value), kind)
	}

	_, err := config.ParseTelemetry("zipkin")
	require.ErrorContains(t, err, domain.ErrUnknownTelemetry.Error())
}
