// Package config provides the configuration loader for bud.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only configuration version understood by the loader.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Filename string
	Logger   ports.Logger
}

// NewLoader creates a loader reading domain.ConfigFileName.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Filename: domain.ConfigFileName,
		Logger:   logger,
	}
}

// Load reads the configuration from the given working directory.
// Relative directories in the file are resolved against cwd.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	path := filepath.Join(cwd, l.Filename)

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if errors.Is(err, fs.ErrNotExist) {
		return resolve(domain.DefaultConfig(), cwd), nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigLoadFailed.Error()), "path", path)
	}

	var budfile Budfile
	if err := yaml.Unmarshal(data, &budfile); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigLoadFailed.Error()), "path", path)
	}

	cfg, err := l.toConfig(&budfile, path)
	if err != nil {
		return nil, err
	}
	return resolve(cfg, cwd), nil
}

func (l *Loader) toConfig(budfile *Budfile, path string) (*domain.Config, error) {
	if budfile.Version != "" && budfile.Version != SupportedVersion {
		l.Logger.Warn("Configuration version " + budfile.Version + " is not supported, reading it as version " +
			SupportedVersion + ".")
	}

	if budfile.Parallelism < 0 {
		err := zerr.With(zerr.New("parallelism must not be negative"), "parallelism", budfile.Parallelism)
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigLoadFailed.Error()), "path", path)
	}

	cfg := domain.DefaultConfig()
	if budfile.Source != "" {
		cfg.SourceDir = budfile.Source
	}
	if budfile.Output != "" {
		cfg.OutputDir = budfile.Output
	}
	if budfile.Meta != "" {
		cfg.MetaDir = budfile.Meta
	}
	cfg.Parallelism = budfile.Parallelism
	cfg.LogJSON = budfile.Log.JSON

	if budfile.Telemetry != "" {
		kind, err := ParseTelemetry(budfile.Telemetry)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigLoadFailed.Error()), "path", path)
		}
		cfg.Telemetry = kind
	}
	return cfg, nil
}

// ParseTelemetry validates a telemetry backend name.
func ParseTelemetry(value string) (domain.TelemetryKind, error) {
	switch kind := domain.TelemetryKind(value); kind {
	case domain.TelemetryOTel, domain.TelemetryProgrock, domain.TelemetryNone:
		return kind, nil
	default:
		return "", zerr.With(domain.ErrUnknownTelemetry, "telemetry", value)
	}
}

func resolve(cfg *domain.Config, cwd string) *domain.Config {
	cfg.SourceDir = absolute(cwd, cfg.SourceDir)
	cfg.OutputDir = absolute(cwd, cfg.OutputDir)
	cfg.MetaDir = absolute(cwd, cfg.MetaDir)
	return cfg
}

func absolute(cwd, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(cwd, dir)
}
