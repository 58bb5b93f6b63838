package domain

// TelemetryKind selects the tracer backing task spans.
type TelemetryKind string

const (
	// TelemetryOTel records spans through OpenTelemetry.
	TelemetryOTel TelemetryKind = "otel"
	// TelemetryProgrock records spans as vertices on a progrock tape.
	TelemetryProgrock TelemetryKind = "progrock"
	// TelemetryNone disables tracing.
	TelemetryNone TelemetryKind = "none"
)

// Config holds the project-level build settings.
type Config struct {
	SourceDir   string
	OutputDir   string
	MetaDir     string
	Parallelism int
	LogJSON     bool
	Telemetry   TelemetryKind
}

// DefaultConfig returns the settings used when no configuration file exists.
func DefaultConfig() *Config {
	return &Config{
		SourceDir: ".",
		OutputDir: DefaultOutputDir,
		MetaDir:   DefaultMetaDir,
		Telemetry: TelemetryOTel,
	}
}
