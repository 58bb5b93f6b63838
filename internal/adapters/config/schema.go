package config

// Budfile represents the structure of the bud.yaml configuration file.
type Budfile struct {
	Version     string `yaml:"version"`
	Source      string `yaml:"source"`
	Output      string `yaml:"output"`
	Meta        string `yaml:"meta"`
	Parallelism int    `yaml:"parallelism"`
	Log         LogDTO `yaml:"log"`
	Telemetry   string `yaml:"telemetry"`
}

// LogDTO represents the logging section of the configuration.
type LogDTO struct {
	JSON bool `yaml:"json"`
}
