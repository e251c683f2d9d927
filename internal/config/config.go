package config

// DefaultPath is the config file read when --config is not given.
// The file is optional.
const DefaultPath = "grce.yaml"

// CurrentVersion is the only supported config schema version.
const CurrentVersion = 1

// Config is the top-level application configuration loaded from grce.yaml.
// Command-line flags override every field.
type Config struct {
	Version int         `yaml:"version" json:"version"`
	AWS     AWSConfig   `yaml:"aws"     json:"aws"`
	Audit   AuditConfig `yaml:"audit"   json:"audit"`
}

// AWSConfig holds AWS-specific defaults used when flags are not provided.
type AWSConfig struct {
	// Profile is used when no --profile flag is provided.
	Profile string `yaml:"profile" json:"profile"`

	// Region overrides the region resolved from the environment.
	Region string `yaml:"region" json:"region"`

	// Endpoint points S3 calls at an S3-compatible service
	// (e.g. "http://localhost:4566" for LocalStack).
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// UsePathStyle forces path-style bucket addressing.
	UsePathStyle bool `yaml:"use_path_style" json:"use_path_style"`
}

// AuditConfig holds defaults for grce s3 audit.
type AuditConfig struct {
	// Report selects the output format: "text", "table", or "json".
	Report string `yaml:"report" json:"report"`

	// MetricsFile, when set, receives Prometheus textfile metrics.
	MetricsFile string `yaml:"metrics_file" json:"metrics_file"`

	// KeepGoing continues past unexpected per-bucket errors.
	KeepGoing bool `yaml:"keep_going" json:"keep_going"`
}

// Loader is the interface for reading Config from disk.
type Loader interface {
	// Load reads, parses, and validates the configuration file.
	Load() (*Config, error)

	// ConfigPath returns the path to the configuration file.
	ConfigPath() string
}
