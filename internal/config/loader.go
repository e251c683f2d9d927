package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ReportFormats lists the accepted values of audit.report.
var ReportFormats = []string{"text", "table", "json"}

var _ Loader = (*FileLoader)(nil)

// FileLoader reads Config from a YAML file.
type FileLoader struct {
	Path string

	// Optional makes a missing file yield an empty Config instead of an error.
	Optional bool
}

// NewFileLoader returns a loader for path. An empty path selects DefaultPath
// and makes the file optional.
func NewFileLoader(path string) *FileLoader {
	if path == "" {
		return &FileLoader{Path: DefaultPath, Optional: true}
	}
	return &FileLoader{Path: path}
}

// ConfigPath returns the path to the configuration file.
func (l *FileLoader) ConfigPath() string {
	return l.Path
}

// Load reads and validates the file.
func (l *FileLoader) Load() (*Config, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if l.Optional && errors.Is(err, os.ErrNotExist) {
			return &Config{Version: CurrentVersion}, nil
		}
		return nil, fmt.Errorf("read config %q: %w", l.Path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", l.Path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML config document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}

// Validate returns every problem found in cfg; an empty slice means valid.
func Validate(cfg *Config) []error {
	var errs []error
	if cfg.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported config version %d (want %d)", cfg.Version, CurrentVersion))
	}
	if cfg.Audit.Report != "" && !slices.Contains(ReportFormats, cfg.Audit.Report) {
		errs = append(errs, fmt.Errorf("audit.report: %q is not one of %v", cfg.Audit.Report, ReportFormats))
	}
	if cfg.AWS.Endpoint != "" {
		u, err := url.Parse(cfg.AWS.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("aws.endpoint: %q is not an absolute URL", cfg.AWS.Endpoint))
		}
	}
	return errs
}
