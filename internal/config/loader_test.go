package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "grce.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeFile(t, t.TempDir(), `
version: 1
aws:
  profile: audit
  region: eu-west-1
  endpoint: http://localhost:4566
  use_path_style: true
audit:
  report: table
  metrics_file: /var/lib/node_exporter/grce.prom
  keep_going: true
`)

	cfg, err := NewFileLoader(path).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AWS.Profile != "audit" || cfg.AWS.Region != "eu-west-1" {
		t.Errorf("aws: got %+v", cfg.AWS)
	}
	if cfg.AWS.Endpoint != "http://localhost:4566" || !cfg.AWS.UsePathStyle {
		t.Errorf("endpoint: got %+v", cfg.AWS)
	}
	if cfg.Audit.Report != "table" || !cfg.Audit.KeepGoing || cfg.Audit.MetricsFile == "" {
		t.Errorf("audit: got %+v", cfg.Audit)
	}
}

func TestLoad_DefaultPathMissingIsEmpty(t *testing.T) {
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck

	l := NewFileLoader("")
	if l.ConfigPath() != DefaultPath {
		t.Errorf("path: got %q", l.ConfigPath())
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("missing optional file must not error: %v", err)
	}
	if cfg.Version != CurrentVersion || cfg.AWS.Region != "" {
		t.Errorf("want empty config; got %+v", cfg)
	}
}

func TestLoad_ExplicitPathMissingErrors(t *testing.T) {
	_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	if err == nil {
		t.Fatal("explicit missing file must error")
	}
}

func TestParse_UnsupportedVersion(t *testing.T) {
	_, err := Parse([]byte("version: 2\n"))
	if err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Errorf("want version error; got %v", err)
	}
}

func TestParse_MissingVersion(t *testing.T) {
	if _, err := Parse([]byte("aws:\n  region: us-east-1\n")); err == nil {
		t.Error("missing version must be rejected")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("version: [\n")); err == nil {
		t.Error("invalid yaml must be rejected")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	errs := Validate(&Config{
		Version: 3,
		AWS:     AWSConfig{Endpoint: "localhost"},
		Audit:   AuditConfig{Report: "csv"},
	})
	if len(errs) != 3 {
		t.Fatalf("want 3 errors; got %d: %v", len(errs), errs)
	}
}

func TestValidate_OK(t *testing.T) {
	errs := Validate(&Config{Version: 1, Audit: AuditConfig{Report: "json"}})
	if len(errs) != 0 {
		t.Errorf("want no errors; got %v", errs)
	}
}

func TestValidate_ReportFormats(t *testing.T) {
	tests := []struct {
		report string
		valid  bool
	}{
		{"", true},
		{"text", true},
		{"table", true},
		{"json", true},
		{"JSON", false},
		{"csv", false},
	}
	for _, tt := range tests {
		t.Run(tt.report, func(t *testing.T) {
			errs := Validate(&Config{Version: CurrentVersion, Audit: AuditConfig{Report: tt.report}})
			if got := len(errs) == 0; got != tt.valid {
				t.Errorf("report %q: valid=%v; want %v (%v)", tt.report, got, tt.valid, errs)
			}
		})
	}
}
