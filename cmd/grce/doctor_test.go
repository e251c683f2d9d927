package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/config"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/common"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/providers/aws/s3/fakes3"
)

// optionalLoader points at a grce.yaml inside a fresh temp directory.
// The file does not exist unless the test writes it.
func optionalLoader(t *testing.T) *config.FileLoader {
	t.Helper()
	return &config.FileLoader{Path: filepath.Join(t.TempDir(), "grce.yaml"), Optional: true}
}

func goodMockAWS() *mockAWSProvider {
	fake := fakes3.New("us-east-1")
	fake.AddBucket(fakes3.Bucket{Name: "logs"})
	return mockWithS3(fake)
}

func doctor(t *testing.T, p common.AWSClientProvider, loader config.Loader, format string) (string, DoctorResult) {
	t.Helper()
	var buf bytes.Buffer
	result, err := runDoctor(context.Background(), p, loader, &buf, format, common.LoadOptions{})
	if err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}
	return buf.String(), result
}

// ── table format ─────────────────────────────────────────────────────────────

func TestDoctorAllOK(t *testing.T) {
	out, result := doctor(t, goodMockAWS(), optionalLoader(t), "table")
	if !result.OverallHealthy {
		t.Error("expected OverallHealthy=true")
	}
	for _, want := range []string{
		"Credentials: OK",
		"STS Identity: OK (Account: 123456789012)",
		"Regions API: OK",
		"S3 ListBuckets: OK (1 buckets)",
		"present: Not found (optional)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q;\ngot:\n%s", want, out)
		}
	}
}

func TestDoctorCredentialsFail(t *testing.T) {
	p := &mockAWSProvider{profileErr: errors.New("no valid credential sources")}
	out, result := doctor(t, p, optionalLoader(t), "table")
	if result.OverallHealthy {
		t.Error("expected OverallHealthy=false")
	}
	for _, want := range []string{
		"Credentials: FAIL (no valid credential sources)",
		"STS Identity: FAIL (skipped)",
		"S3 ListBuckets: FAIL (skipped)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q;\ngot:\n%s", want, out)
		}
	}
}

func TestDoctorRegionsFail(t *testing.T) {
	p := goodMockAWS()
	p.regionsErr = errors.New("UnauthorizedOperation")
	out, result := doctor(t, p, optionalLoader(t), "table")
	if result.OverallHealthy || result.AWS.RegionsOK {
		t.Error("expected regions failure to make the environment unhealthy")
	}
	if !strings.Contains(out, "Regions API: FAIL (UnauthorizedOperation)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDoctorS3Fail(t *testing.T) {
	fake := fakes3.New("us-east-1")
	fake.FailOn("ListBuckets", "", fakes3.APIError("AccessDenied"))
	out, result := doctor(t, mockWithS3(fake), optionalLoader(t), "table")
	if result.OverallHealthy || result.AWS.S3OK {
		t.Error("expected S3 failure to make the environment unhealthy")
	}
	if !strings.Contains(out, "S3 ListBuckets: FAIL") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

// ── config file ──────────────────────────────────────────────────────────────

func TestDoctorValidConfig(t *testing.T) {
	loader := optionalLoader(t)
	if err := os.WriteFile(loader.Path, []byte("version: 1\naudit:\n  report: table\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, result := doctor(t, goodMockAWS(), loader, "table")
	if !result.OverallHealthy || !result.Config.Valid {
		t.Errorf("expected healthy with valid config; got %+v", result.Config)
	}
	if !strings.Contains(out, "Config valid: OK") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDoctorInvalidConfig(t *testing.T) {
	loader := optionalLoader(t)
	if err := os.WriteFile(loader.Path, []byte("version: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, result := doctor(t, goodMockAWS(), loader, "table")
	if result.OverallHealthy {
		t.Error("invalid config must make the environment unhealthy")
	}
	if !result.Config.Present || result.Config.Valid {
		t.Errorf("unexpected config result: %+v", result.Config)
	}
	if !strings.Contains(out, "Config valid: FAIL") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDoctorExplicitConfigMissing(t *testing.T) {
	loader := config.NewFileLoader(filepath.Join(t.TempDir(), "custom.yaml"))
	_, result := doctor(t, goodMockAWS(), loader, "table")
	if result.OverallHealthy {
		t.Error("a missing explicit config file must make the environment unhealthy")
	}
	if result.Config.Present || len(result.Config.Errors) == 0 {
		t.Errorf("unexpected config result: %+v", result.Config)
	}
}

// ── json format ──────────────────────────────────────────────────────────────

func TestDoctorJSON(t *testing.T) {
	out, _ := doctor(t, goodMockAWS(), optionalLoader(t), "json")

	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if got["overall_healthy"] != true {
		t.Errorf("overall_healthy: got %v", got["overall_healthy"])
	}
	aws, ok := got["aws"].(map[string]any)
	if !ok {
		t.Fatalf("missing aws section: %s", out)
	}
	if aws["account_id"] != "123456789012" || aws["s3_ok"] != true {
		t.Errorf("unexpected aws section: %v", aws)
	}
}

// stubLoader reports a fixed load outcome for a path that does not exist.
type stubLoader struct {
	path string
	err  error
}

func (l stubLoader) Load() (*config.Config, error) {
	if l.err != nil {
		return nil, l.err
	}
	return &config.Config{Version: config.CurrentVersion}, nil
}

func (l stubLoader) ConfigPath() string { return l.path }

func TestDoctorLoaderError(t *testing.T) {
	loader := stubLoader{path: filepath.Join(t.TempDir(), "grce.yaml"), err: errors.New("permission denied")}
	out, result := doctor(t, goodMockAWS(), loader, "table")
	if result.OverallHealthy {
		t.Error("a config load error must make the environment unhealthy")
	}
	if !strings.Contains(out, "present: FAIL (permission denied)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
