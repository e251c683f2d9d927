package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/output"
)

func TestWriteJSON_FieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := output.WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"account_id": "123456789012"`,
		`"compliant_buckets": 1`,
		`"fully_compliant": true`,
		`"status": "WARN"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %s\ngot:\n%s", want, out)
		}
	}
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := &models.AuditReport{AccountID: "111122223333"}
	if err := output.WriteJSONFile(path, report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "111122223333") {
		t.Errorf("file content missing account ID:\n%s", data)
	}
}

func TestWriteJSONFile_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "report.json")
	if err := output.WriteJSONFile(path, &models.AuditReport{}); err == nil {
		t.Error("expected error for unwritable path")
	}
}
