package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
)

// TextReporter streams the line-oriented audit report to w as buckets are
// processed. It satisfies audit.Listener.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter returns a TextReporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// Started prints the bucket count followed by a blank line.
func (r *TextReporter) Started(total int) {
	fmt.Fprintf(r.w, "Found %d buckets.\n\n", total)
}

// BucketStarted prints the bucket header line.
func (r *TextReporter) BucketStarted(name string) {
	fmt.Fprintf(r.w, "Checking bucket: %s\n", name)
}

// CheckEvaluated prints one "[STATUS] Label: Message" line.
func (r *TextReporter) CheckEvaluated(_ string, c models.CheckResult) {
	fmt.Fprintf(r.w, "    [%s] %s: %s\n", c.Status, c.Label, c.Message)
}

// BucketAudited prints the error that stopped the bucket's checks, if any.
// Check lines have already been written by CheckEvaluated.
func (r *TextReporter) BucketAudited(result models.ComplianceResult) {
	if result.Error != "" {
		fmt.Fprintf(r.w, "    error: %s\n", result.Error)
	}
}

// WriteTextSummary prints the closing separator and the compliance count.
func WriteTextSummary(w io.Writer, s models.AuditSummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "Summary: %d of %d buckets fully compliant.\n", s.CompliantBuckets, s.TotalBuckets)
	if s.ErroredBuckets > 0 {
		fmt.Fprintf(w, "Errors: %d buckets could not be audited.\n", s.ErroredBuckets)
	}
}
