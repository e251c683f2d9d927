package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/grce-s3-audit/internal/models"
)

// ANSI color codes for status output (used when Colored=true).
const (
	ansiReset   = "\033[0m"
	ansiBoldRed = "\033[1;31m"
	ansiRed     = "\033[0;31m"
	ansiYellow  = "\033[0;33m"
	ansiGreen   = "\033[0;32m"
)

// TableOptions controls how RenderTable colours status cells.
type TableOptions struct {
	// Colored wraps status labels with ANSI codes. Default false (CI-safe).
	Colored bool
}

func statusColor(st models.Status) string {
	switch st {
	case models.StatusPass:
		return ansiGreen
	case models.StatusWarn:
		return ansiYellow
	case models.StatusFail:
		return ansiRed
	case models.StatusError:
		return ansiBoldRed
	default:
		return ""
	}
}

// ColorStatus wraps a status string with ANSI codes when colored is true.
// When colored is false the string is returned unchanged (CI-safe default).
func ColorStatus(st models.Status, colored bool) string {
	code := statusColor(st)
	if !colored || code == "" {
		return string(st)
	}
	return code + string(st) + ansiReset
}

// statusCell returns the status padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are plain
// so subsequent columns stay visually aligned regardless of terminal ANSI support.
func statusCell(st models.Status, width int, colored bool) string {
	spaces := width - len(st)
	if spaces < 0 {
		spaces = 0
	}
	return ColorStatus(st, colored) + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max runes for name columns.
// A single-rune ellipsis replaces the last rune when truncation occurs.
func truncateField(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// RenderTable writes a summary header and a one-row-per-bucket compliance
// table to w. Check columns follow the order of the first result; a
// bucket without a result for a column shows "-".
//
//	BUCKET  <CHECK LABEL>...  COMPLIANT
func RenderTable(w io.Writer, report *models.AuditReport, opts TableOptions) {
	fmt.Fprintf(w, "Account: %-14s  Region: %-15s  Buckets: %d  Compliant: %d\n",
		report.AccountID, report.Region,
		report.Summary.TotalBuckets, report.Summary.CompliantBuckets)

	if len(report.Results) == 0 {
		fmt.Fprintln(w, "No buckets.")
		return
	}

	const (
		wBucket    = 45
		wCheck     = 20
		wCompliant = 9
	)

	var ids, labels []string
	for _, c := range report.Results[0].Checks {
		ids = append(ids, c.CheckID)
		labels = append(labels, strings.ToUpper(c.Label))
	}

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wBucket, "BUCKET"))
	for _, l := range labels {
		hb.WriteString(fmt.Sprintf("  %-*s", wCheck, truncateField(l, wCheck)))
	}
	hb.WriteString(fmt.Sprintf("  %-*s", wCompliant, "COMPLIANT"))
	header := hb.String()

	fmt.Fprintln(w)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, res := range report.Results {
		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("%-*s", wBucket, truncateField(res.Bucket, wBucket)))
		for _, id := range ids {
			c, ok := res.Check(id)
			if !ok {
				rb.WriteString(fmt.Sprintf("  %-*s", wCheck, "-"))
				continue
			}
			rb.WriteString("  " + statusCell(c.Status, wCheck, opts.Colored))
		}
		compliant := "no"
		if res.FullyCompliant {
			compliant = "yes"
		}
		rb.WriteString(fmt.Sprintf("  %s", compliant))
		fmt.Fprintln(w, rb.String())
	}
}
