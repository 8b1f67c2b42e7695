// Package github renders check results as GitHub-flavoured markdown for PR
// comments and job summaries.
package github

import (
	"fmt"
	"io"
	"strings"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/reporting/markdown"
)

func Render(w io.Writer, results []domain.CheckResult, summary domain.Summary) error {
	var b strings.Builder

	b.WriteString("## 📊 Oracle Plus: Specification Drift Report\n\n")

	switch {
	case summary.Critical > 0:
		b.WriteString("> [!CAUTION]\n")
		fmt.Fprintf(&b, "> **%d critical** specification violations found!\n\n", summary.Critical)
	case summary.High > 0:
		b.WriteString("> [!WARNING]\n")
		fmt.Fprintf(&b, "> **%d high priority** drift issues found.\n\n", summary.High)
	default:
		b.WriteString("> [!NOTE]\n")
		b.WriteString("> All specifications validated successfully ✅\n\n")
	}

	b.WriteString("### Results\n\n")
	fmt.Fprintf(&b, "- **Total Specs Checked:** %d\n", summary.Total)
	fmt.Fprintf(&b, "- **Failed:** %d\n", summary.Failed)
	if summary.Errors > 0 {
		fmt.Fprintf(&b, "- **Errors:** %d\n", summary.Errors)
	}
	fmt.Fprintf(&b, "- **Critical Issues:** %d\n", summary.Critical)
	fmt.Fprintf(&b, "- **High Issues:** %d\n\n", summary.High)

	b.WriteString("### Details\n\n")
	for _, r := range results {
		fmt.Fprintf(&b, "#### %s %s\n\n", r.Status.Icon(), r.Spec)

		if r.Status == domain.StatusError {
			fmt.Fprintf(&b, "**Error:** %s\n\n", r.Error)
		}
		if len(r.Findings) > 0 {
			markdown.WriteFindingsTable(&b, r.Findings)
		}
		if len(r.Recommendations) > 0 {
			b.WriteString("**Recommendations:**\n\n")
			for _, rec := range r.Recommendations {
				fmt.Fprintf(&b, "- %s\n", rec)
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
