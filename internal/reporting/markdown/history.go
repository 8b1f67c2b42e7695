// Package markdown renders validation history as a markdown document.
package markdown

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
)

const unknownEntity = "Unknown"

// WriteFindingsTable writes a severity/type/entity/expected/actual table
// followed by a blank line.
func WriteFindingsTable(w io.Writer, findings []domain.Finding) {
	fmt.Fprintln(w, "| Severity | Type | Entity | Expected | Actual |")
	fmt.Fprintln(w, "|----------|------|--------|----------|--------|")
	for _, f := range findings {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			cell(string(f.Severity)), cell(string(f.Type)), cell(f.Entity), cell(f.Expected), cell(f.Actual))
	}
	fmt.Fprintln(w)
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

func cell(s string) string {
	return cellReplacer.Replace(s)
}

// RenderHistory writes the drift report for validations, which must be
// ordered newest first. Only the most recent record of each entity is
// detailed; entities appear in first-seen order.
func RenderHistory(w io.Writer, validations []domain.ValidationRecord, now time.Time) error {
	var b strings.Builder

	b.WriteString("# Oracle Plus Drift Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", now.UTC().Format("2006-01-02T15:04:05.000Z07:00"))

	var passed, failed, warnings, critical, high int
	for _, v := range validations {
		switch v.Status {
		case domain.StatusPass:
			passed++
		case domain.StatusFail:
			failed++
		case domain.StatusWarning:
			warnings++
		}
		if v.Severity != nil {
			switch *v.Severity {
			case domain.SeverityCritical:
				critical++
			case domain.SeverityHigh:
				high++
			}
		}
	}

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total Validations:** %d\n", len(validations))
	fmt.Fprintf(&b, "- **Passed:** %d ✅\n", passed)
	fmt.Fprintf(&b, "- **Failed:** %d ❌\n", failed)
	fmt.Fprintf(&b, "- **Warnings:** %d ⚠️\n", warnings)
	fmt.Fprintf(&b, "- **Critical Issues:** %d\n", critical)
	fmt.Fprintf(&b, "- **High Priority Issues:** %d\n\n", high)

	b.WriteString("## Validation Results\n\n")

	seen := make(map[string]bool)
	for _, v := range validations {
		name := v.EntityName
		if name == "" {
			name = unknownEntity
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		fmt.Fprintf(&b, "### %s %s\n\n", v.Status.Icon(), name)
		fmt.Fprintf(&b, "**Latest Status:** %s\n", v.Status)
		fmt.Fprintf(&b, "**Validation Type:** %s\n", v.ValidationType)
		fmt.Fprintf(&b, "**Checked:** %s\n\n", v.CreatedAt.UTC().Format(time.RFC3339))

		if len(v.Findings) > 0 {
			b.WriteString("#### Findings\n\n")
			WriteFindingsTable(&b, v.Findings)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
