// Package console renders check results for an interactive terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/olusolaa/oracle-plus/internal/core/domain"
)

type Config struct {
	NoColor bool `mapstructure:"no_color"`
}

type Renderer struct {
	bold, red, yellow, cyan, gray, green *color.Color
}

// NewRenderer returns a renderer for out. Colour is disabled when requested
// or when out is not a terminal.
func NewRenderer(cfg Config, out io.Writer) *Renderer {
	r := &Renderer{
		bold:   color.New(color.Bold),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
		gray:   color.New(color.FgHiBlack),
		green:  color.New(color.FgGreen),
	}
	if cfg.NoColor || !isTerminal(out) {
		for _, c := range []*color.Color{r.bold, r.red, r.yellow, r.cyan, r.gray, r.green} {
			c.DisableColor()
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Renderer) severityColor(s domain.Severity) *color.Color {
	switch s {
	case domain.SeverityCritical:
		return r.red
	case domain.SeverityHigh:
		return r.yellow
	case domain.SeverityMedium:
		return r.cyan
	default:
		return r.gray
	}
}

func (r *Renderer) Render(w io.Writer, results []domain.CheckResult, summary domain.Summary) error {
	fmt.Fprintf(w, "\n%s\n\n", r.bold.Sprint("📊 Drift Analysis Results"))

	if len(results) == 0 {
		fmt.Fprintln(w, "No specifications found or processed.")
		fmt.Fprintln(w)
	}

	for _, res := range results {
		fmt.Fprintf(w, "%s %s: %s\n", res.Status.Icon(), r.bold.Sprint(res.Spec), res.Status)
		if res.Status == domain.StatusError && res.Error != "" {
			fmt.Fprintf(w, "  %s\n", r.red.Sprint("Error: "+res.Error))
		}
		for _, f := range res.Findings {
			fmt.Fprintf(w, "  %s %s: %s\n", r.severityColor(f.Severity).Sprint("●"), f.Type, f.Entity)
			fmt.Fprintf(w, "    Expected: %s\n", f.Expected)
			fmt.Fprintf(w, "    Actual: %s\n", f.Actual)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, r.bold.Sprint("Summary:"))
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "  Total:\t%d\n", summary.Total)
	fmt.Fprintf(tw, "  Failed:\t%d\n", summary.Failed)
	if summary.Errors > 0 {
		fmt.Fprintf(tw, "  Errors:\t%d\n", summary.Errors)
	}
	fmt.Fprintf(tw, "  Critical Issues:\t%s\n", r.red.Sprint(summary.Critical))
	fmt.Fprintf(tw, "  High Issues:\t%s\n", r.yellow.Sprint(summary.High))
	return tw.Flush()
}
