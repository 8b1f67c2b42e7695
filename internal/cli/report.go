package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olusolaa/oracle-plus/internal/app"
	"github.com/olusolaa/oracle-plus/internal/core/domain"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
	jsonreport "github.com/olusolaa/oracle-plus/internal/reporting/json"
	"github.com/olusolaa/oracle-plus/internal/reporting/markdown"
)

type reportFlags struct {
	format string
	output string
	limit  int
}

func (c *CLI) reportCommand() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a report from recorded validations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			return c.withServices(cmd.Context(), app.Overrides{}, func(svc app.Services) error {
				return c.runReport(cmd, svc, f)
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.format, "format", formatMarkdown, "Report format (markdown, json, html)")
	fl.StringVarP(&f.output, "output", "o", "", "Write the report to a file path or s3://bucket/key instead of stdout")
	fl.IntVar(&f.limit, "limit", 0, "Number of recent validations to include (default from settings.report_limit)")
	return cmd
}

func (f reportFlags) validate() error {
	switch f.format {
	case formatMarkdown, formatJSON:
	case formatHTML:
		return apperrors.NewUserFacing(apperrors.CodeNotImplemented, "HTML reports are not implemented yet",
			"Use --format markdown or --format json.")
	default:
		return usageError(fmt.Sprintf("unsupported format %q", f.format), "Supported: markdown, json")
	}
	if f.limit < 0 {
		return usageError("--limit must be positive", "")
	}
	return nil
}

func (c *CLI) runReport(cmd *cobra.Command, svc app.Services, f reportFlags) error {
	ctx := cmd.Context()

	history, err := svc.History(ctx)
	if err != nil {
		return err
	}
	limit := f.limit
	if limit == 0 {
		limit = svc.Config().Settings.ReportLimit
	}
	validations, err := history.ListRecentValidations(ctx, limit)
	if err != nil {
		return err
	}
	if validations == nil {
		validations = []domain.ValidationRecord{}
	}

	var buf bytes.Buffer
	if f.format == formatJSON {
		err = jsonreport.Render(&buf, validations)
	} else {
		err = markdown.RenderHistory(&buf, validations, c.now())
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to render report")
	}

	if f.output == "" {
		_, err = c.out.Write(buf.Bytes())
		return err
	}
	if err := svc.Sink().Write(ctx, f.output, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✅ Report written to %s\n", f.output)
	return nil
}
