package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olusolaa/oracle-plus/internal/app"
	"github.com/olusolaa/oracle-plus/internal/core/domain"
	"github.com/olusolaa/oracle-plus/internal/core/service"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
	"github.com/olusolaa/oracle-plus/internal/reporting/console"
	"github.com/olusolaa/oracle-plus/internal/reporting/github"
	jsonreport "github.com/olusolaa/oracle-plus/internal/reporting/json"
)

const (
	formatConsole  = "console"
	formatGitHub   = "github"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatHTML     = "html"
)

type checkFlags struct {
	specID      string
	all         bool
	format      string
	targetPath  string
	triggeredBy string
	concurrency int
	entityTypes []string
}

func (c *CLI) checkCommand() *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check specifications for drift against the live system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			overrides := app.Overrides{Concurrency: f.concurrency, EntityTypes: f.entityTypes}
			return c.withServices(cmd.Context(), overrides, func(svc app.Services) error {
				return c.runCheck(cmd, svc, f)
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.specID, "spec-id", "", "Check a single specification by id")
	fl.BoolVar(&f.all, "all", false, "Check every active specification")
	fl.StringVar(&f.format, "format", formatConsole, "Output format (console, github, json)")
	fl.StringVar(&f.targetPath, "target-path", "", "Path forwarded to code snapshots")
	fl.StringVar(&f.triggeredBy, "triggered-by", "", "Recorded as the trigger of each validation (default from settings.triggered_by)")
	fl.IntVar(&f.concurrency, "concurrency", 0, "Number of specifications checked in parallel (1-32)")
	fl.StringSliceVar(&f.entityTypes, "entity-type", nil, "With --all, only check these entity types (table, function, code)")
	return cmd
}

func (f checkFlags) validate() error {
	if (f.specID == "") == !f.all {
		return usageError("exactly one of --spec-id or --all is required", "Pass --spec-id <id> or --all.")
	}
	switch f.format {
	case formatConsole, formatGitHub, formatJSON:
	default:
		return usageError(fmt.Sprintf("unsupported format %q", f.format), "Supported: console, github, json")
	}
	return nil
}

func (c *CLI) runCheck(cmd *cobra.Command, svc app.Services, f checkFlags) error {
	ctx := cmd.Context()
	cfg := svc.Config()

	checker, err := svc.Checker(ctx)
	if err != nil {
		return err
	}

	triggeredBy := f.triggeredBy
	if triggeredBy == "" {
		triggeredBy = cfg.Settings.TriggeredBy
	}
	report, err := checker.Run(ctx, service.CheckRequest{
		SpecID:      f.specID,
		All:         f.all,
		TargetPath:  f.targetPath,
		TriggeredBy: triggeredBy,
		EntityTypes: cfg.Settings.EntityTypes,
	})
	if err != nil {
		return err
	}

	switch f.format {
	case formatGitHub:
		err = github.Render(c.out, report.Results, report.Summary)
	case formatJSON:
		results := report.Results
		if results == nil {
			results = []domain.CheckResult{}
		}
		err = jsonreport.Render(c.out, results)
	default:
		err = console.NewRenderer(cfg.Console, c.out).Render(c.out, report.Results, report.Summary)
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to render check results")
	}

	if report.Summary.Critical > 0 {
		return apperrors.New(apperrors.CodeCriticalFindings,
			fmt.Sprintf("%d critical finding(s) detected", report.Summary.Critical))
	}
	return nil
}
