// Package cli defines the oracle-plus command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/olusolaa/oracle-plus/internal/app"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
	"github.com/olusolaa/oracle-plus/internal/exitcode"
)

// Factory builds the application services for one command invocation.
type Factory func(ctx context.Context, opts app.Options) (app.Services, error)

// DefaultFactory bootstraps against the configured database.
func DefaultFactory(ctx context.Context, opts app.Options) (app.Services, error) {
	a, err := app.Bootstrap(ctx, opts)
	if err != nil {
		return nil, err
	}
	return a, nil
}

type globalFlags struct {
	cfgFile   string
	logLevel  string
	logFormat string
	noColor   bool
}

type CLI struct {
	factory Factory
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
	global  globalFlags
}

func New(factory Factory, out, errOut io.Writer) *CLI {
	return &CLI{factory: factory, out: out, errOut: errOut, now: time.Now}
}

func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "oracle-plus",
		Short: "Detects drift between stored specifications and the live system.",
		Long: `Oracle Plus compares natural-language specifications stored in the database
against the live schema and code, records every validation, and renders reports
for terminals, pull requests and dashboards.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.global.cfgFile, "config", "c", "", "Configuration file path (default is .oracle-plus.yaml in the working or home directory)")
	pf.StringVar(&c.global.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	pf.StringVar(&c.global.logFormat, "log-format", "", "Override log format (text, json)")
	pf.BoolVar(&c.global.noColor, "no-color", false, "Disable coloured console output")

	root.AddCommand(
		c.checkCommand(),
		c.reportCommand(),
		c.indexCommand(),
		c.generateTestsCommand(),
	)
	return root
}

func (c *CLI) options(o app.Overrides) app.Options {
	o.LogLevel = c.global.logLevel
	o.LogFormat = c.global.logFormat
	o.NoColor = c.global.noColor
	return app.Options{ConfigFile: c.global.cfgFile, Overrides: o, LogOutput: c.errOut}
}

// withServices builds the services, runs fn and closes them.
func (c *CLI) withServices(ctx context.Context, o app.Overrides, fn func(app.Services) error) error {
	svc, err := c.factory(ctx, c.options(o))
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			svc.Logger().Debugf(ctx, "Shutdown: %v", closeErr)
		}
	}()
	return fn(svc)
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	c := New(DefaultFactory, os.Stdout, os.Stderr)
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	c.printError(err)
	return exitcode.FromError(err)
}

func (c *CLI) printError(err error) {
	if err == nil || exitcode.IsCriticalFindings(err) {
		return
	}
	msg, suggestion, _ := apperrors.GetUserFacingMessage(err)
	fmt.Fprintf(c.errOut, "ERROR: %s\n", msg)
	if suggestion != "" {
		fmt.Fprintf(c.errOut, "Suggestion: %s\n", suggestion)
	}
}

func usageError(msg, suggestion string) error {
	return apperrors.NewUserFacing(apperrors.CodeUsage, msg, suggestion)
}
