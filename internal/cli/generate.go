package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olusolaa/oracle-plus/internal/app"
	"github.com/olusolaa/oracle-plus/internal/core/service"
)

var rule = strings.Repeat("─", 60)

type generateFlags struct {
	specID    string
	framework string
	testType  string
	output    string
}

func (c *CLI) generateTestsCommand() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate-tests",
		Short: "Generate test cases from a specification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.specID == "" {
				return usageError("--spec-id is required", "Pass --spec-id <id>.")
			}
			if f.framework == "" {
				return usageError("--framework is required", "Pass --framework mocktail, playwright or vitest.")
			}
			framework, err := service.ParseFramework(f.framework)
			if err != nil {
				return err
			}
			testType, err := service.ParseTestType(f.testType)
			if err != nil {
				return err
			}
			return c.withServices(cmd.Context(), app.Overrides{}, func(svc app.Services) error {
				return c.runGenerate(cmd, svc, f, framework, testType)
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.specID, "spec-id", "", "Specification to generate tests for")
	fl.StringVar(&f.framework, "framework", "", "Test framework (mocktail, playwright, vitest)")
	fl.StringVar(&f.testType, "type", string(service.TestTypeUnit), "Test type (unit, integration, e2e)")
	fl.StringVarP(&f.output, "output", "o", "", "Write the generated file to a path or s3://bucket/key")
	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, svc app.Services, f generateFlags, framework service.Framework, testType service.TestType) error {
	ctx := cmd.Context()
	gen, err := svc.TestGenerator(ctx)
	if err != nil {
		return err
	}
	test, err := gen.Generate(ctx, f.specID, framework, testType)
	if err != nil {
		return err
	}

	if f.output != "" {
		if err := svc.Sink().Write(ctx, f.output, []byte(test.Code)); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Tests written to %s\n", f.output)
		return nil
	}

	fmt.Fprintf(c.out, "Suggested filename: %s\n\n", test.FileName)
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, strings.TrimRight(test.Code, "\n"))
	fmt.Fprintln(c.out, rule)
	return nil
}
