package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olusolaa/oracle-plus/internal/app"
	apperrors "github.com/olusolaa/oracle-plus/internal/errors"
)

type indexFlags struct {
	specID string
	all    bool
	source string
}

func (c *CLI) indexCommand() *cobra.Command {
	var f indexFlags
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Embed specifications for semantic search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.source != "" {
				return apperrors.NewUserFacing(apperrors.CodeNotImplemented, "indexing from --source is not implemented yet",
					"Index stored specifications with --spec-id or --all.")
			}
			if (f.specID == "") == !f.all {
				return usageError("exactly one of --spec-id or --all is required", "Pass --spec-id <id> or --all.")
			}
			return c.withServices(cmd.Context(), app.Overrides{}, func(svc app.Services) error {
				return c.runIndex(cmd, svc, f)
			})
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.specID, "spec-id", "", "Embed a single specification")
	fl.BoolVar(&f.all, "all", false, "Embed every indexable specification")
	fl.StringVar(&f.source, "source", "", "Index documents from a source directory")
	return cmd
}

func (c *CLI) runIndex(cmd *cobra.Command, svc app.Services, f indexFlags) error {
	ctx := cmd.Context()
	indexer, err := svc.Indexer(ctx)
	if err != nil {
		return err
	}

	if f.specID != "" {
		dims, err := indexer.IndexOne(ctx, f.specID)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "✅ Indexed specification %s (%d dimensions)\n", f.specID, dims)
		return nil
	}

	summary, err := indexer.IndexAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "✅ Indexed %d of %d specifications", summary.Indexed, summary.Total)
	if summary.Failed > 0 {
		fmt.Fprintf(c.out, " (%d failed, see logs)", summary.Failed)
	}
	fmt.Fprintln(c.out)
	return nil
}
