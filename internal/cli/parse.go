package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/sheet"
)

// parseCommand creates the parse command for normalizing a bulletin.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "parse <bulletin.xlsx|grid.json|grid.csv>",
		Short: "Normalize an operation bulletin into operations.json",
		Long: `Normalize an operation bulletin into a flat list of operations.

The first worksheet of an .xlsx workbook is scanned for a header row, section
headers, subtotal rows and operation rows. JSON (array of rows) and CSV grids
are accepted as well. Legacy .xls workbooks must be saved as .xlsx first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], output, noCache, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.operations.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, input, output string, noCache, refresh bool) error {
	prog := newProgress(c.Logger)
	grid, err := sheet.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	c.Logger.Debug("read grid", "rows", len(grid))

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts, err := c.planOptions()
	if err != nil {
		return err
	}
	opts.Refresh = refresh

	ops, cacheHit, err := runner.NormalizeWithCacheInfo(ctx, grid, opts)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	prog.done(fmt.Sprintf("Parsed %d operations", len(ops)))

	if output == "" {
		output = basePath(input) + ".operations.json"
	}
	if err := line.WriteOperationsFile(ops, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Parse complete")
	printFile(output)
	printStats(len(ops), 0, cacheHit)
	printDropped(floor.Dropped(ops))
	printNewline()
	printNextStep("Balance", appName+" balance "+output)
	return nil
}
