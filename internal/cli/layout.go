package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/pipeline"
)

// layoutCommand creates the layout command for placing machines on the floor.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output        string
		noCache       bool
		refresh       bool
		target        int
		hours         float64
		unitTemplates bool
	)

	cmd := &cobra.Command{
		Use:   "layout <operations.json>",
		Short: "Balance operations and place machines on the floor",
		Long: `Balance operations and place machines on the floor.

The layout command takes an operations.json file (produced by 'parse'),
computes machine counts for the target output and places every machine on the
four production lanes. The result is a layout.json file that 'render' and
'inspect' read.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.planOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("target") {
				opts.TargetOutput = target
			}
			if cmd.Flags().Changed("hours") {
				opts.WorkingHours = hours
			}
			opts.UnitTemplates = unitTemplates
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), args[0], output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	cmd.Flags().IntVar(&target, "target", 0, "target output in pieces (default from config)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "working hours (default from config)")
	cmd.Flags().BoolVar(&unitTemplates, "unit-templates", false, "place one machine per template operation")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	ops, err := line.ReadOperationsFile(input)
	if err != nil {
		return fmt.Errorf("load operations %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing floor layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, ops, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "" {
		output = basePath(input) + ".layout.json"
	}
	if err := line.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(ops), len(l.Instances), cacheHit)
	printDropped(floor.Dropped(ops))
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}
