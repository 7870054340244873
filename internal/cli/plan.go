package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/pipeline"
	"github.com/matzehuels/lineplanner/pkg/sheet"
)

// planArgs identify the planned line.
type planArgs struct {
	lineNo  string
	styleNo string
	coneNo  string
	noSave  bool
	noCache bool
	refresh bool
}

// planCommand creates the plan command, which runs the whole pipeline on a
// bulletin and stores the result as a line record.
func (c *CLI) planCommand() *cobra.Command {
	var (
		pa            planArgs
		ro            renderOpts
		target        int
		hours         float64
		unitTemplates bool
	)

	cmd := &cobra.Command{
		Use:   "plan <bulletin.xlsx>",
		Short: "Parse, balance, lay out and render a bulletin in one step",
		Long: `Parse, balance, lay out and render a bulletin in one step.

The resulting line is saved to the configured store under a new ID together
with its line, style and cone numbers. Use 'lines' to list, retune or delete
saved lines.`,
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
			opts.Refresh = pa.refresh
			if err := ro.apply(&opts); err != nil {
				return err
			}
			return c.runPlan(cmd.Context(), args[0], ro.output, pa, opts)
		},
	}

	cmd.Flags().StringVar(&pa.lineNo, "line", "", "line number")
	cmd.Flags().StringVar(&pa.styleNo, "style", "", "style number")
	cmd.Flags().StringVar(&pa.coneNo, "cone", "", "cone number")
	cmd.Flags().BoolVar(&pa.noSave, "no-save", false, "do not save the line record")
	cmd.Flags().BoolVar(&pa.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&pa.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().IntVar(&target, "target", 0, "target output in pieces (default from config)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "working hours (default from config)")
	cmd.Flags().BoolVar(&unitTemplates, "unit-templates", false, "place one machine per template operation")
	ro.register(cmd)

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, input, output string, pa planArgs, opts pipeline.Options) error {
	for field, v := range map[string]string{"line": pa.lineNo, "style": pa.styleNo, "cone": pa.coneNo} {
		if err := errors.ValidateIdentifier(field, strings.TrimSpace(v)); err != nil {
			return err
		}
	}

	grid, err := sheet.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, pa.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Planning line...")
	spinner.Start()
	result, err := runner.Execute(ctx, grid, opts)
	if err != nil {
		spinner.StopWithError("Planning failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		output = basePath(input)
	}
	paths, err := writeArtifacts(result.Artifacts, output)
	if err != nil {
		return err
	}

	printSuccess("Plan complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Operations, result.Stats.Instances,
		result.CacheInfo.NormalizeHit && result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	printDropped(result.Dropped)
	printNewline()
	printSummary(result.Summary)

	if pa.noSave {
		return nil
	}

	st, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	rec := line.NewRecord(strings.TrimSpace(pa.lineNo), strings.TrimSpace(pa.styleNo), strings.TrimSpace(pa.coneNo), result.Operations, nil)
	rec.TargetOutput = result.Layout.TargetOutput
	rec.WorkingHours = result.Layout.WorkingHours
	rec.MachineLayout = result.Layout.Instances
	if err := st.Save(ctx, rec); err != nil {
		return fmt.Errorf("save line: %w", err)
	}

	printNewline()
	printSuccess("Saved line %s", StyleHighlight.Render(rec.ID))
	printNextStep("Retune", appName+" lines retune "+rec.ID+" --target 1200")
	return nil
}
