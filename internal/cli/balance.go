package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/pipeline"
)

// balanceCommand creates the balance command, which prints machine counts
// per operation without placing them.
func (c *CLI) balanceCommand() *cobra.Command {
	var (
		target  int
		hours   float64
		asJSON  bool
		section string
	)

	cmd := &cobra.Command{
		Use:   "balance <operations.json>",
		Short: "Compute machine counts for a target output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := line.ReadOperationsFile(args[0])
			if err != nil {
				return err
			}
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
			if err := errors.ValidateParameters(opts.TargetOutput, opts.WorkingHours); err != nil {
				return err
			}
			if section != "" {
				ops = filterOperations(ops, section)
			}

			reqs, summary := pipeline.Plan(ops, opts.TargetOutput, opts.WorkingHours)
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"requirements": reqs, "summary": summary})
			}

			fmt.Fprintln(out, StyleTitle.Render("Line balance"))
			fmt.Fprintln(out, requirementsTable(reqs))
			printSummary(summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&target, "target", 0, "target output in pieces (default from config)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "working hours (default from config)")
	cmd.Flags().StringVar(&section, "section", "", "only balance operations of this section")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print requirements and summary as JSON")

	return cmd
}

func filterOperations(ops []line.Operation, section string) []line.Operation {
	var outOps []line.Operation
	for _, op := range ops {
		if op.Section == section {
			outOps = append(outOps, op)
		}
	}
	return outOps
}
