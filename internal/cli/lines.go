package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/balance"
	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/pipeline"
	"github.com/matzehuels/lineplanner/pkg/store"
)

// linesCommand creates the command group for saved line records.
func (c *CLI) linesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lines",
		Short: "Manage saved lines",
	}

	cmd.AddCommand(c.linesListCommand())
	cmd.AddCommand(c.linesShowCommand())
	cmd.AddCommand(c.linesDeleteCommand())
	cmd.AddCommand(c.linesRetuneCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) linesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved lines, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				recs, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					printInfo("No saved lines")
					return nil
				}
				t := newTable("ID", "Line", "Style", "Cone", "Ops", "Machines", "Target", "Updated")
				for _, r := range recs {
					target, hours := r.Params()
					t.Row(r.ID, r.LineNo, r.StyleNo, r.ConeNo,
						strconv.Itoa(len(r.Operations)),
						strconv.Itoa(len(r.MachineLayout)),
						fmt.Sprintf("%d / %.1fh", target, hours),
						r.UpdatedAt.Local().Format("2006-01-02 15:04"))
				}
				fmt.Fprintln(out, t.Render())
				return nil
			})
		},
	}
}

func (c *CLI) linesShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(rec)
				}
				printRecord(rec)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")
	return cmd
}

func (c *CLI) linesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted line %s", args[0])
				return nil
			})
		},
	}
}

func (c *CLI) linesRetuneCommand() *cobra.Command {
	var (
		target        int
		hours         float64
		unitTemplates bool
	)

	cmd := &cobra.Command{
		Use:   "retune <id>",
		Short: "Change the target output or working hours of a saved line",
		Long: `Change the target output or working hours of a saved line.

The machine layout is regenerated from scratch for the new parameters and
replaces the stored layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.planOptions()
			if err != nil {
				return err
			}
			opts.UnitTemplates = unitTemplates

			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				opts.TargetOutput, opts.WorkingHours = rec.Params()
				if cmd.Flags().Changed("target") {
					opts.TargetOutput = target
				}
				if cmd.Flags().Changed("hours") {
					opts.WorkingHours = hours
				}
				if err := opts.ValidateForLayout(); err != nil {
					return err
				}

				before := len(rec.MachineLayout)
				rec.Retune(opts.TargetOutput, opts.WorkingHours, pipeline.LayoutFunc(opts))
				if err := st.Save(cmd.Context(), rec); err != nil {
					return err
				}
				printSuccess("Retuned line %s", rec.ID)
				printDetail("%d pcs in %.1f h · %d → %d machines",
					rec.TargetOutput, rec.WorkingHours, before, len(rec.MachineLayout))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&target, "target", 0, "new target output in pieces")
	cmd.Flags().Float64Var(&hours, "hours", 0, "new working hours")
	cmd.Flags().BoolVar(&unitTemplates, "unit-templates", false, "place one machine per template operation")
	cmd.MarkFlagsOneRequired("target", "hours")

	return cmd
}

// printRecord prints the identifying fields and balance summary of rec.
func printRecord(rec *line.Record) {
	target, hours := rec.Params()
	fmt.Fprintln(out, StyleTitle.Render("Line "+rec.ID))
	printKeyValue("Line", rec.LineNo)
	printKeyValue("Style", rec.StyleNo)
	printKeyValue("Cone", rec.ConeNo)
	printKeyValue("Created", rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	printKeyValue("Updated", rec.UpdatedAt.Local().Format("2006-01-02 15:04"))
	printKeyValue("Operations", strconv.Itoa(len(rec.Operations)))
	printKeyValue("Placed", strconv.Itoa(len(rec.MachineLayout)))
	printNewline()
	printSummary(balance.Summarize(balance.Balance(rec.Operations, target, hours), target, hours))
}
