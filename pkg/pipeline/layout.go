package pipeline

import (
	"github.com/matzehuels/lineplanner/pkg/balance"
	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// GenerateLayout balances ops and places them on the floor.
func GenerateLayout(ops []line.Operation, opts Options) line.Layout {
	return line.Layout{
		TargetOutput: opts.TargetOutput,
		WorkingHours: opts.WorkingHours,
		TaktTime:     balance.TaktTime(opts.TargetOutput, opts.WorkingHours),
		Instances:    floor.Generate(ops, opts.TargetOutput, opts.WorkingHours, floorOptions(opts)...),
	}
}

// LayoutFunc returns the layout function configured by opts, for use with
// line records.
func LayoutFunc(opts Options) line.LayoutFunc {
	return floor.Generator(floorOptions(opts)...)
}

// Plan balances ops and summarizes the result.
func Plan(ops []line.Operation, targetOutput int, workingHours float64) ([]line.Requirement, balance.Summary) {
	reqs := balance.Balance(ops, targetOutput, workingHours)
	return reqs, balance.Summarize(reqs, targetOutput, workingHours)
}

func floorOptions(opts Options) []floor.Option {
	var out []floor.Option
	if opts.Templates != nil {
		out = append(out, floor.WithTemplates(opts.Templates))
	}
	if opts.UnitTemplates {
		out = append(out, floor.WithUnitTemplates())
	}
	if opts.IDGenerator != nil {
		out = append(out, floor.WithIDGenerator(opts.IDGenerator))
	}
	return out
}
