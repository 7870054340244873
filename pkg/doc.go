// Package pkg provides the core libraries for lineplanner.
//
// # Overview
//
// Lineplanner turns an operation bulletin (the spreadsheet a garment
// factory's industrial engineers keep per style) into a balanced sewing line
// and a placed floor plan. The pkg directory is organized into four areas:
//
//  1. Domain logic: [line], [bulletin], [balance], [floor]
//  2. Input and output: [sheet], [render]
//  3. Orchestration: [pipeline]
//  4. Infrastructure: [cache], [store], [config], [errors],
//     [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	.xlsx / .csv / .json bulletin
//	         ↓
//	    [sheet] (read the first worksheet into a grid)
//	         ↓
//	    [bulletin] (find the header, classify rows, emit operations)
//	         ↓
//	    [balance] (machines per operation for the takt time)
//	         ↓
//	    [floor] (place machines on lanes A-D)
//	         ↓
//	    [render] (JSON, SVG plan, PDF/PNG, DOT and flow SVG)
//
// [pipeline] runs these stages with caching; [store] persists the result
// as a line record.
//
// # Quick Start
//
//	grid, err := sheet.ReadFile("bulletin.xlsx")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, grid, pipeline.Options{
//	    TargetOutput: 1000,
//	    WorkingHours: 8,
//	    Formats:      []string{"svg", "json"},
//	})
//
// [line]: github.com/matzehuels/lineplanner/pkg/line
// [bulletin]: github.com/matzehuels/lineplanner/pkg/bulletin
// [balance]: github.com/matzehuels/lineplanner/pkg/balance
// [floor]: github.com/matzehuels/lineplanner/pkg/floor
// [sheet]: github.com/matzehuels/lineplanner/pkg/sheet
// [render]: github.com/matzehuels/lineplanner/pkg/render
// [pipeline]: github.com/matzehuels/lineplanner/pkg/pipeline
// [cache]: github.com/matzehuels/lineplanner/pkg/cache
// [store]: github.com/matzehuels/lineplanner/pkg/store
// [config]: github.com/matzehuels/lineplanner/pkg/config
// [errors]: github.com/matzehuels/lineplanner/pkg/errors
// [observability]: github.com/matzehuels/lineplanner/pkg/observability
// [buildinfo]: github.com/matzehuels/lineplanner/pkg/buildinfo
package pkg
