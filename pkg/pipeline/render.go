package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/render"
	"github.com/matzehuels/lineplanner/pkg/render/flow"
	"github.com/matzehuels/lineplanner/pkg/render/plan"
)

// RenderLayout renders a layout in every requested format.
func RenderLayout(ctx context.Context, l line.Layout, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	// SVG and DOT feed the derived formats; render each once.
	var svg []byte
	planSVG := func() []byte {
		if svg == nil {
			svg = plan.RenderSVG(l.Instances, svgOptions(l, opts)...)
		}
		return svg
	}
	var dot string
	flowDOT := func() string {
		if dot == "" {
			dot = flow.ToDOT(flow.FromLayout(l.Instances), flow.Options{
				Detailed: opts.Detailed,
				Section:  opts.Section,
			})
		}
		return dot
	}

	for _, name := range opts.Formats {
		format, err := render.ParseFormat(name)
		if err != nil {
			return nil, err
		}

		var data []byte
		switch format {
		case render.FormatJSON:
			data, err = plan.RenderJSON(l, jsonOptions(opts)...)
		case render.FormatSVG:
			data = planSVG()
		case render.FormatPDF:
			data, err = render.ToPDF(planSVG())
		case render.FormatPNG:
			data, err = render.ToPNG(planSVG(), opts.Scale)
		case render.FormatDOT:
			data = []byte(flowDOT())
		case render.FormatFlow:
			data, err = flow.RenderSVG(ctx, flowDOT())
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		artifacts[name] = data
	}
	return artifacts, nil
}

func svgOptions(l line.Layout, opts Options) []plan.SVGOption {
	title := fmt.Sprintf("Target %d pcs / %.1f h", l.TargetOutput, l.WorkingHours)
	if opts.Section != "" {
		title = opts.Section + " - " + title
	}
	out := []plan.SVGOption{plan.WithSection(opts.Section), plan.WithTitle(title), plan.WithScale(opts.PixelsPerMeter)}
	if opts.NoLabels {
		out = append(out, plan.WithoutLabels())
	}
	return out
}

func jsonOptions(opts Options) []plan.JSONOption {
	out := []plan.JSONOption{plan.WithJSONSection(opts.Section)}
	if opts.CompactJSON {
		out = append(out, plan.WithJSONCompact())
	}
	return out
}
