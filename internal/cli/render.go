package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/pipeline"
	"github.com/matzehuels/lineplanner/pkg/render"
)

// renderOpts holds the flags shared by render and plan.
type renderOpts struct {
	output   string // base path for output files
	formats  string // comma-separated formats
	section  string // restrict drawings to one section
	detailed bool   // show SMV and counts in flow diagrams
	scale    float64
	pxPerM   float64 // plan drawing resolution
	noLabels bool
	compact  bool // unindented JSON
}

func (o *renderOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output format(s): svg (default), json, pdf, png, dot, flow (comma-separated)")
	cmd.Flags().StringVar(&o.section, "section", "", "only draw this section")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "show SMV and machine counts in flow diagrams")
	cmd.Flags().Float64Var(&o.scale, "scale", pipeline.DefaultPNGScale, "PNG scale factor")
	cmd.Flags().Float64Var(&o.pxPerM, "px-per-meter", 0, "plan drawing resolution (default 40)")
	cmd.Flags().BoolVar(&o.noLabels, "no-labels", false, "hide operation codes in the plan")
	cmd.Flags().BoolVar(&o.compact, "compact", false, "write JSON without indentation")
}

func (o *renderOpts) apply(opts *pipeline.Options) error {
	opts.Formats = parseFormats(o.formats)
	opts.Section = o.section
	opts.Detailed = o.detailed
	opts.Scale = o.scale
	opts.PixelsPerMeter = o.pxPerM
	opts.NoLabels = o.noLabels
	opts.CompactJSON = o.compact
	return pipeline.ValidateFormats(opts.Formats)
}

// renderCommand creates the render command for drawing a layout.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		ro      renderOpts
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render <layout.json>",
		Short: "Draw a floor layout as SVG, PDF, PNG, JSON or a flow diagram",
		Long: `Draw a floor layout.

Formats:
  svg   top-down plan of the floor, machines colored by category
  pdf   the plan converted with rsvg-convert
  png   the plan converted with rsvg-convert (see --scale)
  json  the layout with instances sorted by section and lane
  dot   per-section operation chains in Graphviz DOT
  flow  the DOT chains rendered to SVG`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.planOptions()
			if err != nil {
				return err
			}
			if err := ro.apply(&opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], ro.output, noCache, opts)
		},
	}

	ro.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	l, err := line.ReadLayoutFile(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Rendering %s (%d machines)", input, len(l.Instances))

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if output == "" {
		output = basePath(input)
	}
	paths, err := writeArtifacts(artifacts, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(0, len(l.Instances), cacheHit)
	return nil
}

// writeArtifacts writes each artifact to base.<ext> and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, base string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + render.Format(f).Ext()
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
