// Package pipeline provides the line planning pipeline shared by the CLI
// and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Normalize: turn a raw bulletin grid into operations
//  2. Layout: balance the operations and place every machine on the floor
//  3. Render: produce output artifacts (JSON, SVG, PDF, PNG, DOT, flow SVG)
//
// Each stage is a pure function of its input, which makes every stage
// cacheable by content hash. [Runner] wraps the stages with a [cache.Cache].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, grid, pipeline.Options{
//	    TargetOutput: 1000,
//	    WorkingHours: 8,
//	    Formats:      []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	ops, err := runner.Normalize(ctx, grid, opts)
//	layout, err := runner.Layout(ctx, ops, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineplanner/pkg/balance"
	"github.com/matzehuels/lineplanner/pkg/cache"
	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = render.FormatSVG

	// DefaultPNGScale is the PNG resolution multiplier.
	DefaultPNGScale = 2.0
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It supports JSON for API requests.
//
// A zero TargetOutput or WorkingHours is kept as is: the balancer then
// places one machine per operation.
type Options struct {
	// Layout options
	TargetOutput  int     `json:"target_output"`
	WorkingHours  float64 `json:"working_hours"`
	UnitTemplates bool    `json:"unit_templates,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Section  string   `json:"section,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Plan drawing: pixels per meter (0 uses the default) and whether to
	// hide operation codes. CompactJSON drops indentation.
	PixelsPerMeter float64 `json:"pixels_per_meter,omitempty"`
	NoLabels       bool    `json:"no_labels,omitempty"`
	CompactJSON    bool    `json:"compact_json,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger      *log.Logger        `json:"-"`
	Templates   *floor.TemplateSet `json:"-"`
	IDGenerator func() string      `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Operations are the normalized bulletin rows.
	Operations []line.Operation

	// OperationsHash is the content hash of Operations.
	OperationsHash string

	// Requirements are the balanced machine counts of the bulletin.
	Requirements []line.Requirement

	// Summary aggregates Requirements.
	Summary balance.Summary

	// Dropped lists sections the layout ignores.
	Dropped []string

	// Layout is the placed floor plan.
	Layout line.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows          int
	Operations    int
	Instances     int
	NormalizeTime time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	NormalizeHit bool
	LayoutHit    bool
	RenderHit    bool // all requested artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are known.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid format")
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults validates the options for a full run and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout checks the planning parameters.
func (o *Options) ValidateForLayout() error {
	o.setCommonDefaults()
	return errors.ValidateParameters(o.TargetOutput, o.WorkingHours)
}

// ValidateForRender checks formats and applies render defaults.
func (o *Options) ValidateForRender() error {
	o.setCommonDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{string(DefaultFormat)}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultPNGScale
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setCommonDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Templates == nil {
		o.Templates = floor.DefaultTemplates()
	}
}

// LayoutKeyOpts returns cache key options for layout generation. The
// template set is keyed by content, so an edited override file invalidates
// cached layouts even when its version string is unchanged.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	templates := o.Templates
	if templates == nil {
		templates = floor.DefaultTemplates()
	}
	return cache.LayoutKeyOpts{
		TargetOutput:  o.TargetOutput,
		WorkingHours:  o.WorkingHours,
		UnitTemplates: o.UnitTemplates,
		TemplatesHash: cache.HashJSON(templates),
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, Section: o.Section}
	switch render.Format(format) {
	case render.FormatDOT, render.FormatFlow:
		opts.Detailed = o.Detailed
	case render.FormatJSON:
		opts.Compact = o.CompactJSON
	case render.FormatSVG, render.FormatPDF, render.FormatPNG:
		opts.PixelsPerMeter = o.PixelsPerMeter
		opts.NoLabels = o.NoLabels
		if render.Format(format) == render.FormatPNG {
			opts.Scale = o.Scale
		}
	}
	return opts
}
