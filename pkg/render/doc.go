// Package render turns generated floor plans into files.
//
// # Overview
//
// The 3D viewer consumes the layout JSON directly. Everything else in this
// tree produces static artifacts for review and print:
//
//   - Plan views: a top-down SVG of the floor (in [plan] subpackage)
//   - Flow diagrams: per-section operation chains via Graphviz (in [flow]
//     subpackage)
//   - Format conversion from SVG to PDF/PNG ([ToPDF], [ToPNG])
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] shell out to rsvg-convert (from librsvg):
//
//	svg := plan.RenderSVG(instances, plan.WithSection("Collar"))
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [plan]: github.com/matzehuels/lineplanner/pkg/render/plan
// [flow]: github.com/matzehuels/lineplanner/pkg/render/flow
package render
