// Package plan renders a floor layout as a top-down plan.
//
// [RenderSVG] draws one footprint per machine instance on the X (placement)
// and Z (cross) axes, colored by [line.Category]. Fixtures are drawn
// distinctly: boards as bars, inspection tables dashed, supermarkets
// hatched and pathways as a band across all lanes. [RenderJSON] emits the
// layout document the 3D viewer loads.
//
// Both sinks accept [WithSection] to restrict output to one section.
package plan
