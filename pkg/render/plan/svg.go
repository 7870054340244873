package plan

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// SVGOption configures plan rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	section string
	scale   float64
	labels  bool
	title   string
}

// WithSection keeps only instances of one section.
func WithSection(s string) SVGOption { return func(r *svgRenderer) { r.section = s } }

// WithScale sets pixels per meter.
func WithScale(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.scale = px
		}
	}
}

// WithoutLabels hides operation codes.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithTitle draws a caption above the plan.
func WithTitle(s string) SVGOption { return func(r *svgRenderer) { r.title = s } }

const (
	defaultScale = 40.0
	margin       = 1.5 // meters around the drawing
	titleHeight  = 28.0
	machineW     = 1.2 // footprint along the facing axis
	machineD     = 0.8
)

var categoryFill = map[line.Category]string{
	line.CategorySNLS:    "#4e79a7",
	line.CategorySNEC:    "#f28e2b",
	line.CategoryIron:    "#e15759",
	line.CategoryButton:  "#76b7b2",
	line.CategoryBartack: "#59a14f",
	line.CategoryHelper:  "#edc948",
	line.CategorySpecial: "#b07aa1",
	line.CategoryDefault: "#bab0ac",
}

// Fill returns the plan color of a machine category.
func Fill(c line.Category) string {
	if f, ok := categoryFill[c]; ok {
		return f
	}
	return categoryFill[line.CategoryDefault]
}

// bounds is the world-space extent of the drawing.
type bounds struct{ minX, maxX, minZ, maxZ float64 }

func extent(instances []line.MachineInstance) bounds {
	b := bounds{minX: 0, maxX: 1, minZ: -7.5, maxZ: 1.5}
	for _, m := range instances {
		b.minX = math.Min(b.minX, m.Position.X)
		b.maxX = math.Max(b.maxX, m.Position.X)
		b.minZ = math.Min(b.minZ, m.Position.Z)
		b.maxZ = math.Max(b.maxZ, m.Position.Z)
	}
	return b
}

// RenderSVG draws the plan view of a layout.
func RenderSVG(instances []line.MachineInstance, opts ...SVGOption) []byte {
	r := svgRenderer{scale: defaultScale, labels: true}
	for _, opt := range opts {
		opt(&r)
	}
	instances = line.FilterSection(instances, r.section)

	b := extent(instances)
	top := 0.0
	if r.title != "" {
		top = titleHeight
	}
	width := (b.maxX - b.minX + 2*margin) * r.scale
	height := (b.maxZ-b.minZ+2*margin)*r.scale + top

	px := func(x float64) float64 { return (x - b.minX + margin) * r.scale }
	pz := func(z float64) float64 { return (z-b.minZ+margin)*r.scale + top }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <defs><pattern id="hatch" width="6" height="6" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">` +
		`<line x1="0" y1="0" x2="0" y2="6" stroke="#888" stroke-width="2"/></pattern></defs>` + "\n")
	fmt.Fprintf(&buf, `  <rect width="%.1f" height="%.1f" fill="#fafafa"/>`+"\n", width, height)
	if r.title != "" {
		fmt.Fprintf(&buf, `  <text x="8" y="20" font-family="sans-serif" font-size="16" font-weight="bold">%s</text>`+"\n",
			html.EscapeString(r.title))
	}

	for _, l := range line.Lanes {
		fmt.Fprintf(&buf, `  <text x="4" y="%.1f" font-family="sans-serif" font-size="10" fill="#999">%s</text>`+"\n",
			pz(floor.LaneZ(l))+3, l)
	}

	for _, m := range instances {
		cx, cy := px(m.Position.X), pz(m.Position.Z)
		switch {
		case m.Operation.MachineType == "Pathway":
			fmt.Fprintf(&buf, `  <rect class="pathway" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#e8e8e8"/>`+"\n",
				cx-0.5*r.scale, pz(b.minZ), r.scale, (b.maxZ-b.minZ)*r.scale)
		case m.Operation.MachineType == "Board":
			fmt.Fprintf(&buf, `  <rect class="board" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#333"/>`+"\n",
				cx-2, cy-0.6*r.scale, 4.0, 1.2*r.scale)
			fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="10">%s</text>`+"\n",
				cx+4, cy-0.6*r.scale, html.EscapeString(m.Operation.OpName))
		default:
			renderFootprint(&buf, m, cx, cy, r.scale)
			if r.labels && !m.IsFixture() {
				fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="8" text-anchor="middle">%s</text>`+"\n",
					cx, cy+3, html.EscapeString(m.Operation.OpNo))
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderFootprint(buf *bytes.Buffer, m line.MachineInstance, cx, cy, scale float64) {
	w, d := machineW*scale, machineD*scale
	fill, extra := Fill(line.CategoryOf(m.Operation.MachineType)), ""
	class := "machine"
	switch {
	case m.IsInspection:
		class, fill, extra = "inspection", "#ffffff", ` stroke-dasharray="4 2"`
	case m.Operation.MachineType == "Supermarket":
		class, fill = "supermarket", "url(#hatch)"
	}
	fmt.Fprintf(buf, `  <rect id="%s" class="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#333"%s transform="rotate(%.1f %.1f %.1f)"><title>%s</title></rect>`+"\n",
		html.EscapeString(m.ID), class, cx-w/2, cy-d/2, w, d, fill, extra, -m.YawDegrees(), cx, cy, html.EscapeString(tooltip(m)))
}

func tooltip(m line.MachineInstance) string {
	parts := []string{m.Operation.OpNo, m.Operation.OpName, m.Operation.MachineType}
	if m.Operation.SMV > 0 && !m.IsFixture() {
		parts = append(parts, fmt.Sprintf("%.2f min", m.Operation.SMV))
	}
	return strings.Join(parts, " | ")
}
