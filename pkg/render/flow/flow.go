// Package flow renders operation sequences as Graphviz flow diagrams.
//
// Each section becomes a cluster holding its operations as a left-to-right
// chain in sequence order. Parts sections feed into assembly, which is drawn
// last. Node labels show the operation code, name, machine type and the
// number of machines placed for it.
package flow

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// Options configures flow diagram rendering.
type Options struct {
	// Detailed adds machine type and SMV to node labels.
	Detailed bool
	// Section restricts the diagram to one section.
	Section string
}

// FromLayout recovers the placed requirements of a layout: one entry per
// operation (by section and code) with the number of instances placed for
// it. Fixtures are skipped; order follows first placement.
func FromLayout(instances []line.MachineInstance) []line.Requirement {
	index := make(map[string]int)
	var reqs []line.Requirement
	for _, m := range instances {
		if m.IsFixture() {
			continue
		}
		key := m.Section + "\x00" + m.Operation.OpNo
		if i, ok := index[key]; ok {
			reqs[i].Count++
			continue
		}
		index[key] = len(reqs)
		op := m.Operation
		op.Section = m.Section
		reqs = append(reqs, line.Requirement{Operation: op, Count: 1})
	}
	return reqs
}

// ToDOT converts requirements to Graphviz DOT format.
func ToDOT(reqs []line.Requirement, opts Options) string {
	var sections []string
	bySection := make(map[string][]line.Requirement)
	for _, r := range reqs {
		s := r.Operation.Section
		if opts.Section != "" && s != opts.Section {
			continue
		}
		if _, ok := bySection[s]; !ok {
			sections = append(sections, s)
		}
		bySection[s] = append(bySection[s], r)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var assembly string
	var tails []string
	for i, s := range sections {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", s)
		buf.WriteString("    style=\"rounded\";\n")
		var prev string
		for _, r := range bySection[s] {
			id := nodeID(s, r.Operation.OpNo)
			fmt.Fprintf(&buf, "    %q [label=%q];\n", id, fmtLabel(r, opts.Detailed))
			if prev != "" {
				fmt.Fprintf(&buf, "    %q -> %q;\n", prev, id)
			}
			prev = id
		}
		buf.WriteString("  }\n")

		if tag, _ := floor.TagOf(s); tag == floor.TagAssembly && assembly == "" {
			assembly = nodeID(s, bySection[s][0].Operation.OpNo)
		} else if prev != "" {
			tails = append(tails, prev)
		}
	}

	if assembly != "" {
		buf.WriteString("\n")
		for _, t := range tails {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", t, assembly)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(section, opNo string) string {
	return section + "/" + opNo
}

func fmtLabel(r line.Requirement, detailed bool) string {
	var b strings.Builder
	b.WriteString(r.Operation.OpNo)
	if r.Operation.OpName != "" && r.Operation.OpName != r.Operation.MachineType {
		b.WriteString("\n" + r.Operation.OpName)
	}
	if detailed {
		fmt.Fprintf(&b, "\n%s, %.2f min", r.Operation.MachineType, r.Operation.SMV)
	}
	if r.Count > 1 {
		fmt.Fprintf(&b, "\nx%d", r.Count)
	}
	return b.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales from
// its origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
