package floor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/lineplanner/pkg/balance"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// =============================================================================
// Options
// =============================================================================

// Option configures a single Generate call.
type Option func(*generator)

// WithIDGenerator replaces the random suffix appended to instance IDs.
func WithIDGenerator(fn func() string) Option {
	return func(g *generator) {
		if fn != nil {
			g.newID = fn
		}
	}
}

// WithTemplates replaces the embedded canonical section templates.
func WithTemplates(ts *TemplateSet) Option {
	return func(g *generator) {
		if ts != nil {
			g.templates = ts
		}
	}
}

// WithUnitTemplates places exactly one machine per templated operation
// instead of the balanced count.
func WithUnitTemplates() Option {
	return func(g *generator) { g.unitTemplates = true }
}

// Generator binds options into a [line.LayoutFunc].
func Generator(opts ...Option) line.LayoutFunc {
	return func(ops []line.Operation, targetOutput int, workingHours float64) []line.MachineInstance {
		return Generate(ops, targetOutput, workingHours, opts...)
	}
}

// =============================================================================
// Generate
// =============================================================================

// section is one admitted group of operations.
type section struct {
	name      string
	tag       Tag
	ops       []line.Operation
	templated bool
}

// generator is the per-call accumulator. Nothing outlives a Generate call.
type generator struct {
	newID         func() string
	templates     *TemplateSet
	unitTemplates bool
	targetOutput  int
	workingHours  float64

	cursors map[line.Lane]float64
	out     []line.MachineInstance
}

// Generate places every machine of the recognized sections on the floor.
//
// Sections are visited in [Tags] order. The first section of each tag has
// its parsed operations replaced by the canonical template; assembly is
// always laid out even when absent from ops. Sections matching no tag are
// dropped (see [Dropped]). The result is deterministic except for the random
// ID suffixes.
func Generate(ops []line.Operation, targetOutput int, workingHours float64, opts ...Option) []line.MachineInstance {
	g := &generator{
		newID:        uuid.NewString,
		templates:    defaultTemplates,
		targetOutput: targetOutput,
		workingHours: workingHours,
		cursors:      make(map[line.Lane]float64, len(line.Lanes)),
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, sec := range g.plan(ops) {
		if sec.tag == TagAssembly {
			g.placeAssembly(sec)
			continue
		}
		g.placeParts(sec)
	}
	return g.out
}

// Dropped returns the section names that Generate ignores because they
// match no recognized tag, in order of first appearance.
func Dropped(ops []line.Operation) []string {
	seen := make(map[string]bool)
	var out []string
	for _, op := range ops {
		if _, ok := TagOf(op.Section); ok || seen[op.Section] {
			continue
		}
		seen[op.Section] = true
		out = append(out, op.Section)
	}
	return out
}

// plan groups admitted operations by section, applies templates and
// returns the sections in processing order.
func (g *generator) plan(ops []line.Operation) []section {
	var order []string
	groups := make(map[string]*section)
	for _, op := range ops {
		tag, ok := TagOf(op.Section)
		if !ok {
			continue
		}
		sec, ok := groups[op.Section]
		if !ok {
			sec = &section{name: op.Section, tag: tag}
			groups[op.Section] = sec
			order = append(order, op.Section)
		}
		sec.ops = append(sec.ops, op)
	}

	var out []section
	for _, tag := range Tags {
		first := true
		for _, name := range order {
			sec := groups[name]
			if sec.tag != tag {
				continue
			}
			if first {
				sec.ops = g.templates.Operations(tag, sec.name)
				sec.templated = true
				out = append(out, *sec)
				first = false
				continue
			}
			if singleInstance(tag) {
				continue
			}
			out = append(out, *sec)
		}
		if tag == TagAssembly && first {
			name := "Assembly"
			out = append(out, section{
				name:      name,
				tag:       TagAssembly,
				ops:       g.templates.Operations(TagAssembly, name),
				templated: true,
			})
		}
	}
	return out
}

// singleInstance reports whether only the first section of a tag is laid
// out.
func singleInstance(t Tag) bool {
	return t == TagCollar || t == TagFront || t == TagBack
}

// requirements balances a section's operations.
func (g *generator) requirements(sec section) []line.Requirement {
	if sec.templated && g.unitTemplates {
		reqs := make([]line.Requirement, len(sec.ops))
		for i, op := range sec.ops {
			reqs[i] = line.Requirement{Operation: op, Count: 1}
		}
		return reqs
	}
	return balance.Balance(sec.ops, g.targetOutput, g.workingHours)
}

// =============================================================================
// Parts Sections
// =============================================================================

// Extra inspection clearance compensating for trailing nudges.
var inspectionGap = map[Tag]float64{
	TagSleeve: 0.5,
	TagFront:  0.5,
	TagBack:   0.7,
}

const (
	baseInspectionGap = 0.4
	supermarketOffset = 3.5
	pathwayOffset     = 2.0
	fixtureDepth      = 1.0
)

// placeParts lays out a cuff, sleeve, back, collar or front section on its
// lane pair.
func (g *generator) placeParts(sec section) {
	grp := groupOf(sec.tag)
	start := max(g.cursors[grp.left], g.cursors[grp.right])
	if start > 0 {
		start += SectionGap
	}
	g.board(sec.name+" Section", sec.name, grp.left, start, grp.boardZ)

	reqs := g.requirements(sec)
	spacing := Spacing(sec.tag)
	x := start + boardClearance
	for i := 0; i < len(reqs); i += 2 {
		widest := g.replicate(sec, reqs[i], grp.left, x, spacing)
		if i+1 < len(reqs) {
			widest = max(widest, g.replicate(sec, reqs[i+1], grp.right, x, spacing))
		}
		x += float64(widest) * spacing
	}
	g.cursors[grp.left] = x
	g.cursors[grp.right] = x

	if !hasInspection(sec.ops) {
		g.inspection(sec, grp, x+baseInspectionGap+inspectionGap[sec.tag])
	}

	if sec.tag != TagFront && sec.tag != TagBack {
		return
	}
	superX := x + supermarketOffset
	g.fixture("supermarket", "Supermarket", sec.name, grp.left,
		line.Vec3{X: superX, Z: laneZ[grp.left] - 1}, yawBack)
	reach := superX + fixtureDepth
	if sec.tag == TagBack {
		pathX := superX + pathwayOffset
		g.fixture("pathway", "Pathway", sec.name, grp.left, line.Vec3{X: pathX}, 0)
		reach = pathX + fixtureDepth
	}
	g.cursors[grp.left] = max(g.cursors[grp.left], reach)
	g.cursors[grp.right] = max(g.cursors[grp.right], reach)
}

// replicate places req.Count machines along a lane and returns the count.
func (g *generator) replicate(sec section, req line.Requirement, lane line.Lane, x, spacing float64) int {
	for k := 0; k < req.Count; k++ {
		g.machine(req.Operation, sec, lane, x+float64(k)*spacing, k, nil, false)
	}
	return req.Count
}

func hasInspection(ops []line.Operation) bool {
	for _, op := range ops {
		if strings.Contains(strings.ToLower(op.OpName), "inspection") ||
			strings.Contains(strings.ToLower(op.MachineType), "inspection") {
			return true
		}
	}
	return false
}

// =============================================================================
// Assembly
// =============================================================================

const (
	assemblyLead       = 1.5
	assemblyHelperLead = 2.5
)

// assemblyLanes replicate the assembly sequence. B faces the front, A and D
// face the back.
var assemblyLanes = []struct {
	lane line.Lane
	yaw  float64
}{
	{line.LaneB, yawFront},
	{line.LaneA, yawBack},
	{line.LaneD, yawBack},
}

// placeAssembly lays out the assembly area past every other section.
func (g *generator) placeAssembly(sec section) {
	start := SectionGap
	for _, l := range line.Lanes {
		start = max(start, g.cursors[l]+SectionGap)
	}

	for i, al := range assemblyLanes {
		g.board(fmt.Sprintf("Assembly - %d", i+1), sec.name, al.lane, start, laneZ[al.lane])
	}

	front := yawFront
	helpers := g.templates.Assembly.Helpers
	helperX := start + assemblyHelperLead
	for k := 0; k < helpers.Count; k++ {
		op := auxOp(helpers, k, sec.name)
		g.machine(op, sec, line.LaneC, helperX+float64(k)*helpers.Spacing, k, &front, true)
	}

	bankX := helperX + float64(max(helpers.Count-1, 0))*helpers.Spacing + DefaultSpacing
	for _, bank := range g.templates.Assembly.Bank {
		for i := 0; i < bank.Count; i++ {
			g.machine(auxOp(bank, i, sec.name), sec, line.LaneC, bankX, i, &front, true)
			bankX += DefaultSpacing
		}
	}

	x := start + assemblyLead
	for _, op := range sec.ops {
		for i, al := range assemblyLanes {
			yaw := al.yaw
			g.machine(op, sec, al.lane, x, i, &yaw, true)
		}
		x += DefaultSpacing
	}
	for _, l := range line.Lanes {
		g.cursors[l] = x
	}
}

// auxOp builds the operation of the i-th machine of an auxiliary bank.
func auxOp(b Bank, i int, section string) line.Operation {
	return line.Operation{
		OpNo:        fmt.Sprintf("%s%d", b.Code, i+1),
		OpName:      b.Machine,
		MachineType: b.Machine,
		SMV:         1.0,
		Section:     section,
	}
}

// =============================================================================
// Instances
// =============================================================================

// machine appends one operation instance. Nudges apply after orientation.
func (g *generator) machine(op line.Operation, sec section, lane line.Lane, x float64, idx int, forced *float64, center bool) {
	dx, dz, dyaw := NudgeFor(sec.tag, op.OpNo, lane)
	g.out = append(g.out, line.MachineInstance{
		ID:           fmt.Sprintf("%s-%d-%s", op.OpNo, idx, g.newID()),
		Operation:    op,
		Position:     line.Vec3{X: x + dx, Z: laneZ[lane] + dz},
		Rotation:     line.Vec3{Y: yawFor(lane, op.MachineType, forced) + dyaw},
		Lane:         lane,
		Section:      sec.name,
		MachineIndex: idx,
		CenterModel:  center,
	})
}

// board appends a raised section sign.
func (g *generator) board(label, sectionName string, lane line.Lane, x, z float64) {
	g.out = append(g.out, line.MachineInstance{
		ID:           fmt.Sprintf("board-%s-%s", label, g.newID()),
		Operation:    fixtureOp(label, "Board", sectionName),
		Position:     line.Vec3{X: x, Y: boardY, Z: z},
		Rotation:     line.Vec3{Y: yawFront},
		Lane:         lane,
		Section:      sectionName,
		MachineIndex: line.FixtureIndex,
	})
}

// inspection appends the end-of-section inspection table.
func (g *generator) inspection(sec section, grp group, x float64) {
	g.out = append(g.out, line.MachineInstance{
		ID:           "inspect-" + sec.name,
		Operation:    fixtureOp("Inspection", "Inspection", sec.name),
		Position:     line.Vec3{X: x, Z: laneZ[grp.left] - 0.5},
		Rotation:     line.Vec3{Y: yawFront},
		Lane:         grp.left,
		Section:      sec.name,
		MachineIndex: line.FixtureIndex,
		IsInspection: true,
	})
}

// fixture appends a supermarket or pathway.
func (g *generator) fixture(prefix, name, sectionName string, lane line.Lane, pos line.Vec3, yaw float64) {
	g.out = append(g.out, line.MachineInstance{
		ID:           fmt.Sprintf("%s-%s-%s", prefix, sectionName, g.newID()),
		Operation:    fixtureOp(name, name, sectionName),
		Position:     pos,
		Rotation:     line.Vec3{Y: yaw},
		Lane:         lane,
		Section:      sectionName,
		MachineIndex: line.FixtureIndex,
	})
}

func fixtureOp(name, machineType, sectionName string) line.Operation {
	return line.Operation{
		OpNo:        "00",
		OpName:      name,
		MachineType: machineType,
		SMV:         1.0,
		Section:     sectionName,
	}
}
