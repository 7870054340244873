package floor

import (
	"math"
	"slices"

	"github.com/matzehuels/lineplanner/pkg/line"
)

// Nudge is a literal per-code offset that keeps neighboring machine models
// from intersecting. DX moves along the placement axis, DZ across it and
// DYaw adds rotation. An empty Lanes list applies to every lane.
type Nudge struct {
	Tag   Tag
	Code  string
	Lanes []line.Lane
	DX    float64
	DZ    float64
	DYaw  float64
}

// Nudges is applied cumulatively: every matching entry adds its offsets.
var Nudges = []Nudge{
	{Tag: TagCuff, Code: "C-1", DZ: 0.25},
	{Tag: TagCuff, Code: "C-6", DZ: -0.3},
	{Tag: TagCuff, Code: "C-5", DZ: -0.2},
	{Tag: TagCuff, Code: "C-9", DZ: -0.6},

	{Tag: TagCollar, Code: "C-3", DZ: -0.2},
	{Tag: TagCollar, Code: "C-7", DZ: 0.6, DX: -0.2},
	{Tag: TagCollar, Code: "C-8", DZ: 0.4},
	{Tag: TagCollar, Code: "C-11", DZ: 0.2},
	{Tag: TagCollar, Code: "C-4", DX: -0.2},
	{Tag: TagCollar, Code: "C-12", DZ: 0.4},
	{Tag: TagCollar, Code: "C-16", DZ: -0.4, DX: 0.3},
	{Tag: TagCollar, Code: "C-18", DZ: -0.5},

	{Tag: TagSleeve, Code: "S-8", DZ: 0.5, DX: -0.2},
	{Tag: TagSleeve, Code: "S-4", DZ: 0.3},
	{Tag: TagSleeve, Code: "S-10", DZ: 0.6, DX: 0.5},

	{Tag: TagFront, Code: "F-3", DZ: 0.35},
	{Tag: TagFront, Code: "F-4", DZ: 0.5, DX: -0.2},
	{Tag: TagFront, Code: "F-6", DX: 0.5},
	{Tag: TagFront, Code: "F-5", DZ: -0.5, DX: 0.6},
	{Tag: TagFront, Code: "F-7", DZ: 0.1, DX: 0.5},
	{Tag: TagFront, Code: "F-8", DX: 0.5},
	{Tag: TagFront, Code: "F-9", DZ: -0.5, DX: 0.45},
	{Tag: TagFront, Code: "F-10", DZ: 0.6, DX: 0.5},

	{Tag: TagBack, Code: "B-6", DZ: -0.3},
	{Tag: TagBack, Code: "B-7", DZ: -0.5, DX: 0.7},

	{Tag: TagAssembly, Code: "A-6", DX: -0.2},
	{Tag: TagAssembly, Code: "A-6", Lanes: []line.Lane{line.LaneA, line.LaneC}, DX: 0.3},
	{Tag: TagAssembly, Code: "A-8", DX: 0.1},
	{Tag: TagAssembly, Code: "A-12", DX: -0.1},
	{Tag: TagAssembly, Code: "A-13", DX: 0.3, DYaw: math.Pi / 2},
}

// NudgeFor sums every nudge matching a section tag, operation code and lane.
func NudgeFor(t Tag, code string, lane line.Lane) (dx, dz, dyaw float64) {
	for _, n := range Nudges {
		if n.Tag != t || n.Code != code {
			continue
		}
		if len(n.Lanes) > 0 && !slices.Contains(n.Lanes, lane) {
			continue
		}
		dx += n.DX
		dz += n.DZ
		dyaw += n.DYaw
	}
	return dx, dz, dyaw
}
