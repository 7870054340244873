package line

import "math"

// =============================================================================
// Operation
// =============================================================================

// Operation is one production step of the bulletin.
//
// OpNo is unique within its section only. MachineType is never empty after
// normalization. An SMV of 0 means "unknown", not "instant".
type Operation struct {
	OpNo        string  `json:"op_no" bson:"op_no"`
	OpName      string  `json:"op_name" bson:"op_name"`
	MachineType string  `json:"machine_type" bson:"machine_type"`
	SMV         float64 `json:"smv" bson:"smv"`
	Section     string  `json:"section" bson:"section"`
}

// Requirement pairs an operation with the number of machines the balancer
// decided it needs. Count is always at least 1.
type Requirement struct {
	Operation Operation `json:"operation" bson:"operation"`
	Count     int       `json:"count" bson:"count"`
}

// TotalSMV sums the SMV of all operations.
func TotalSMV(ops []Operation) float64 {
	var sum float64
	for _, op := range ops {
		sum += op.SMV
	}
	return sum
}

// =============================================================================
// Lanes
// =============================================================================

// Lane is one of the four parallel placement tracks of the floor.
type Lane string

// Lanes A and B face each other; so do C and D.
const (
	LaneA Lane = "A"
	LaneB Lane = "B"
	LaneC Lane = "C"
	LaneD Lane = "D"
)

// Lanes lists every lane in display order.
var Lanes = []Lane{LaneA, LaneB, LaneC, LaneD}

// Valid reports whether l is one of the four known lanes.
func (l Lane) Valid() bool {
	switch l {
	case LaneA, LaneB, LaneC, LaneD:
		return true
	}
	return false
}

// =============================================================================
// Machine Instances
// =============================================================================

// Vec3 is a 3-axis coordinate or orientation. X is the placement axis, Z the
// cross axis and Y points up.
type Vec3 struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// FixtureIndex is the MachineIndex of placed elements that do not belong to
// an operation: boards, inspection tables, buffers and pathways.
const FixtureIndex = -1

// MachineInstance is one placed unit of the floor plan.
type MachineInstance struct {
	ID           string    `json:"id" bson:"id"`
	Operation    Operation `json:"operation" bson:"operation"`
	Position     Vec3      `json:"position" bson:"position"`
	Rotation     Vec3      `json:"rotation" bson:"rotation"`
	Lane         Lane      `json:"lane" bson:"lane"`
	Section      string    `json:"section" bson:"section"`
	MachineIndex int       `json:"machineIndex" bson:"machine_index"`
	CenterModel  bool      `json:"centerModel,omitempty" bson:"center_model,omitempty"`
	IsInspection bool      `json:"isInspection,omitempty" bson:"is_inspection,omitempty"`
	IsTrolley    bool      `json:"isTrolley,omitempty" bson:"is_trolley,omitempty"`
}

// IsFixture reports whether the instance is a non-operation element.
func (m MachineInstance) IsFixture() bool { return m.MachineIndex == FixtureIndex }

// YawDegrees returns the yaw rotation in degrees, normalized to [0, 360).
func (m MachineInstance) YawDegrees() float64 {
	deg := math.Mod(m.Rotation.Y*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Sections returns the distinct section names of a layout in order of first
// appearance.
func Sections(instances []MachineInstance) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range instances {
		if !seen[m.Section] {
			seen[m.Section] = true
			out = append(out, m.Section)
		}
	}
	return out
}

// FilterSection returns the instances belonging to section. An empty section
// returns the input unchanged.
func FilterSection(instances []MachineInstance, section string) []MachineInstance {
	if section == "" {
		return instances
	}
	var out []MachineInstance
	for _, m := range instances {
		if m.Section == section {
			out = append(out, m)
		}
	}
	return out
}
