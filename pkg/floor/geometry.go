package floor

import (
	"math"
	"strings"

	"github.com/matzehuels/lineplanner/pkg/line"
)

// Tag identifies one of the recognized garment sections.
type Tag string

const (
	TagCuff     Tag = "cuff"
	TagSleeve   Tag = "sleeve"
	TagBack     Tag = "back"
	TagCollar   Tag = "collar"
	TagFront    Tag = "front"
	TagAssembly Tag = "assembly"
)

// Tags lists the recognized sections in processing order.
var Tags = []Tag{TagCuff, TagSleeve, TagBack, TagCollar, TagFront, TagAssembly}

// TagOf returns the first tag (in processing order) contained in a section
// name, case-insensitively.
func TagOf(section string) (Tag, bool) {
	s := strings.ToLower(section)
	for _, t := range Tags {
		if strings.Contains(s, string(t)) {
			return t, true
		}
	}
	return "", false
}

// group is a pair of facing lanes.
type group struct {
	left, right line.Lane
	boardZ      float64
}

var (
	groupAB = group{left: line.LaneA, right: line.LaneB, boardZ: -6.0}
	groupCD = group{left: line.LaneC, right: line.LaneD, boardZ: 0}
)

// groupOf returns the lane pair used by a parts section.
func groupOf(t Tag) group {
	if t == TagCollar || t == TagFront {
		return groupCD
	}
	return groupAB
}

// Cross-axis offset of every lane.
var laneZ = map[line.Lane]float64{
	line.LaneA: -5.2,
	line.LaneB: -6.8,
	line.LaneC: 0.75,
	line.LaneD: -0.75,
}

// LaneZ returns the cross-axis offset of a lane.
func LaneZ(l line.Lane) float64 { return laneZ[l] }

// Default yaw per lane: A and C face +Z, B and D face -Z.
var laneYaw = map[line.Lane]float64{
	line.LaneA: 0,
	line.LaneB: math.Pi,
	line.LaneC: 0,
	line.LaneD: math.Pi,
}

// Facing directions.
const (
	yawFront = -math.Pi / 2
	yawBack  = math.Pi / 2
)

// Placement constants along the X axis.
const (
	DefaultSpacing = 1.55
	SectionGap     = 1.5
	boardY         = 2.5
	boardClearance = 1.4
)

// Spacing returns the machine pitch along a lane for a section.
func Spacing(t Tag) float64 {
	switch t {
	case TagCuff, TagSleeve, TagFront, TagBack:
		return 1.4
	case TagCollar:
		return 1.6
	}
	return DefaultSpacing
}

// quarterTurnTypes get an extra +90 degrees of yaw.
var quarterTurnTypes = []string{"helper table", "rotary", "fusing"}

// yawFor returns the orientation of a machine in a lane. Type overrides
// apply on top of the lane default; forced, when non-nil, wins over both.
func yawFor(lane line.Lane, machineType string, forced *float64) float64 {
	if forced != nil {
		return *forced
	}
	yaw := laneYaw[lane]
	mt := strings.ToLower(machineType)
	if strings.Contains(mt, "inspection") {
		yaw = yawFront
	}
	for _, k := range quarterTurnTypes {
		if strings.Contains(mt, k) {
			yaw += math.Pi / 2
			break
		}
	}
	return yaw
}
