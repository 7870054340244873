// Package balance converts operation cycle times into machine counts.
//
// Given a target output (pieces) and working hours, the takt time is the
// number of minutes available per piece:
//
//	takt = workingHours * 60 / targetOutput
//
// An operation with standard minute value smv then needs
// max(1, ceil(smv / takt)) machines to keep pace with the line. Invalid
// parameters never block layout generation: they degrade to one machine per
// operation.
package balance

import (
	"math"

	"github.com/matzehuels/lineplanner/pkg/line"
)

// TaktTime returns the minutes available per unit of output, or 0 when the
// parameters do not allow balancing.
func TaktTime(targetOutput int, workingHours float64) float64 {
	if targetOutput <= 0 || workingHours <= 0 {
		return 0
	}
	return workingHours * 60 / float64(targetOutput)
}

// Count returns the number of machines one operation needs at the given
// takt time. Unknown SMV (0) and invalid takt both yield 1.
func Count(smv, takt float64) int {
	if takt <= 0 || smv <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(smv/takt)))
}

// Balance returns one requirement per operation, in input order. It is a
// pure function; callers replace previous results wholesale.
func Balance(ops []line.Operation, targetOutput int, workingHours float64) []line.Requirement {
	takt := TaktTime(targetOutput, workingHours)
	reqs := make([]line.Requirement, len(ops))
	for i, op := range ops {
		reqs[i] = line.Requirement{Operation: op, Count: Count(op.SMV, takt)}
	}
	return reqs
}
