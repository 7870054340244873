package line

import (
	"time"

	"github.com/google/uuid"
)

// Default planning parameters applied to new records.
const (
	DefaultTargetOutput = 1000
	DefaultWorkingHours = 8.0
)

// Record is the persisted form of one planned line: the identifying line,
// style and cone numbers, the parsed operations, the generated layout and the
// parameters it was generated with.
type Record struct {
	ID            string            `json:"id" bson:"_id"`
	LineNo        string            `json:"lineNo" bson:"line_no"`
	StyleNo       string            `json:"styleNo" bson:"style_no"`
	ConeNo        string            `json:"coneNo" bson:"cone_no"`
	CreatedAt     time.Time         `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updatedAt" bson:"updated_at"`
	Operations    []Operation       `json:"operations" bson:"operations"`
	MachineLayout []MachineInstance `json:"machineLayout" bson:"machine_layout"`
	TotalSMV      float64           `json:"totalSMV" bson:"total_smv"`
	TargetOutput  int               `json:"targetOutput" bson:"target_output"`
	WorkingHours  float64           `json:"workingHours" bson:"working_hours"`
}

// LayoutFunc generates a layout for a set of operations and parameters.
// floor.Generate satisfies it.
type LayoutFunc func(ops []Operation, targetOutput int, workingHours float64) []MachineInstance

// NewRecord creates a record with a fresh ID, default parameters and a layout
// produced by layout.
func NewRecord(lineNo, styleNo, coneNo string, ops []Operation, layout LayoutFunc) *Record {
	now := time.Now().UTC()
	r := &Record{
		ID:           uuid.NewString(),
		LineNo:       lineNo,
		StyleNo:      styleNo,
		ConeNo:       coneNo,
		CreatedAt:    now,
		UpdatedAt:    now,
		Operations:   ops,
		TotalSMV:     TotalSMV(ops),
		TargetOutput: DefaultTargetOutput,
		WorkingHours: DefaultWorkingHours,
	}
	if layout != nil {
		r.MachineLayout = layout(ops, r.TargetOutput, r.WorkingHours)
	}
	return r
}

// Retune replaces the planning parameters and regenerates the layout
// wholesale. The previous layout is discarded, never merged.
func (r *Record) Retune(targetOutput int, workingHours float64, layout LayoutFunc) {
	r.TargetOutput = targetOutput
	r.WorkingHours = workingHours
	r.MachineLayout = layout(r.Operations, targetOutput, workingHours)
	r.UpdatedAt = time.Now().UTC()
}

// Params returns the target output and working hours the layout was
// generated with. Zero values are kept: they mean the layout is unbalanced.
func (r *Record) Params() (int, float64) {
	return r.TargetOutput, r.WorkingHours
}
