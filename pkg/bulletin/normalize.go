package bulletin

import (
	"strings"

	"github.com/matzehuels/lineplanner/pkg/errors"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// Normalize converts a raw grid into an ordered list of operations.
//
// It fails with HEADER_NOT_FOUND when no header row is found,
// REQUIRED_COLUMN_MISSING when the operation number or machine type column
// is absent and NO_OPERATIONS_FOUND when no data row survives
// classification.
func Normalize(grid Grid) ([]line.Operation, error) {
	headerIdx, err := FindHeader(grid)
	if err != nil {
		return nil, err
	}
	cols, err := ResolveColumns(grid[headerIdx])
	if err != nil {
		return nil, err
	}

	var ops []line.Operation
	section := GeneralSection
	for _, row := range grid[headerIdx+1:] {
		kind, name := Classify(row, cols)
		switch kind {
		case RowSection:
			section = name
		case RowOperation:
			ops = append(ops, extract(row, cols, section))
		}
	}

	if len(ops) == 0 {
		return nil, errors.New(errors.ErrCodeNoOperations, "no valid operations found in the sheet")
	}
	return ops, nil
}

// extract builds an operation from a classified operation row.
func extract(row []any, cols Columns, section string) line.Operation {
	op := line.Operation{
		OpNo:        trimmed(row, cols.OpNo),
		OpName:      trimmed(row, cols.OpName),
		MachineType: trimmed(row, cols.MachineType),
		Section:     section,
	}
	if op.MachineType == "" {
		op.MachineType = InferMachineType(op.OpName)
	}
	if cols.SMV != NotFound {
		op.SMV = ParseSMV(at(row, cols.SMV))
	}
	if s := strings.TrimSpace(cellText(at(row, cols.Section))); cols.Section != NotFound && s != "" {
		op.Section = s
	}
	return op
}
