package bulletin

import (
	"github.com/matzehuels/lineplanner/pkg/errors"
)

// HeaderScanRows is how many leading rows are searched for the header.
const HeaderScanRows = 20

// NotFound marks a column that could not be resolved.
const NotFound = -1

// Columns holds the resolved column index of every logical field, or
// [NotFound].
type Columns struct {
	OpNo        int
	OpName      int
	MachineType int
	SMV         int
	Section     int
}

// Index returns the column index resolved for f.
func (c Columns) Index(f Field) int {
	switch f {
	case FieldOpNo:
		return c.OpNo
	case FieldOpName:
		return c.OpName
	case FieldMachineType:
		return c.MachineType
	case FieldSMV:
		return c.SMV
	case FieldSection:
		return c.Section
	}
	return NotFound
}

// FindHeader returns the index of the first row within [HeaderScanRows]
// that qualifies as a header row.
func FindHeader(grid Grid) (int, error) {
	limit := min(HeaderScanRows, len(grid))
	for i := 0; i < limit; i++ {
		if IsHeaderRow(grid[i]) {
			return i, nil
		}
	}
	return NotFound, errors.New(errors.ErrCodeHeaderNotFound,
		"could not find header row in the first %d rows, make sure the sheet has column headers", HeaderScanRows)
}

// IsHeaderRow reports whether at least two cells of row match two different
// logical fields.
func IsHeaderRow(row []any) bool {
	var seen [][]Field
	for _, c := range row {
		fields := matchedFields(cellText(c))
		if len(fields) == 0 {
			continue
		}
		for _, prev := range seen {
			if distinctPair(prev, fields) {
				return true
			}
		}
		seen = append(seen, fields)
	}
	return false
}

// distinctPair reports whether some field of a and some field of b differ,
// so the two cells can be assigned to two different fields.
func distinctPair(a, b []Field) bool {
	for _, x := range a {
		for _, y := range b {
			if x != y {
				return true
			}
		}
	}
	return false
}

// ResolveColumns maps each logical field to the first header cell that
// matches one of its aliases. The operation number and machine type
// columns are mandatory.
func ResolveColumns(header []any) (Columns, error) {
	cols := Columns{
		OpNo:        resolve(header, FieldOpNo),
		OpName:      resolve(header, FieldOpName),
		MachineType: resolve(header, FieldMachineType),
		SMV:         resolve(header, FieldSMV),
		Section:     resolve(header, FieldSection),
	}
	for _, f := range []Field{FieldOpNo, FieldMachineType} {
		if cols.Index(f) == NotFound {
			return cols, errors.New(errors.ErrCodeRequiredColumnMissing, "could not find %s column", f.Label())
		}
	}
	return cols, nil
}

func resolve(header []any, f Field) int {
	for i, c := range header {
		if matchesField(cellText(c), f) {
			return i
		}
	}
	return NotFound
}
