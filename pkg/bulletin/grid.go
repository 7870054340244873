package bulletin

import (
	"fmt"
	"strconv"
	"strings"
)

// Grid is a raw 2-D table of cell values as produced by a spreadsheet
// reader. Cells are strings, numbers (any Go integer or float type), bools
// or nil. Rows may have different lengths.
type Grid [][]any

// cellText returns the display text of a cell. Numbers are formatted
// without trailing zeros so that an op number stored as 12.0 reads "12".
func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case int32:
		return strconv.FormatInt(int64(c), 10)
	case bool:
		return strconv.FormatBool(c)
	case fmt.Stringer:
		return c.String()
	default:
		return fmt.Sprint(c)
	}
}

// cellNumber returns the numeric value of a cell when it holds a number.
func cellNumber(v any) (float64, bool) {
	switch c := v.(type) {
	case float64:
		return c, true
	case float32:
		return float64(c), true
	case int:
		return float64(c), true
	case int64:
		return float64(c), true
	case int32:
		return float64(c), true
	}
	return 0, false
}

// at returns the cell at index i, or nil when the row is too short or i is
// negative.
func at(row []any, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

// trimmed returns the trimmed text of the cell at index i.
func trimmed(row []any, i int) string {
	return strings.TrimSpace(cellText(at(row, i)))
}

// isBlank reports whether a cell has no visible content.
func isBlank(v any) bool {
	return strings.TrimSpace(cellText(v)) == ""
}

// looksNumeric reports whether s parses as a plain number.
func looksNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// joinRow concatenates all cell texts of a row, space separated and
// lowercased.
func joinRow(row []any) string {
	parts := make([]string, len(row))
	for i, c := range row {
		parts[i] = cellText(c)
	}
	return strings.ToLower(strings.Join(parts, " "))
}
