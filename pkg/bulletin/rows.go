package bulletin

import (
	"strconv"
	"strings"
	"unicode"
)

// RowKind classifies a bulletin row below the header.
type RowKind int

const (
	RowNoise RowKind = iota
	RowSection
	RowTotal
	RowOperation
)

func (k RowKind) String() string {
	switch k {
	case RowSection:
		return "section"
	case RowTotal:
		return "total"
	case RowOperation:
		return "operation"
	}
	return "noise"
}

// SectionKeyword pairs a lowercase keyword with the canonical section name
// it introduces.
type SectionKeyword struct {
	Keyword string
	Name    string
}

// SectionKeywords are checked in order against the text of a candidate
// section header row.
var SectionKeywords = []SectionKeyword{
	{"collar", "Collar"},
	{"cuff", "Cuff"},
	{"sleeve", "Sleeve"},
	{"front", "Front"},
	{"back", "Back"},
	{"assembly", "Assembly"},
}

// GeneralSection is the section assigned before any section header is seen.
const GeneralSection = "General"

// Classify determines the kind of a data row. For section rows it also
// returns the section name.
func Classify(row []any, cols Columns) (RowKind, string) {
	if name, ok := sectionHeader(row, cols); ok {
		return RowSection, name
	}
	if isTotalRow(row) {
		return RowTotal, ""
	}
	if !isBlank(at(row, cols.OpNo)) {
		return RowOperation, ""
	}
	return RowNoise, ""
}

// isTotalRow reports whether the first cell labels a total or subtotal.
func isTotalRow(row []any) bool {
	return isTotalLabel(cellText(at(row, 0)))
}

func isTotalLabel(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "total") || strings.Contains(s, "sub total")
}

// sectionHeader recognizes keyword section headers and, as a fallback,
// sparse rows whose only text is a label in the first cell.
func sectionHeader(row []any, cols Columns) (string, bool) {
	if hasOperationNumber(row, cols) || hasPositiveSMV(row, cols) {
		return "", false
	}

	text := joinRow(row)
	for _, sk := range SectionKeywords {
		if strings.Contains(text, sk.Keyword) {
			return sk.Name, true
		}
	}

	first := trimmed(row, 0)
	if first == "" || trimmed(row, 1) != "" || looksNumeric(first) || isTotalLabel(first) {
		return "", false
	}
	empty := 0
	for _, c := range row {
		if isBlank(c) {
			empty++
		}
	}
	if float64(empty) >= float64(len(row))*0.5 {
		return first, true
	}
	return "", false
}

// hasOperationNumber reports whether the op number cell holds something that
// plausibly numbers an operation: non-empty and not "0". Digit-free labels
// that name a section ("COLLAR", "BACK PART") or a total ("Sub Total Collar")
// are not operation numbers; letter codes such as "A" are.
func hasOperationNumber(row []any, cols Columns) bool {
	s := trimmed(row, cols.OpNo)
	if s == "" || s == "0" {
		return false
	}
	if strings.IndexFunc(s, unicode.IsDigit) >= 0 {
		return true
	}
	return !isTotalLabel(s) && !namesSection(s)
}

// namesSection reports whether s contains one of the section keywords.
func namesSection(s string) bool {
	s = strings.ToLower(s)
	for _, sk := range SectionKeywords {
		if strings.Contains(s, sk.Keyword) {
			return true
		}
	}
	return false
}

// hasPositiveSMV reports whether the SMV cell holds a number above zero.
func hasPositiveSMV(row []any, cols Columns) bool {
	if cols.SMV == NotFound {
		return false
	}
	v := at(row, cols.SMV)
	if n, ok := cellNumber(v); ok {
		return n > 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(cellText(v)), 64)
	return err == nil && f > 0
}
