package bulletin

import (
	"strings"

	"github.com/matzehuels/lineplanner/pkg/line"
)

// Field is a logical column of an operation bulletin.
type Field string

// Logical fields recognized in bulletin headers.
const (
	FieldOpNo        Field = "op_no"
	FieldOpName      Field = "op_name"
	FieldMachineType Field = "machine_type"
	FieldSMV         Field = "smv"
	FieldSection     Field = "section"
)

// Fields lists the logical fields in resolution order.
var Fields = []Field{FieldOpNo, FieldOpName, FieldMachineType, FieldSMV, FieldSection}

// Label returns the human-readable column name used in error messages.
func (f Field) Label() string {
	switch f {
	case FieldOpNo:
		return "operation number"
	case FieldOpName:
		return "operation name"
	case FieldMachineType:
		return "machine type"
	case FieldSMV:
		return "SMV"
	case FieldSection:
		return "section"
	}
	return string(f)
}

// Aliases maps each field to the header spellings accepted for it. Matching
// happens on normalized text (see [line.NormalizeKey]) in both directions:
// a header matches when it contains an alias or an alias contains it.
var Aliases = map[Field][]string{
	FieldOpNo: {
		"op_no", "operation_no", "op no", "operation no", "opno",
		"sl #", "sl#", "sl no", "sno", "s.no", "s no",
		"sr", "sr.", "sr no", "serial", "code", "seq", "seq no",
	},
	FieldOpName: {
		"op_name", "operation_name", "op name", "operation name", "opname",
		"description", "operation description", "op desc", "operation",
		"process", "operation list",
	},
	FieldMachineType: {
		"machine_type", "machine type", "machinetype", "machine",
		"mc type", "mc", "m/c", "m/c type", "equipment", "machinery",
	},
	FieldSMV: {
		"smv", "sam", "standard_minute", "time", "std min", "standard minute",
		"standard time", "cycle time", "smv (min)", "sam (min)",
	},
	FieldSection: {
		"section", "sect", "department", "dept", "area", "zone",
		"component", "garment part",
	},
}

// normalizedAliases holds Aliases passed through line.NormalizeKey, built
// once at init.
var normalizedAliases = func() map[Field][]string {
	out := make(map[Field][]string, len(Aliases))
	for f, list := range Aliases {
		norm := make([]string, 0, len(list))
		for _, a := range list {
			if k := line.NormalizeKey(a); k != "" {
				norm = append(norm, k)
			}
		}
		out[f] = norm
	}
	return out
}()

// matchesField reports whether a header cell names the given field. Empty
// cells never match.
func matchesField(cell string, f Field) bool {
	key := line.NormalizeKey(cell)
	if key == "" {
		return false
	}
	for _, alias := range normalizedAliases[f] {
		if strings.Contains(key, alias) || strings.Contains(alias, key) {
			return true
		}
	}
	return false
}

// matchedFields returns every field a header cell could name.
func matchedFields(cell string) []Field {
	var out []Field
	for _, f := range Fields {
		if matchesField(cell, f) {
			out = append(out, f)
		}
	}
	return out
}
