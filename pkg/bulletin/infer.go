package bulletin

import (
	"strconv"
	"strings"
)

// InferenceRule maps description keywords to a machine type.
type InferenceRule struct {
	Keywords    []string
	MachineType string
}

// DefaultMachineType is used when no inference rule matches.
const DefaultMachineType = "Manual"

// InferenceRules repairs blank machine types from the operation
// description. Rules are tried in order and the first keyword hit wins.
var InferenceRules = []InferenceRule{
	{Keywords: []string{"check", "match"}, MachineType: "Inspection"},
	{Keywords: []string{"iron", "press"}, MachineType: "Iron"},
	{Keywords: []string{"table"}, MachineType: "Table"},
}

// InferMachineType returns the machine type implied by an operation
// description, falling back to [DefaultMachineType].
func InferMachineType(opName string) string {
	desc := strings.ToLower(opName)
	for _, rule := range InferenceRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.MachineType
			}
		}
	}
	return DefaultMachineType
}

// ParseSMV converts a cell into a standard minute value. Numbers pass
// through; text is stripped of everything except digits and decimal points
// and its leading number is parsed. Anything unparseable yields 0, as do
// negative numbers.
func ParseSMV(v any) float64 {
	if n, ok := cellNumber(v); ok {
		return max(n, 0)
	}
	s, ok := v.(string)
	if !ok {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return leadingFloat(b.String())
}

// leadingFloat parses the longest numeric prefix of s holding at most one
// decimal point: "1.2.3" reads as 1.2.
func leadingFloat(s string) float64 {
	end, dot := 0, false
	for end < len(s) {
		if s[end] == '.' {
			if dot {
				break
			}
			dot = true
		}
		end++
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
