package floor

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lineplanner/pkg/line"
)

//go:embed templates.toml
var defaultTemplatesTOML []byte

// TemplateOp is one operation of a canonical section sequence.
type TemplateOp struct {
	Code    string  `toml:"code"`
	Name    string  `toml:"name"`
	Machine string  `toml:"machine"`
	SMV     float64 `toml:"smv"`
}

// Bank is a run of identical auxiliary machines in the assembly area.
type Bank struct {
	Code    string  `toml:"code"`
	Machine string  `toml:"machine"`
	Count   int     `toml:"count"`
	Spacing float64 `toml:"spacing"`
}

// TemplateSet holds the canonical sequences for every section tag plus the
// assembly auxiliary machines.
type TemplateSet struct {
	Version  string `toml:"version"`
	Sections map[string]struct {
		Operations []TemplateOp `toml:"operations"`
	} `toml:"sections"`
	Assembly struct {
		Helpers Bank   `toml:"helpers"`
		Bank    []Bank `toml:"bank"`
	} `toml:"assembly"`
}

var defaultTemplates = mustParseTemplates(defaultTemplatesTOML)

// DefaultTemplates returns the embedded template set.
func DefaultTemplates() *TemplateSet { return defaultTemplates }

// ParseTemplates decodes a TOML template set. Every section tag must be
// present with at least one operation.
func ParseTemplates(data []byte) (*TemplateSet, error) {
	var ts TemplateSet
	if _, err := toml.Decode(string(data), &ts); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	for _, tag := range Tags {
		if len(ts.Sections[string(tag)].Operations) == 0 {
			return nil, fmt.Errorf("templates: section %q has no operations", tag)
		}
	}
	if ts.Assembly.Helpers.Spacing <= 0 {
		ts.Assembly.Helpers.Spacing = 2.0
	}
	return &ts, nil
}

// LoadTemplates reads a template set from a TOML file.
func LoadTemplates(path string) (*TemplateSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTemplates(data)
}

func mustParseTemplates(data []byte) *TemplateSet {
	ts, err := ParseTemplates(data)
	if err != nil {
		panic(err)
	}
	return ts
}

// Operations returns the canonical sequence for tag as operations belonging
// to section. Machine type falls back to the operation name and SMV to 1.0.
func (ts *TemplateSet) Operations(tag Tag, section string) []line.Operation {
	tops := ts.Sections[string(tag)].Operations
	ops := make([]line.Operation, len(tops))
	for i, t := range tops {
		ops[i] = line.Operation{
			OpNo:        t.Code,
			OpName:      t.Name,
			MachineType: t.Machine,
			SMV:         t.SMV,
			Section:     section,
		}
		if ops[i].MachineType == "" {
			ops[i].MachineType = t.Name
		}
		if ops[i].SMV <= 0 {
			ops[i].SMV = 1.0
		}
	}
	return ops
}
