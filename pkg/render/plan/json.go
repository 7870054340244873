package plan

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/lineplanner/pkg/balance"
	"github.com/matzehuels/lineplanner/pkg/line"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	section string
	compact bool
}

// WithJSONSection keeps only instances of one section.
func WithJSONSection(s string) JSONOption { return func(r *jsonRenderer) { r.section = s } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

// RenderJSON encodes a layout document. Takt time is filled in from the
// layout's parameters when missing.
func RenderJSON(l line.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := l
	out.Instances = line.FilterSection(l.Instances, r.section)
	if out.Instances == nil {
		out.Instances = []line.MachineInstance{}
	}
	if out.TaktTime == 0 {
		out.TaktTime = balance.TaktTime(l.TargetOutput, l.WorkingHours)
	}

	if r.compact {
		return json.Marshal(out)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
