package line

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Operations
// =============================================================================

// MarshalOperations converts operations to indented JSON bytes.
func MarshalOperations(ops []Operation) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, ops); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteOperationsFile writes operations to a JSON file.
func WriteOperationsFile(ops []Operation, path string) error {
	return writeFile(path, ops)
}

// ReadOperations decodes a JSON array of operations from r.
func ReadOperations(r io.Reader) ([]Operation, error) {
	var ops []Operation
	if err := json.NewDecoder(r).Decode(&ops); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ops, nil
}

// ReadOperationsFile reads operations from a JSON file.
func ReadOperationsFile(path string) ([]Operation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadOperations(f)
}

// =============================================================================
// Layouts
// =============================================================================

// Layout is the serialized output of the floor generator together with the
// parameters it was computed for.
type Layout struct {
	TargetOutput int               `json:"target_output"`
	WorkingHours float64           `json:"working_hours"`
	TaktTime     float64           `json:"takt_time,omitempty"`
	Instances    []MachineInstance `json:"instances"`
}

// MarshalLayout converts a layout to indented JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout decodes layout JSON bytes.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	return writeFile(path, l)
}

// ReadLayoutFile reads a layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	l, err := UnmarshalLayout(data)
	if err != nil {
		return Layout{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return l, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeJSON(f, v)
}
