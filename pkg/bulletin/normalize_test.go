package bulletin

import (
	"testing"

	"github.com/matzehuels/lineplanner/pkg/errors"
)

var header = []any{"SL #", "Operation Description", "Machine", "Remarks", "SMV"}

func TestNormalizeSingleRow(t *testing.T) {
	grid := Grid{
		header,
		{"1", "Join shoulder", "SNLS", "", "0.6"},
	}
	ops, err := Normalize(grid)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("len(ops) = %d, want 1", len(ops))
	}
	op := ops[0]
	if op.OpNo != "1" || op.OpName != "Join shoulder" || op.MachineType != "SNLS" || op.SMV != 0.6 {
		t.Errorf("op = %+v", op)
	}
	if op.Section != GeneralSection {
		t.Errorf("Section = %q, want %q", op.Section, GeneralSection)
	}
}

func TestNormalizeSectionHeaders(t *testing.T) {
	grid := Grid{
		{"Style 4411", "", "", "", ""},
		header,
		{"", "Collar", "", "", ""},
		{"1", "Run collar", "SNLS", "", 0.45},
		{"2", "Trim collar", "", "", "0.30"},
		{"Sub Total", "", "", "", 0.75},
		{"", "FRONT PART", "", "", ""},
		{"1", "Attach front label", "SNLS", "", 0.5},
		{"2", "Iron placket", "", "", "0.2 min"},
		{"", "", "", "", ""},
	}
	ops, err := Normalize(grid)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(ops) != 4 {
		t.Fatalf("len(ops) = %d, want 4: %+v", len(ops), ops)
	}

	want := []struct {
		opNo, machine, section string
		smv                    float64
	}{
		{"1", "SNLS", "Collar", 0.45},
		{"2", "Manual", "Collar", 0.30},
		{"1", "SNLS", "Front", 0.5},
		{"2", "Iron", "Front", 0.2},
	}
	for i, w := range want {
		op := ops[i]
		if op.OpNo != w.opNo || op.MachineType != w.machine || op.Section != w.section || op.SMV != w.smv {
			t.Errorf("ops[%d] = %+v, want %+v", i, op, w)
		}
	}
}

func TestNormalizeOperationMentioningSection(t *testing.T) {
	grid := Grid{
		header,
		{"", "Cuff", "", "", ""},
		{"3", "Attach front of cuff", "SNLS", "", 0.4},
	}
	ops, err := Normalize(grid)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(ops) != 1 || ops[0].Section != "Cuff" || ops[0].OpName != "Attach front of cuff" {
		t.Errorf("ops = %+v", ops)
	}
}

func TestNormalizeLegacySectionHeader(t *testing.T) {
	grid := Grid{
		{"Remarks", "SL #", "Operation Description", "Machine", "SMV"},
		{"Pocket", "", "", "", ""},
		{"", "1", "Hem pocket", "SNLS", 0.3},
	}
	ops, err := Normalize(grid)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(ops) != 1 || ops[0].Section != "Pocket" {
		t.Errorf("ops = %+v, want section Pocket", ops)
	}
}

func TestNormalizeSubtotalNamingSection(t *testing.T) {
	grid := Grid{
		header,
		{"1", "Hem", "SNLS", "", 0.5},
		{"Sub Total Collar", "", "", "", ""},
		{"2", "Run collar", "SNLS", "", 0.4},
	}
	ops, err := Normalize(grid)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(ops) = %d, want 2", len(ops))
	}
	if ops[0].Section != GeneralSection || ops[1].Section != "Collar" {
		t.Errorf("sections = %q, %q, want %q, Collar", ops[0].Section, ops[1].Section, GeneralSection)
	}
}

func TestNormalizeLetterCodesKept(t *testing.T) {
	grid := Grid{
		header,
		{"A", "Front placket fold", "Helper Table", "", ""},
		{"B", "Attach label", "SNLS", "", "0.3"},
	}
	ops, err := Normalize(grid)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(ops) = %d, want 2: %+v", len(ops), ops)
	}
	for _, op := range ops {
		if op.Section != GeneralSection {
			t.Errorf("op %s section = %q, want %q", op.OpNo, op.Section, GeneralSection)
		}
	}
	if ops[0].OpNo != "A" || ops[0].SMV != 0 {
		t.Errorf("ops[0] = %+v", ops[0])
	}
}

func TestNormalizeTotalRowExcluded(t *testing.T) {
	grid := Grid{
		header,
		{"1", "Join shoulder", "SNLS", "", 0.6},
		{"Sub Total", "Join shoulder", "SNLS", "", 0.6},
		{"TOTAL", "", "", "", 0.6},
	}
	ops, err := Normalize(grid)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(ops) != 1 {
		t.Errorf("len(ops) = %d, want 1", len(ops))
	}
	for _, op := range ops {
		if op.OpNo == "Sub Total" || op.OpNo == "TOTAL" {
			t.Errorf("total row emitted: %+v", op)
		}
	}
}

func TestNormalizeSectionColumnOverrides(t *testing.T) {
	grid := Grid{
		{"Op No", "Operation", "M/C Type", "SAM", "Dept"},
		{"", "Sleeve", "", "", ""},
		{"S1", "Hem sleeve", "SNLS", 0.53, "Sleeve Line 2"},
		{"S2", "Bartack placket", "Bartack M/C", 0.4, ""},
	}
	ops, err := Normalize(grid)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if ops[0].Section != "Sleeve Line 2" {
		t.Errorf("ops[0].Section = %q, want column value", ops[0].Section)
	}
	if ops[1].Section != "Sleeve" {
		t.Errorf("ops[1].Section = %q, want current section", ops[1].Section)
	}
}

func TestNormalizeNumericOpNo(t *testing.T) {
	grid := Grid{
		header,
		{12.0, "Set sleeve", "SNLS", "", 1.04},
	}
	ops, err := Normalize(grid)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if ops[0].OpNo != "12" {
		t.Errorf("OpNo = %q, want 12", ops[0].OpNo)
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		code errors.Code
	}{
		{
			name: "empty grid",
			grid: nil,
			code: errors.ErrCodeHeaderNotFound,
		},
		{
			name: "no header",
			grid: Grid{{"foo", "bar"}, {"1", "2"}},
			code: errors.ErrCodeHeaderNotFound,
		},
		{
			name: "missing machine column",
			grid: Grid{{"SL #", "Description", "SMV"}, {"1", "Join", 0.5}},
			code: errors.ErrCodeRequiredColumnMissing,
		},
		{
			name: "missing op number column",
			grid: Grid{{"Description", "Machine", "SMV"}, {"Join", "SNLS", 0.5}},
			code: errors.ErrCodeRequiredColumnMissing,
		},
		{
			name: "no operations",
			grid: Grid{header, {"", "Collar", "", "", ""}, {"Total", "", "", "", 3}},
			code: errors.ErrCodeNoOperations,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, err := Normalize(tt.grid)
			if err == nil {
				t.Fatalf("expected error, got %d ops", len(ops))
			}
			if ops != nil {
				t.Errorf("partial result returned: %+v", ops)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
			if !errors.IsParseFatal(err) {
				t.Errorf("error should be parse-fatal: %v", err)
			}
		})
	}
}

func TestRequiredColumnMessageNamesField(t *testing.T) {
	_, err := Normalize(Grid{{"SL #", "Description", "SMV"}, {"1", "Join", 0.5}})
	if got := errors.UserMessage(err); got != "could not find machine type column" {
		t.Errorf("UserMessage = %q", got)
	}
}
