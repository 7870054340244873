package bulletin

import "testing"

func TestIsHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		row  []any
		want bool
	}{
		{"standard", []any{"SL #", "Operation Description", "Machine", "SMV"}, true},
		{"two fields", []any{"Code", "Machine Type"}, true},
		{"single field twice", []any{"SMV", "SMV"}, false},
		{"blank cells", []any{"", "", "", ""}, false},
		{"title row", []any{"Operation Bulletin - Style 4411", "", ""}, false},
		{"numbers", []any{1, 2.5, "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHeaderRow(tt.row); got != tt.want {
				t.Errorf("IsHeaderRow(%v) = %v, want %v", tt.row, got, tt.want)
			}
		})
	}
}

func TestFindHeaderScanLimit(t *testing.T) {
	grid := make(Grid, HeaderScanRows)
	for i := range grid {
		grid[i] = []any{"noise"}
	}
	grid = append(grid, []any{"SL #", "Machine"})
	if _, err := FindHeader(grid); err == nil {
		t.Error("header past the scan limit should not be found")
	}

	grid[HeaderScanRows-1] = []any{"SL #", "Machine"}
	idx, err := FindHeader(grid)
	if err != nil || idx != HeaderScanRows-1 {
		t.Errorf("FindHeader = %d, %v", idx, err)
	}
}

func TestResolveColumns(t *testing.T) {
	cols, err := ResolveColumns([]any{"", "S.No", "Operation Name", "", "M/C", "SMV (min)"})
	if err != nil {
		t.Fatalf("ResolveColumns: %v", err)
	}
	want := Columns{OpNo: 1, OpName: 2, MachineType: 4, SMV: 5, Section: NotFound}
	if cols != want {
		t.Errorf("cols = %+v, want %+v", cols, want)
	}
}

func TestClassify(t *testing.T) {
	cols := Columns{OpNo: 0, OpName: 1, MachineType: 2, SMV: 3, Section: NotFound}
	tests := []struct {
		name    string
		row     []any
		kind    RowKind
		section string
	}{
		{"keyword header", []any{"", "Collar", "", ""}, RowSection, "Collar"},
		{"keyword in op column", []any{"BACK PART", "", "", ""}, RowSection, "Back"},
		{"operation mentions keyword", []any{"4", "Top stitch back yoke", "SNLS", 0.4}, RowOperation, ""},
		{"keyword with smv only", []any{"", "Front placket", "", 0.3}, RowNoise, ""},
		{"letter op code", []any{"Pocket", "", "", ""}, RowOperation, ""},
		{"letter code mentioning section", []any{"A", "Front placket fold", "Helper Table", ""}, RowOperation, ""},
		{"subtotal naming section", []any{"Sub Total Collar", "", "", ""}, RowSection, "Collar"},
		{"bare subtotal", []any{"Sub Total", "", "", ""}, RowTotal, ""},
		{"numeric first cell", []any{"7", "", "", ""}, RowOperation, ""},
		{"subtotal", []any{"Sub Total", "", "", 2.5}, RowTotal, ""},
		{"total uppercase", []any{"GRAND TOTAL", "", "", ""}, RowTotal, ""},
		{"blank", []any{"", "", "", ""}, RowNoise, ""},
		{"short row", []any{}, RowNoise, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, section := Classify(tt.row, cols)
			if kind != tt.kind || section != tt.section {
				t.Errorf("Classify(%v) = %v %q, want %v %q", tt.row, kind, section, tt.kind, tt.section)
			}
		})
	}
}

func TestClassifyLegacyHeader(t *testing.T) {
	cols := Columns{OpNo: 1, OpName: 2, MachineType: 3, SMV: 4, Section: NotFound}
	tests := []struct {
		name    string
		row     []any
		kind    RowKind
		section string
	}{
		{"label in first cell", []any{"Pocket", "", "", "", ""}, RowSection, "Pocket"},
		{"total label", []any{"Total", "", "", "", ""}, RowTotal, ""},
		{"op number present", []any{"Pocket", "3", "", "", 0.4}, RowOperation, ""},
		{"numeric label", []any{"12", "", "", "", ""}, RowNoise, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, section := Classify(tt.row, cols)
			if kind != tt.kind || section != tt.section {
				t.Errorf("Classify(%v) = %v %q, want %v %q", tt.row, kind, section, tt.kind, tt.section)
			}
		})
	}
}

func TestInferMachineType(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Check collar points", "Inspection"},
		{"Match stripes", "Inspection"},
		{"Iron placket", "Iron"},
		{"Press seam open", "Iron"},
		{"Fold on table", "Table"},
		{"Trim threads", DefaultMachineType},
		{"", DefaultMachineType},
	}
	for _, tt := range tests {
		if got := InferMachineType(tt.desc); got != tt.want {
			t.Errorf("InferMachineType(%q) = %q, want %q", tt.desc, got, tt.want)
		}
	}
}

func TestParseSMV(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{0.6, 0.6},
		{2, 2},
		{-1.5, 0},
		{"0.45", 0.45},
		{" 1.2 min", 1.2},
		{"1.2.3", 1.2},
		{"n/a", 0},
		{".", 0},
		{"", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tt := range tests {
		if got := ParseSMV(tt.in); got != tt.want {
			t.Errorf("ParseSMV(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
