package balance

import (
	"math"
	"testing"

	"github.com/matzehuels/lineplanner/pkg/line"
)

func sampleOps() []line.Operation {
	return []line.Operation{
		{OpNo: "1", MachineType: "SNLS", SMV: 0.6, Section: "Assembly"},
		{OpNo: "2", MachineType: "SNLS", SMV: 1.04, Section: "Assembly"},
		{OpNo: "3", MachineType: "Iron Table", SMV: 0.25, Section: "Back"},
		{OpNo: "4", MachineType: "Manual", SMV: 0, Section: "Back"},
	}
}

func TestTaktTime(t *testing.T) {
	tests := []struct {
		target int
		hours  float64
		want   float64
	}{
		{1000, 8, 0.48},
		{480, 8, 1},
		{0, 8, 0},
		{1000, 0, 0},
		{-5, 8, 0},
	}
	for _, tt := range tests {
		if got := TaktTime(tt.target, tt.hours); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("TaktTime(%d, %v) = %v, want %v", tt.target, tt.hours, got, tt.want)
		}
	}
}

func TestBalance(t *testing.T) {
	reqs := Balance(sampleOps(), 1000, 8)
	want := []int{2, 3, 1, 1}
	if len(reqs) != len(want) {
		t.Fatalf("len = %d, want %d", len(reqs), len(want))
	}
	for i, w := range want {
		if reqs[i].Count != w {
			t.Errorf("reqs[%d].Count = %d, want %d", i, reqs[i].Count, w)
		}
		if reqs[i].Operation.OpNo != sampleOps()[i].OpNo {
			t.Errorf("reqs[%d] out of order", i)
		}
	}
}

func TestBalanceGuard(t *testing.T) {
	tests := []struct {
		name   string
		target int
		hours  float64
	}{
		{"zero target", 0, 8},
		{"zero hours", 1000, 0},
		{"negative target", -10, 8},
		{"negative hours", 1000, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range Balance(sampleOps(), tt.target, tt.hours) {
				if r.Count != 1 {
					t.Errorf("%s count = %d, want 1", r.Operation.OpNo, r.Count)
				}
			}
		})
	}
}

func TestBalanceTaktMonotonic(t *testing.T) {
	ops := sampleOps()
	prev := Balance(ops, 100, 8)
	for target := 150; target <= 5000; target += 50 {
		cur := Balance(ops, target, 8)
		for i := range cur {
			if cur[i].Count < prev[i].Count {
				t.Fatalf("target %d: op %s count dropped %d -> %d", target, ops[i].OpNo, prev[i].Count, cur[i].Count)
			}
		}
		prev = cur
	}
}

func TestBalanceEmpty(t *testing.T) {
	if got := Balance(nil, 1000, 8); len(got) != 0 {
		t.Errorf("Balance(nil) = %v", got)
	}
}

func TestSummarize(t *testing.T) {
	reqs := Balance(sampleOps(), 1000, 8)
	s := Summarize(reqs, 1000, 8)

	if s.TotalMachines != 7 {
		t.Errorf("TotalMachines = %d, want 7", s.TotalMachines)
	}
	if math.Abs(s.TotalSMV-1.89) > 1e-9 {
		t.Errorf("TotalSMV = %v, want 1.89", s.TotalSMV)
	}
	if len(s.Sections) != 2 || s.Sections[0].Name != "Assembly" || s.Sections[1].Name != "Back" {
		t.Fatalf("Sections = %+v", s.Sections)
	}
	if s.Sections[0].Machines != 5 || s.Sections[1].Operations != 2 {
		t.Errorf("Sections = %+v", s.Sections)
	}
	if s.Categories[line.CategorySNLS] != 5 || s.Categories[line.CategoryIron] != 1 || s.Categories[line.CategoryDefault] != 1 {
		t.Errorf("Categories = %v", s.Categories)
	}
	if e := s.Efficiency(); e <= 0 || e > 1 {
		t.Errorf("Efficiency = %v, want (0,1]", e)
	}
}

func TestEfficiencyUnbalanced(t *testing.T) {
	s := Summarize(Balance(sampleOps(), 0, 8), 0, 8)
	if s.Efficiency() != 0 {
		t.Errorf("Efficiency = %v, want 0", s.Efficiency())
	}
}
