package flow

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/line"
)

func TestFromLayout(t *testing.T) {
	layout := floor.Generate([]line.Operation{{OpNo: "1", Section: "Sleeve"}}, 1000, 8)
	reqs := FromLayout(layout)

	counts := make(map[string]int)
	for _, r := range reqs {
		counts[r.Operation.Section+"/"+r.Operation.OpNo] = r.Count
		if r.Operation.MachineType == "Board" || r.Operation.MachineType == "Inspection" {
			t.Errorf("fixture leaked: %+v", r.Operation)
		}
	}
	if counts["Sleeve/S-5"] != 3 {
		t.Errorf("S-5 count = %d, want 3", counts["Sleeve/S-5"])
	}
	if counts["Assembly/A-1"] != 3 {
		t.Errorf("A-1 count = %d, want 3 (one per lane)", counts["Assembly/A-1"])
	}
	if reqs[0].Operation.OpNo != "S-1" {
		t.Errorf("first requirement = %s, want S-1", reqs[0].Operation.OpNo)
	}
}

func TestToDOT(t *testing.T) {
	reqs := []line.Requirement{
		{Operation: line.Operation{OpNo: "B-1", OpName: "Tack size Label", MachineType: "SNLS", SMV: 0.3, Section: "Back"}, Count: 1},
		{Operation: line.Operation{OpNo: "B-2", OpName: "Sew Main Label", MachineType: "SNLS", SMV: 0.45, Section: "Back"}, Count: 2},
		{Operation: line.Operation{OpNo: "A-1", OpName: "Join shoulder", MachineType: "SNLS", SMV: 0.6, Section: "Assembly"}, Count: 3},
	}
	dot := ToDOT(reqs, Options{Detailed: true})

	for _, want := range []string{
		"rankdir=LR",
		`label="Back"`,
		`"Back/B-1" -> "Back/B-2";`,
		`"Back/B-2" -> "Assembly/A-1" [style=dashed];`,
		`x2`,
		`SNLS, 0.45 min`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}

	only := ToDOT(reqs, Options{Section: "Assembly"})
	if strings.Contains(only, "Back") {
		t.Error("section filter leaked Back")
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT([]line.Requirement{
		{Operation: line.Operation{OpNo: "1", OpName: "Join", Section: "Assembly"}, Count: 1},
	}, Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("unexpected svg root: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
}
