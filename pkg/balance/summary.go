package balance

import (
	"github.com/matzehuels/lineplanner/pkg/line"
)

// Summary aggregates a balanced line.
type Summary struct {
	TargetOutput  int                   `json:"target_output"`
	WorkingHours  float64               `json:"working_hours"`
	TaktTime      float64               `json:"takt_time"`
	TotalSMV      float64               `json:"total_smv"`
	TotalMachines int                   `json:"total_machines"`
	Sections      []SectionSummary      `json:"sections"`
	Categories    map[line.Category]int `json:"categories"`
}

// SectionSummary aggregates the requirements of one section.
type SectionSummary struct {
	Name       string  `json:"name"`
	Operations int     `json:"operations"`
	Machines   int     `json:"machines"`
	SMV        float64 `json:"smv"`
}

// Summarize aggregates requirements per section (in first-seen order) and
// per machine category.
func Summarize(reqs []line.Requirement, targetOutput int, workingHours float64) Summary {
	s := Summary{
		TargetOutput: targetOutput,
		WorkingHours: workingHours,
		TaktTime:     TaktTime(targetOutput, workingHours),
		Categories:   make(map[line.Category]int),
	}
	index := make(map[string]int)
	for _, r := range reqs {
		s.TotalSMV += r.Operation.SMV
		s.TotalMachines += r.Count
		s.Categories[line.CategoryOf(r.Operation.MachineType)] += r.Count

		i, ok := index[r.Operation.Section]
		if !ok {
			i = len(s.Sections)
			index[r.Operation.Section] = i
			s.Sections = append(s.Sections, SectionSummary{Name: r.Operation.Section})
		}
		sec := &s.Sections[i]
		sec.Operations++
		sec.Machines += r.Count
		sec.SMV += r.Operation.SMV
	}
	return s
}

// Efficiency returns the theoretical line balance efficiency: total work
// content over installed capacity per takt. It is 0 for unbalanced input.
func (s Summary) Efficiency() float64 {
	if s.TaktTime <= 0 || s.TotalMachines == 0 {
		return 0
	}
	return s.TotalSMV / (float64(s.TotalMachines) * s.TaktTime)
}
