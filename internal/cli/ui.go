package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lineplanner/pkg/balance"
	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/render/plan"
)

// out receives all user-facing output. Tests swap it for a buffer.
var out io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(out, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(out, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(out, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(16)
	fmt.Fprintln(out, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(out)
}

// printStats prints operation and machine counts on a single line.
func printStats(operations, instances int, cached bool) {
	var parts []string
	if operations > 0 {
		parts = append(parts, fmt.Sprintf("%d operations", operations))
	}
	if instances > 0 {
		parts = append(parts, fmt.Sprintf("%d machines", instances))
	}
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(part))
	}
	if len(parts) > 0 {
		b.WriteString(StyleDim.Render(" · "))
	}
	b.WriteString(statusStyle.Render(status))
	fmt.Fprintln(out, b.String())
}

// printDropped warns about sections that get no floor placement.
func printDropped(sections []string) {
	if len(sections) == 0 {
		return
	}
	printWarning("No layout template for %s; these operations are not placed", strings.Join(sections, ", "))
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// requirementsTable renders one row per balanced operation.
func requirementsTable(reqs []line.Requirement) string {
	t := newTable("Section", "Op", "Operation", "Machine", "SMV", "Count")
	for _, r := range reqs {
		op := r.Operation
		t.Row(op.Section, op.OpNo, op.OpName, op.MachineType,
			strconv.FormatFloat(op.SMV, 'f', 2, 64),
			lipgloss.NewStyle().Foreground(lipgloss.Color(plan.Fill(line.CategoryOf(op.MachineType)))).Render(strconv.Itoa(r.Count)))
	}
	return t.Render()
}

// printSummary prints the totals and per-section and per-category counts.
func printSummary(s balance.Summary) {
	printKeyValue("Target", fmt.Sprintf("%d pcs in %.1f h", s.TargetOutput, s.WorkingHours))
	printKeyValue("Takt time", fmt.Sprintf("%.3f min", s.TaktTime))
	printKeyValue("Total SMV", fmt.Sprintf("%.2f min", s.TotalSMV))
	printKeyValue("Machines", StyleNumber.Render(strconv.Itoa(s.TotalMachines)))
	if eff := s.Efficiency(); eff > 0 {
		printKeyValue("Efficiency", fmt.Sprintf("%.1f%%", eff*100))
	}

	if len(s.Sections) > 0 {
		t := newTable("Section", "Operations", "SMV", "Machines")
		for _, sec := range s.Sections {
			name := sec.Name
			if name == "" {
				name = "-"
			}
			t.Row(name, strconv.Itoa(sec.Operations), strconv.FormatFloat(sec.SMV, 'f', 2, 64), strconv.Itoa(sec.Machines))
		}
		fmt.Fprintln(out, t.Render())
	}

	if len(s.Categories) > 0 {
		cats := make([]string, 0, len(s.Categories))
		for c := range s.Categories {
			cats = append(cats, string(c))
		}
		sort.Strings(cats)
		parts := make([]string, len(cats))
		for i, c := range cats {
			parts[i] = fmt.Sprintf("%s %d", c, s.Categories[line.Category(c)])
		}
		printDetail("%s", strings.Join(parts, " · "))
	}
}
