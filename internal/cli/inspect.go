package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/render/plan"
)

// inspectCommand creates the interactive section browser.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <layout.json>",
		Short: "Browse the machines of a layout section by section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := line.ReadLayoutFile(args[0])
			if err != nil {
				return err
			}
			if len(l.Instances) == 0 {
				printInfo("Layout has no machines")
				return nil
			}
			_, err = tea.NewProgram(NewSectionModel(l), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SectionModel - Interactive section browser
// =============================================================================

// sectionEntry is one row of the section list.
type sectionEntry struct {
	Name      string
	Instances []line.MachineInstance
}

// SectionModel is the bubbletea model for browsing a layout. The list view
// shows one row per section; enter opens the machines of a section.
type SectionModel struct {
	Layout   line.Layout
	Sections []sectionEntry
	Cursor   int
	Open     bool // detail view of Sections[Cursor]
	Offset   int  // first visible machine in the detail view
	Height   int
}

// NewSectionModel groups the instances of l by section in layout order.
func NewSectionModel(l line.Layout) SectionModel {
	m := SectionModel{Layout: l, Height: 15}
	for _, name := range line.Sections(l.Instances) {
		m.Sections = append(m.Sections, sectionEntry{Name: name, Instances: line.FilterSection(l.Instances, name)})
	}
	return m
}

func (m SectionModel) Init() tea.Cmd {
	return nil
}

func (m SectionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace", "left", "h":
			m.Open = false
			m.Offset = 0
		case "enter", "right", "l":
			if len(m.Sections) > 0 {
				m.Open = true
			}
		case "up", "k":
			if m.Open {
				if m.Offset > 0 {
					m.Offset--
				}
			} else if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Open {
				if m.Offset < len(m.Sections[m.Cursor].Instances)-1 {
					m.Offset++
				}
			} else if m.Cursor < len(m.Sections)-1 {
				m.Cursor++
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m SectionModel) View() string {
	if m.Open {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Sections"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("takt %.3f min · %d machines", m.Layout.TaktTime, len(m.Layout.Instances))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	for i, s := range m.Sections {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		row := fmt.Sprintf("%s%-12s %4d machines  %s", cursor, s.Name, len(s.Instances), listDimStyle.Render(categoryMix(s.Instances)))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(row))
		} else {
			b.WriteString(listNormalStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m SectionModel) detailView() string {
	s := m.Sections[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(s.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ scroll  esc back  q quit"))
	b.WriteString("\n\n")

	t := newTable("Op", "Machine", "Lane", "#", "x", "z", "Yaw")
	end := min(m.Offset+m.Height, len(s.Instances))
	for _, inst := range s.Instances[m.Offset:end] {
		machine := lipgloss.NewStyle().Foreground(lipgloss.Color(plan.Fill(line.CategoryOf(inst.Operation.MachineType)))).
			Render(inst.Operation.MachineType)
		t.Row(inst.Operation.OpNo, machine, string(inst.Lane), strconv.Itoa(inst.MachineIndex),
			strconv.FormatFloat(inst.Position.X, 'f', 2, 64),
			strconv.FormatFloat(inst.Position.Z, 'f', 2, 64),
			strconv.FormatFloat(inst.YawDegrees(), 'f', 0, 64))
	}
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.Offset+1, end, len(s.Instances))))
	return b.String()
}

// categoryMix summarizes machine categories as "snls 4 · iron 2".
func categoryMix(instances []line.MachineInstance) string {
	counts := map[line.Category]int{}
	for _, inst := range instances {
		counts[line.CategoryOf(inst.Operation.MachineType)]++
	}
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	parts := make([]string, len(cats))
	for i, c := range cats {
		parts[i] = fmt.Sprintf("%s %d", c, counts[line.Category(c)])
	}
	return strings.Join(parts, " · ")
}
