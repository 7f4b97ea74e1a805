package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jaganpro/sf-schema-viewer/pkg/schema"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCheckedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// ObjectPickerModel - Interactive sObject selection
// =============================================================================

// ObjectPickerModel is the bubbletea model for picking the sObjects to
// include in a diagram. Space toggles, enter confirms, typing filters.
type ObjectPickerModel struct {
	Objects   []schema.ObjectBasicInfo
	Checked   map[string]bool
	Filter    string
	Cursor    int
	Offset    int
	Height    int
	Confirmed bool

	visible []int // indexes into Objects matching the filter
}

// NewObjectPickerModel creates a picker over the org's objects.
func NewObjectPickerModel(objects []schema.ObjectBasicInfo) ObjectPickerModel {
	sorted := make([]schema.ObjectBasicInfo, len(objects))
	copy(sorted, objects)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	m := ObjectPickerModel{
		Objects: sorted,
		Checked: make(map[string]bool),
		Height:  15,
	}
	m.applyFilter()
	return m
}

func (m ObjectPickerModel) Init() tea.Cmd {
	return nil
}

func (m ObjectPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			if m.Cursor < len(m.visible) {
				name := m.Objects[m.visible[m.Cursor]].Name
				m.Checked[name] = !m.Checked[name]
			}
		case "enter":
			if len(m.Selection()) > 0 {
				m.Confirmed = true
				return m, tea.Quit
			}
		case "backspace":
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.applyFilter()
			}
		default:
			if len(msg.String()) == 1 {
				m.Filter += msg.String()
				m.applyFilter()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m *ObjectPickerModel) applyFilter() {
	m.visible = m.visible[:0]
	needle := strings.ToLower(m.Filter)
	for i, o := range m.Objects {
		if needle == "" ||
			strings.Contains(strings.ToLower(o.Name), needle) ||
			strings.Contains(strings.ToLower(o.Label), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.Cursor >= len(m.visible) {
		m.Cursor = 0
		m.Offset = 0
	}
}

// Selection returns the checked object names in sorted order.
func (m ObjectPickerModel) Selection() []string {
	var names []string
	for name, on := range m.Checked {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (m ObjectPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Objects"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  ⏎ confirm  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(listDimStyle.Render("filter: ") + listNormalStyle.Render(m.Filter))
	}
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.visible) {
		end = len(m.visible)
	}

	for i := m.Offset; i < end; i++ {
		o := m.Objects[m.visible[i]]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		check := "[ ]"
		checkStyle := listDimStyle
		if m.Checked[o.Name] {
			check = "[x]"
			checkStyle = listCheckedStyle
		}

		nameStyle := listNormalStyle
		if i == m.Cursor {
			nameStyle = listSelectedStyle
		}

		line := cursor + checkStyle.Render(check) + " " + nameStyle.Render(o.Name)
		if o.Label != "" && o.Label != o.Name {
			line += " " + listDimStyle.Render(o.Label)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if n := len(m.Selection()); n > 0 {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d selected", n)))
	}

	return b.String()
}

// runObjectPicker shows the picker and returns the confirmed selection.
func runObjectPicker(objects []schema.ObjectBasicInfo) ([]string, error) {
	model := NewObjectPickerModel(objects)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("object picker: %w", err)
	}

	picked, ok := final.(ObjectPickerModel)
	if !ok || !picked.Confirmed {
		return nil, fmt.Errorf("selection cancelled")
	}
	return picked.Selection(), nil
}
