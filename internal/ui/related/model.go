package related

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/faqchat/internal/keys"
	"github.com/nhle/faqchat/internal/model"
	"github.com/nhle/faqchat/internal/theme"
)

// EmptyText is shown while there are no suggestions.
const EmptyText = "No related questions yet. Ask something to see suggestions."

// ActivateMsg is emitted when the user picks a related question.
type ActivateMsg struct {
	Suggestion model.Suggestion
}

// Model is the related-questions sidebar.
type Model struct {
	keys    *keys.KeyMap
	items   []model.Suggestion
	cursor  int
	focused bool
	width   int
	height  int
}

// New creates an empty sidebar.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// Update moves the selection and activates the selected question. Keys
// are ignored unless the sidebar has focus.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused || len(m.items) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Activate):
		sug, _ := m.Selected()
		return m, func() tea.Msg {
			return ActivateMsg{Suggestion: sug}
		}
	}
	return m, nil
}

// SetItems replaces the listed suggestions. The selection is kept when
// it is still in range.
func (m *Model) SetItems(items []model.Suggestion) {
	m.items = items
	if m.cursor >= len(items) {
		m.cursor = max(len(items)-1, 0)
	}
}

// Selected returns the highlighted suggestion.
func (m Model) Selected() (model.Suggestion, bool) {
	if len(m.items) == 0 {
		return model.Suggestion{}, false
	}
	return m.items[m.cursor], true
}

// Focus gives keyboard focus to the sidebar.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus from the sidebar.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the sidebar has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// Len returns the number of listed suggestions.
func (m Model) Len() int { return len(m.items) }

// SetSize updates the sidebar dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the sidebar. It renders nothing when it has no width.
func (m Model) View() string {
	if m.width <= 0 {
		return ""
	}
	inner := max(m.width-4, 1)

	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.TitleStyle.Render("Related questions"),
		" ",
		theme.BadgeStyle(model.StatusIdle).UnsetPadding().Render("AI"),
	)

	lines := []string{header, ""}
	if len(m.items) == 0 {
		lines = append(lines, theme.HelpStyle.Width(inner).Render(EmptyText))
	} else {
		for i, item := range m.items {
			style := theme.ListItemStyle
			if m.focused && i == m.cursor {
				style = theme.SelectedItemStyle
			}
			lines = append(lines, style.Width(inner).Render(item.Title))
		}
	}

	style := theme.PanelStyle
	if m.focused {
		style = theme.FocusedPanelStyle
	}
	return style.
		Width(m.width - 2).
		Height(max(m.height-2, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
