package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/faqchat/internal/keys"
	"github.com/nhle/faqchat/internal/theme"
)

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	m := Model{keys: keys, help: h}
	m.SetSize(width, height)
	return m
}

// View renders the help overlay.
func (m Model) View() string {
	title := theme.TitleStyle.MarginBottom(1).Render("Keyboard Shortcuts")
	footer := theme.HelpStyle.MarginTop(1).Render(
		"Printable keys go to the composer while it has focus. " +
			"Press tab to move to the related questions.",
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.help.View(m.keys),
		footer,
	)

	return theme.OverlayStyle.
		Width(max(m.width-2, 1)).
		Height(max(m.height-2, 1)).
		Render(content)
}

// ShortView renders the one-line key summary used in the status bar.
func (m Model) ShortView() string {
	h := m.help
	h.ShowAll = false
	return h.ShortHelpView(m.keys.ShortHelp())
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = max(width-6, 0)
}
