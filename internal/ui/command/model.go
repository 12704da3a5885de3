package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/faqchat/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// Commands understood by the application, in display order.
const (
	NewChat  = "new"
	Refresh  = "refresh"
	Settings = "settings"
	Help     = "help"
	Quit     = "quit"
)

var known = []string{NewChat, Refresh, Settings, Help, Quit}

// aliases map alternate spellings to a known command.
var aliases = map[string]string{
	"new chat": NewChat,
	"reset":    NewChat,
	"reload":   Refresh,
	"config":   Settings,
	"q":        Quit,
	"exit":     Quit,
}

// Normalize returns the canonical name for input, or input lowercased
// and trimmed when it is not a known command or alias.
func Normalize(input string) string {
	cmd := strings.ToLower(strings.TrimSpace(input))
	if canonical, ok := aliases[cmd]; ok {
		return canonical
	}
	return cmd
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(known)
	ti.Focus()

	m := Model{input: ti}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEnter {
		cmd := Normalize(m.input.Value())
		m.input.Reset()
		if cmd == "" {
			return m, nil
		}
		return m, func() tea.Msg {
			return CommandMsg(cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := theme.TitleStyle.MarginBottom(1).Render("Command Palette")
	hint := theme.HelpStyle.MarginTop(1).Render(strings.Join(known, " · "))

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), hint)

	return theme.OverlayStyle.
		Width(max(m.width-2, 1)).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-8, 1)
}

// Focus gives keyboard focus to the text input and clears it.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}
