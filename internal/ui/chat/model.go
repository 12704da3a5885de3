package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/faqchat/internal/keys"
	"github.com/nhle/faqchat/internal/model"
	"github.com/nhle/faqchat/internal/theme"
)

const (
	title       = "Ask the Knowledge Base"
	subtitle    = "Type a question below. We’ll retrieve the most relevant information and give you a concise answer."
	placeholder = "Ask a question about the docs, product, or project..."

	// title, subtitle, separator, composer, badge line, error line and
	// the panel border
	chromeHeight = 8
	charLimit    = 2000
)

// Model is the chat card: the conversation viewport, the composer and
// the request status line. It renders session state and never changes
// it; the parent copies state in with SetConversation and SetStatus.
type Model struct {
	keys     *keys.KeyMap
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	messages []model.Message
	status   model.Status
	focused  bool
	width    int
	height   int
}

// New creates a chat card with a focused composer.
func New(k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = charLimit
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.BadgeStyle(model.StatusLoading).UnsetPadding()

	m := Model{
		keys:     k,
		viewport: viewport.New(0, 0),
		input:    ti,
		spinner:  sp,
		status:   model.IdleStatus(),
		focused:  true,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the cursor blink command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles scrolling, spinner ticks and composer editing. Submit
// keys are left to the parent.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.status.Kind != model.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.PageUp, m.keys.PageDown) {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if m.Disabled() {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// SetConversation replaces the rendered conversation and scrolls to the
// newest message.
func (m *Model) SetConversation(msgs []model.Message) {
	m.messages = msgs
	m.refreshViewport()
}

// SetStatus updates the status line. Entering loading disables the
// composer and starts the spinner; leaving it re-enables the composer.
func (m *Model) SetStatus(status model.Status) tea.Cmd {
	prev := m.status.Kind
	m.status = status
	if status.Kind == prev {
		return nil
	}

	if status.Kind == model.StatusLoading {
		m.input.Blur()
		return m.spinner.Tick
	}
	if prev == model.StatusLoading && m.focused {
		return m.input.Focus()
	}
	return nil
}

// Disabled reports whether the composer rejects input.
func (m Model) Disabled() bool {
	return m.status.Kind == model.StatusLoading
}

// Value returns the composer text.
func (m Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the composer text and moves the cursor to its end.
func (m *Model) SetValue(s string) {
	if m.input.Value() == s {
		return
	}
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// Focus gives keyboard focus to the composer.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	if m.Disabled() {
		return nil
	}
	return m.input.Focus()
}

// Blur removes keyboard focus from the composer.
func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

// Focused reports whether the chat card has keyboard focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetSize updates the card dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	inner := max(width-4, 10)
	m.input.Width = inner - lipgloss.Width(m.input.Prompt) - 1

	vpHeight := max(height-chromeHeight, 3)
	m.viewport.Width = inner
	m.viewport.Height = vpHeight
	m.refreshViewport()
}

// Badge renders the status badge: nothing when idle.
func (m Model) Badge() string {
	style := theme.BadgeStyle(m.status.Kind)
	switch m.status.Kind {
	case model.StatusLoading:
		return style.Render(m.spinner.View() + " Loading")
	case model.StatusSuccess:
		return style.Render("Answer ready")
	case model.StatusError:
		return style.Render("Error")
	default:
		return ""
	}
}

// View renders the chat card.
func (m Model) View() string {
	inner := max(m.width-4, 10)

	header := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.TitleStyle.Render(title),
		theme.HelpStyle.Width(inner).MaxHeight(1).Render(subtitle),
	)

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", inner))

	sendLabel := "[Ask]"
	if m.Disabled() {
		sendLabel = "[Asking...]"
	}

	lines := []string{
		header,
		m.viewport.View(),
		separator,
		m.input.View() + " " + theme.HelpStyle.Render(sendLabel),
		m.Badge(),
	}
	if m.status.Kind == model.StatusError && m.status.Message != "" {
		lines = append(lines, theme.ErrorTextStyle.Render(m.status.Message))
	}

	style := theme.PanelStyle
	if m.focused {
		style = theme.FocusedPanelStyle
	}
	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// refreshViewport re-renders the conversation and scrolls to the bottom.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}

// renderConversation builds the conversation display string.
func (m Model) renderConversation() string {
	width := max(m.viewport.Width, 10)
	content := theme.ContentStyle.Width(width)

	var sections []string
	for _, msg := range m.messages {
		label := theme.AssistantLabelStyle.Render("Assistant:")
		if msg.IsUser() {
			label = theme.UserLabelStyle.Render("You:")
		}
		sections = append(sections, label, content.Render(msg.Content), "")
	}

	return strings.TrimRight(strings.Join(sections, "\n"), "\n")
}
