package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/faqchat/internal/faq"
	"github.com/nhle/faqchat/internal/model"
	"github.com/nhle/faqchat/internal/session"
	"github.com/nhle/faqchat/internal/theme"
	"github.com/nhle/faqchat/internal/ui"
	"github.com/nhle/faqchat/internal/ui/chat"
	"github.com/nhle/faqchat/internal/ui/command"
	helpview "github.com/nhle/faqchat/internal/ui/help"
	"github.com/nhle/faqchat/internal/ui/related"
	"github.com/nhle/faqchat/internal/ui/settings"
)

const brand = "◆ AI FAQ Assistant"

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewChat ViewState = iota
	ViewHelp
	ViewCommand
	ViewSettings
)

// Loader re-reads the configuration and the backend token. settingsSaved
// is true when the reload follows a settings save, so the saved backend
// URL must win over any startup override.
type Loader func(settingsSaved bool) (*model.AppConfig, string, error)

// reloadedMsg carries the result of a Loader call.
type reloadedMsg struct {
	cfg   *model.AppConfig
	token string
	err   error
}

// Options configures a root model.
type Options struct {
	Session    *session.Session
	Config     *model.AppConfig
	ConfigPath string
	Token      string
	Load       Loader
	Logger     *zap.Logger
}

// Model is the root Bubble Tea model. It routes input between the chat
// card, the related-questions sidebar and the overlays, and copies
// session state into the views after every change.
type Model struct {
	currentView ViewState
	layout      ui.Layout
	keys        *KeyMap
	session     *session.Session
	cfg         *model.AppConfig
	backendURL  string
	token       string
	load        Loader
	logger      *zap.Logger

	chatView     chat.Model
	relatedView  related.Model
	helpView     helpview.Model
	commandView  command.Model
	settingsView settings.Model

	ready  bool
	notice string
}

// New creates a new root application model.
func New(opts Options) Model {
	k := DefaultKeyMap()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &model.AppConfig{}
	}

	m := Model{
		currentView:  ViewChat,
		keys:         k,
		session:      opts.Session,
		cfg:          cfg,
		backendURL:   cfg.BaseURL(),
		token:        opts.Token,
		load:         opts.Load,
		logger:       logger,
		chatView:     chat.New(k, 80, 24),
		relatedView:  related.New(k, 0, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		settingsView: settings.New(opts.ConfigPath, 80, 24),
	}
	m.sync()
	return m
}

// Init starts the composer cursor blink and sets the terminal title.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.chatView.Init(),
		tea.SetWindowTitle("AI FAQ Assistant"),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		// Forward to the settings form so huh can calculate its layout.
		if m.currentView == ViewSettings {
			var cmd tea.Cmd
			m.settingsView, cmd = m.settingsView.Update(msg)
			return m, cmd
		}
		return m, nil

	case session.AnswerMsg, session.SuggestionsMsg,
		session.StatusResetMsg, session.SubmitDraftMsg:
		cmd := m.session.Update(msg)
		syncCmd := m.sync()
		return m, tea.Batch(cmd, syncCmd)

	case related.ActivateMsg:
		cmd := m.session.Activate(msg.Suggestion)
		m.relatedView.Blur()
		focusCmd := m.chatView.Focus()
		syncCmd := m.sync()
		return m, tea.Batch(cmd, focusCmd, syncCmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.chatView, cmd = m.chatView.Update(msg)
		return m, cmd

	case command.CommandMsg:
		m.currentView = ViewChat
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case settings.SavedMsg:
		m.currentView = ViewChat
		if msg.Err != nil {
			m.logger.Error("saving settings failed", zap.Error(msg.Err))
			m.notice = fmt.Sprintf("Could not save settings: %v", msg.Err)
			return m, nil
		}
		m.notice = "Settings saved"
		cmd := m.refresh(true)
		return m, cmd

	case settings.ClosedMsg:
		m.currentView = ViewChat
		return m, nil

	case reloadedMsg:
		cmd := m.applyReload(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateActiveView(msg)
}

// handleKeyMsg processes key input for the active view.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.currentView {
	case ViewSettings:
		if !m.settingsView.Active() {
			m.currentView = ViewChat
			return m, nil
		}
		return m.updateActiveView(msg)

	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = ViewChat
			return m, nil
		}
		return m.updateActiveView(msg)

	case ViewHelp:
		if key.Matches(msg, m.keys.Back, m.keys.Help) {
			m.currentView = ViewChat
		}
		return m, nil
	}

	return m.handleChatKeys(msg)
}

// handleChatKeys processes keys on the main screen. While the composer
// has focus, printable keys are text and never trigger shortcuts.
func (m Model) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	composing := m.chatView.Focused()

	if !(composing && typing(msg)) {
		var cmd tea.Cmd
		switch {
		case key.Matches(msg, m.keys.Help):
			m.currentView = ViewHelp
			return m, nil
		case key.Matches(msg, m.keys.Command):
			m.currentView = ViewCommand
			cmd = m.commandView.Focus()
			return m, cmd
		case key.Matches(msg, m.keys.Settings):
			cmd = m.openSettings()
			return m, cmd
		case key.Matches(msg, m.keys.NewChat):
			cmd = m.newChat()
			return m, cmd
		case key.Matches(msg, m.keys.Refresh):
			cmd = m.refresh(false)
			return m, cmd
		case key.Matches(msg, m.keys.SwitchFocus):
			cmd = m.toggleFocus()
			return m, cmd
		}
	}

	if !composing {
		if key.Matches(msg, m.keys.Back) {
			cmd := m.toggleFocus()
			return m, cmd
		}
		var cmd tea.Cmd
		m.relatedView, cmd = m.relatedView.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Send) {
		if m.chatView.Disabled() {
			return m, nil
		}
		m.notice = ""
		m.session.SetDraft(m.chatView.Value())
		cmd := m.session.SubmitDraft()
		syncCmd := m.sync()
		return m, tea.Batch(cmd, syncCmd)
	}

	var cmd tea.Cmd
	m.chatView, cmd = m.chatView.Update(msg)
	m.session.SetDraft(m.chatView.Value())
	return m, cmd
}

// updateActiveView forwards a message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewChat:
		m.chatView, cmd = m.chatView.Update(msg)
	}
	return m, cmd
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case command.NewChat:
		return m.newChat()
	case command.Refresh:
		return m.refresh(false)
	case command.Settings:
		return m.openSettings()
	case command.Help:
		m.currentView = ViewHelp
		return nil
	case command.Quit:
		return tea.Quit
	default:
		m.notice = fmt.Sprintf("Unknown command: %s", cmd)
		return nil
	}
}

// newChat resets the session and returns focus to the composer.
func (m *Model) newChat() tea.Cmd {
	m.session.Reset()
	m.notice = ""
	m.relatedView.Blur()
	focusCmd := m.chatView.Focus()
	syncCmd := m.sync()
	return tea.Batch(focusCmd, syncCmd)
}

// refresh reloads configuration and credentials in the background.
func (m *Model) refresh(settingsSaved bool) tea.Cmd {
	load := m.load
	if load == nil {
		return m.newChat()
	}
	return func() tea.Msg {
		cfg, token, err := load(settingsSaved)
		return reloadedMsg{cfg: cfg, token: token, err: err}
	}
}

// applyReload swaps in a client built from the reloaded configuration
// and starts a new chat.
func (m *Model) applyReload(msg reloadedMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Error("reloading configuration failed", zap.Error(msg.err))
		m.notice = fmt.Sprintf("Refresh failed: %v", msg.err)
		return nil
	}

	m.cfg = msg.cfg
	m.token = msg.token
	client := faq.NewClient(
		m.cfg.BaseURL(),
		m.token,
		m.cfg.HTTP.Timeout,
		m.logger.Named("faq"),
	)
	m.session.SetBackend(client)
	m.backendURL = client.BaseURL()
	m.logger.Info("configuration reloaded", zap.String("backend", m.backendURL))

	notice := m.notice
	cmd := m.newChat()
	if notice == "" {
		notice = "Refreshed"
	}
	m.notice = notice
	return cmd
}

func (m *Model) openSettings() tea.Cmd {
	m.currentView = ViewSettings
	return m.settingsView.Open(*m.cfg, m.token)
}

// toggleFocus moves keyboard focus between the composer and the sidebar.
func (m *Model) toggleFocus() tea.Cmd {
	if m.chatView.Focused() {
		m.chatView.Blur()
		m.relatedView.Focus()
		return nil
	}
	m.relatedView.Blur()
	return m.chatView.Focus()
}

// sync copies session state into the views.
func (m *Model) sync() tea.Cmd {
	m.chatView.SetConversation(m.session.Messages())
	m.chatView.SetValue(m.session.Draft())
	m.relatedView.SetItems(m.session.Suggestions())
	return m.chatView.SetStatus(m.session.Status())
}

func (m *Model) resize() {
	h := m.layout.ContentHeight()
	m.chatView.SetSize(m.layout.ChatWidth(), h)
	m.relatedView.SetSize(m.layout.SidebarWidth(), h)
	m.helpView.SetSize(m.layout.ContentWidth(), h)
	m.commandView.SetSize(m.layout.ContentWidth(), h)
	m.settingsView.SetSize(m.layout.ContentWidth(), h)
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(brand, m.backendURL)
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewSettings:
		return m.settingsView.View()
	default:
		return m.layout.RenderColumns(m.chatView.View(), m.relatedView.View())
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "f1 close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewSettings:
		return "enter next | esc cancel"
	}

	if m.notice != "" {
		return m.notice
	}
	if m.relatedView.Focused() {
		if m.relatedView.Len() == 0 {
			return "no related questions yet | tab composer | ? help"
		}
		return "j/k move | enter ask | tab composer | ? help"
	}
	if m.layout.SidebarWidth() == 0 {
		return theme.HelpStyle.UnsetItalic().Render("widen the terminal to see related questions") +
			" | " + m.helpView.ShortView()
	}
	return m.helpView.ShortView()
}
