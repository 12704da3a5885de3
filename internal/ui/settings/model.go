package settings

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/faqchat/internal/credential"
	"github.com/nhle/faqchat/internal/model"
	"github.com/nhle/faqchat/internal/theme"
)

// SavedMsg reports the outcome of saving the settings. On success the
// parent reloads configuration and credentials.
type SavedMsg struct {
	Err error
}

// ClosedMsg signals the settings view was dismissed without saving.
type ClosedMsg struct{}

type formValues struct {
	backendURL string
	token      string
}

// Model is the settings form: backend URL and bearer token.
type Model struct {
	form       *huh.Form
	configPath string

	// huh binds to these; shared so copies of Model see the edits
	values *formValues

	setToken func(key, value string) error

	width, height int
}

// New creates a settings view that writes configuration to configPath.
func New(configPath string, width, height int) Model {
	return Model{
		configPath: configPath,
		values:     &formValues{},
		setToken:   credential.Set,
		width:      width,
		height:     height,
	}
}

// Open prefills the form from cfg and the current token and returns the
// form's init command.
func (m *Model) Open(cfg model.AppConfig, token string) tea.Cmd {
	m.values = &formValues{
		backendURL: strings.TrimSpace(cfg.BackendURL),
		token:      token,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("Base URL of the FAQ service. Leave empty for " + model.DefaultBackendURL).
				Placeholder(model.DefaultBackendURL).
				Value(&m.values.backendURL).
				Validate(validateBackendURL),
			huh.NewInput().
				Title("Access Token").
				Description("Sent as a bearer token. Leave empty to send none.").
				EchoMode(huh.EchoModePassword).
				Value(&m.values.token),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

// Update drives the form. Esc closes it without saving.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.form = nil
		return m, func() tea.Msg { return ClosedMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.save()
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return ClosedMsg{} }
	}

	return m, cmd
}

// save persists the backend URL to the config file and the token to the
// keyring.
func (m Model) save() tea.Cmd {
	backendURL := strings.TrimSpace(m.values.backendURL)
	token := strings.TrimSpace(m.values.token)
	path := m.configPath
	setToken := m.setToken

	return func() tea.Msg {
		var errs []error
		if err := model.SaveBackendURL(path, backendURL); err != nil {
			errs = append(errs, err)
		}
		if err := setToken(credential.BackendTokenKey, token); err != nil {
			errs = append(errs, fmt.Errorf("storing token: %w", err))
		}
		return SavedMsg{Err: errors.Join(errs...)}
	}
}

// View renders the settings form.
func (m Model) View() string {
	title := theme.TitleStyle.MarginBottom(1).Render("Settings")

	body := theme.HelpStyle.Render("Press ctrl+o to edit settings.")
	if m.form != nil {
		body = m.form.View()
	}

	return theme.OverlayStyle.
		Width(max(m.width-2, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

// Active reports whether the form is open.
func (m Model) Active() bool {
	return m.form != nil
}

// SetSize updates the settings view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	w := m.width - 6
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// validateBackendURL accepts an empty value or an absolute http(s) URL.
func validateBackendURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host (e.g., https://faq.example.com)")
	}
	return nil
}
