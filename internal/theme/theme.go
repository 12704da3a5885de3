package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/faqchat/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorOcean  = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2563EB"}
	ColorAmber  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#7F1D1D"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the top bar and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorOcean).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps the chat card and the sidebar.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// FocusedPanelStyle marks the panel that receives keyboard input.
var FocusedPanelStyle = PanelStyle.
	BorderForeground(ColorOcean)

// OverlayStyle wraps full-screen overlays such as help and settings.
var OverlayStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TitleStyle is used for panel titles.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// UserLabelStyle and AssistantLabelStyle prefix conversation messages.
var (
	UserLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorOcean)
	AssistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)
	ContentStyle        = lipgloss.NewStyle().Foreground(ColorWhite)
)

// ListItemStyle is the base style for sidebar entries.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused sidebar entry.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorOcean).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorOcean)

// HelpStyle is used for hints and placeholder text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorTextStyle renders the error status message under the composer.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// BadgeStyle returns a color-coded style for the request status badge.
func BadgeStyle(kind model.StatusKind) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch kind {
	case model.StatusLoading:
		return base.Foreground(ColorAmber)
	case model.StatusSuccess:
		return base.Foreground(ColorGreen)
	case model.StatusError:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}
