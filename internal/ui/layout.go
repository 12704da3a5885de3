package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/faqchat/internal/theme"
)

const (
	minSidebarWidth = 24
	maxSidebarWidth = 40
	// below this width the sidebar is hidden and the chat takes it all
	sidebarBreakpoint = 72
)

// Layout manages the terminal layout dimensions: a header, the chat card
// next to the related-questions sidebar, and a status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// SidebarWidth returns the width of the related-questions sidebar, or 0
// when the terminal is too narrow to show it.
func (l Layout) SidebarWidth() int {
	if l.Width < sidebarBreakpoint {
		return 0
	}
	w := l.Width / 3
	if w < minSidebarWidth {
		w = minSidebarWidth
	}
	if w > maxSidebarWidth {
		w = maxSidebarWidth
	}
	return w
}

// ChatWidth returns the width left for the chat card.
func (l Layout) ChatWidth() int {
	return l.Width - l.SidebarWidth()
}

// RenderHeader renders the top bar with the brand on the left and the
// backend address and status badge on the right.
func (l Layout) RenderHeader(brand, right string) string {
	titleRendered := theme.HeaderStyle.Render(brand)

	rightRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(right)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		rightRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderColumns places the chat card and the sidebar side by side. An
// empty sidebar is omitted.
func (l Layout) RenderColumns(chat, sidebar string) string {
	if sidebar == "" {
		return chat
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chat, sidebar)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
