package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/faqchat/internal/keys"
)

// KeyMap is re-exported from the keys package.
type KeyMap = keys.KeyMap

// DefaultKeyMap delegates to keys.DefaultKeyMap.
func DefaultKeyMap() *KeyMap {
	return keys.DefaultKeyMap()
}

// typing reports whether msg is text input rather than a shortcut:
// printable runes and space.
func typing(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace
}
