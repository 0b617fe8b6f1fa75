package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

var helpOverlayStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(1, 2)

// HelpModel wraps the bubbles help component.
type HelpModel struct {
	help   help.Model
	keymap KeyMap
}

// NewHelpModel creates a new help overlay model.
func NewHelpModel(keymap KeyMap) HelpModel {
	h := help.New()
	h.ShowAll = true

	return HelpModel{
		help:   h,
		keymap: keymap,
	}
}

// View renders the full help box.
func (m HelpModel) View(width int) string {
	m.help.Width = width - 8 // Account for padding and border
	return helpOverlayStyle.Render(m.help.View(m.keymap))
}

// ShortView renders the one-line hint used in the footer.
func (m HelpModel) ShortView() string {
	m.help.ShowAll = false
	return m.help.View(m.keymap)
}
