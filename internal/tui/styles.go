package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("238"))

	// SubtitleStyle is used for the line under a section title.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// SelectedItemStyle is used for highlighted/selected items.
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63")). // Indigo
				Bold(true)

	// NormalItemStyle is used for non-selected items.
	NormalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Light gray

	// ActiveTabStyle underlines the selected tab.
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Underline(true).
			Bold(true).
			Padding(0, 1)

	// TabStyle is used for unselected tabs.
	TabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// RewardStyle highlights reward amounts.
	RewardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("35")) // Green

	// EmptyTitleStyle is the headline of an empty section.
	EmptyTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245"))

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// DimStyle is used for secondary text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")) // Dark gray

	// HelpStyle is used for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	// ModalTitleStyle is the promo modal headline.
	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	// ButtonStyle renders a call-to-action key hint.
	ButtonStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)
)
