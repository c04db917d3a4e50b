package styles

import "github.com/charmbracelet/lipgloss"

// Centralized style definitions for the terminal front-ends.
var (
	// Turn headers.
	UserPrefixStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	AssistantPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	TimeStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// Selection excerpt attached to a user turn.
	SelectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("3"))

	// Spinner / animation styles.
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")) // magenta

	// General utility styles.
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	StatusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))

	// Error block style.
	ErrorBlockStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("1"))

	// Input styles.
	FocusedBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("2"))
	DisabledBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
)

// TreeCorner prefixes the first line of a turn body.
const TreeCorner = "└ "
