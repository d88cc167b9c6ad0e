package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Red      = lipgloss.Color("#f38ba8")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Foreground(Text).
		Padding(0, 1)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot   = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	Completed = lipgloss.NewStyle().Foreground(Green)
	Missed    = lipgloss.NewStyle().Foreground(Red)
	Score     = lipgloss.NewStyle().Foreground(Base).Background(Yellow).Padding(0, 1)
)

// StatusMark is the one-rune marker drawn in front of a block.
func StatusMark(status string) string {
	switch status {
	case "completed":
		return Completed.Render("✓")
	case "missed":
		return Missed.Render("✗")
	default:
		return Muted.Render("·")
	}
}
