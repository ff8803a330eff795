package tui

import "github.com/charmbracelet/lipgloss"

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorAccent   lipgloss.TerminalColor = ac("27", "62")
	colorError    lipgloss.TerminalColor = ac("160", "203")
	colorNotice   lipgloss.TerminalColor = ac("130", "214")
	colorSelected lipgloss.TerminalColor = ac("#e9e9e9", "#262626")
	colorDone     lipgloss.TerminalColor = ac("245", "241")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleHeading  = lipgloss.NewStyle().Bold(true)
	styleMuted    = lipgloss.NewStyle().Foreground(colorMuted)
	styleError    = lipgloss.NewStyle().Foreground(colorError)
	styleNotice   = lipgloss.NewStyle().Foreground(colorNotice)
	styleSelected = lipgloss.NewStyle().Background(colorSelected).Bold(true)
	styleDone     = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
	styleBox      = lipgloss.NewStyle().Padding(1, 2)
)
