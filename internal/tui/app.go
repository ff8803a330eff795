package tui

import (
	"github.com/ahmetcoskunkizilkaya/tasklist/internal/client"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive UI and blocks until the user quits.
func Run(session *client.Session, undo *client.Undo) error {
	p := tea.NewProgram(New(session, undo), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
