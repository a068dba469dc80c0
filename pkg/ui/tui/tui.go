package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"gammascope/pkg/viewer"
)

// Run shows the viewer until the user quits
func Run(session *viewer.Session, opts Options) error {
	program := tea.NewProgram(NewModel(session, opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
