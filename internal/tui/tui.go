package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the board TUI and blocks until the user quits
func Run(opts Options) error {
	model := NewBoardModel(opts)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
