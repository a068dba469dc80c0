package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"gammascope/pkg/viewer"
)

// Update handles all messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input while browsing
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case "left":
		m.session.Prev()
		m.setStatus("", false)

	case "right":
		m.session.Next()
		m.setStatus("", false)

	case "i", "I":
		if m.session.ToggleImage() {
			m.setStatus("IMG: ON", false)
		} else {
			m.setStatus("IMG: OFF", false)
		}

	case "s", "S":
		m.searching = true
		m.search.Reset()
		return m, m.search.Focus()

	case "f", "F":
		on, err := m.session.ToggleFavorite()
		switch {
		case err != nil:
			m.setStatus(err.Error(), true)
		case on:
			m.setStatus("Added to favorites", false)
		default:
			m.setStatus("Removed from favorites", false)
		}

	case "d", "D":
		m.setMode(viewer.ModeDefault)

	case "g", "G":
		m.setMode(viewer.ModeGreen)

	case "b", "B":
		m.setMode(viewer.ModeBlue)
	}

	return m, nil
}

// handleSearchKey handles keyboard input while the search prompt is open
func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc", "s", "S":
		m.closeSearch()
		return m, nil

	case "enter":
		if err := m.session.JumpToInput(m.search.Value()); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.closeSearch()
		m.setStatus("", false)
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) closeSearch() {
	m.searching = false
	m.search.Blur()
}

func (m *Model) setMode(mode viewer.Mode) {
	m.session.SetMode(mode)
	m.setStatus(fmt.Sprintf("Sorted by %s", mode), false)
}
