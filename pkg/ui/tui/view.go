package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gammascope/pkg/viewer"
)

const barWidth = 28

// View renders the viewer
func (m *Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(" GAMMA DOPPLER PHASE 3 VIEWER "))

	entry, ok := m.session.Current()
	if !ok {
		sections = append(sections, missingStyle.Render("No items in cache"))
		sections = append(sections, m.renderHelp())
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.session.ShowImage() {
		sections = append(sections, m.renderImage(entry))
	}

	sections = append(sections, panelStyle.Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderInfo(entry),
		"    ",
		renderBars(entry),
	)))

	if m.searching {
		sections = append(sections, searchStyle.Render(m.search.View()))
	}

	if m.status != "" {
		style := infoStyle
		if m.statusError {
			style = errorStyle
		}
		sections = append(sections, style.Render(m.status))
	}

	sections = append(sections, m.renderModes(), m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderImage(e viewer.Entry) string {
	if e.ImagePath == "" {
		return missingStyle.Render("Missing Image")
	}
	t := m.thumbnailFor(e.ImagePath)
	if t.err != nil || t.text == "" {
		return missingStyle.Render("Missing Image")
	}
	return t.text
}

// renderInfo renders "pos/total | ID | ★", the float and both ranks
func (m *Model) renderInfo(e viewer.Entry) string {
	header := fmt.Sprintf("%d/%d | %s %s",
		e.Position, e.Total,
		labelStyle.Render("ID:"), valueStyle.Render(strconv.Itoa(e.Item.PaintSeed)))
	if e.Favorite {
		header += " " + favoriteStyle.Render("★")
	}

	green, blue := "-", "-"
	if e.HasRank {
		green = strconv.Itoa(e.Rank.GreenRank)
		blue = strconv.Itoa(e.Rank.BlueRank)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		fmt.Sprintf("%s %s", labelStyle.Render("Float:"), valueStyle.Render(fmt.Sprintf("%.5f", e.Item.Float))),
		fmt.Sprintf("%s #%s | %s #%s", labelStyle.Render("G-Rank:"), green, labelStyle.Render("B-Rank:"), blue),
	)
}

func renderBars(e viewer.Entry) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderBar("G", e.Rank.GreenRatio, greenBarStyle),
		renderBar("B", e.Rank.BlueRatio, blueBarStyle),
	)
}

// renderBar draws a ratio in [0,1] as a filled bar with a percentage
func renderBar(label string, ratio float64, style lipgloss.Style) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * barWidth)
	bar := style.Render(strings.Repeat("█", filled)) +
		emptyBarStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %s %6.2f%%", label, bar, ratio*100)
}

func (m *Model) renderModes() string {
	modes := []struct {
		mode viewer.Mode
		text string
	}{
		{viewer.ModeDefault, "Default (D)"},
		{viewer.ModeGreen, "Green (G)"},
		{viewer.ModeBlue, "Blue (B)"},
	}

	parts := make([]string, 0, len(modes)+1)
	img := "IMG: OFF (I)"
	if m.session.ShowImage() {
		img = "IMG: ON (I)"
	}
	parts = append(parts, img)
	for _, md := range modes {
		if md.mode == m.session.Mode() {
			parts = append(parts, modeActiveStyle.Render("["+md.text+"]"))
		} else {
			parts = append(parts, modeStyle.Render(md.text))
		}
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderHelp() string {
	if m.searching {
		return helpStyle.Render("enter jump • esc close")
	}
	return helpStyle.Render("←/→ navigate • i image • s search • f favorite • d/g/b sort • q quit")
}
