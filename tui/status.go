package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// game, the acting player and their gold, the controlled entity and the
// turn count.
func (m Model) renderStatusBar() string {
	e := m.session.Engine

	left := " " + e.Game
	if p, ok := e.Player(); ok {
		left += fmt.Sprintf(" | %s (p%d) %dg", p.Name, p.ID, p.Gold)
	} else {
		left += fmt.Sprintf(" | p%d", e.Owner())
	}
	if c := e.Interp.Controlled; c != nil {
		name, ok := e.Interp.Names.NameOf(c)
		if !ok {
			name = fmt.Sprintf("#%d", c.ID)
		}
		left += fmt.Sprintf(" | ctrl: %s HP %d MP %d", name, c.HP, c.RemainingMP)
	}

	right := fmt.Sprintf("T:%d ", e.Turn)
	if e.Busy() {
		right = "moving | " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// trackerPanelWidth is the outer width of the tracker column.
const trackerPanelWidth = 34

// showTrackers reports whether the tracker column is drawn: there must be
// trackers and room for the narrative beside them.
func (m Model) showTrackers() bool {
	return len(m.session.Engine.Board.Trackers()) > 0 && m.width >= 2*trackerPanelWidth
}

// renderTrackers draws the tracker column at the given height.
func (m Model) renderTrackers(height int) string {
	inner := trackerPanelWidth - 4 // border and padding
	lines := []string{styleTrackerTitle.Render("Trackers")}
	for _, l := range m.session.Engine.Board.Lines() {
		if lipgloss.Width(l) > inner {
			l = l[:inner-1] + "…"
		}
		lines = append(lines, styleTracker.Render(l))
	}
	if height < 3 {
		height = 3
	}
	return styleTrackerPanel.
		Width(trackerPanelWidth - 2).
		Height(height - 2).
		Render(strings.Join(lines, "\n"))
}
