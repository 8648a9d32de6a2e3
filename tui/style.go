package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nathoo/skirmish/cli"
	"github.com/nathoo/skirmish/engine/diag"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleMessage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleEvent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleDamage = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleStatus = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	styleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrackerPanel = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)

	styleTrackerTitle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Bold(true)

	styleTracker = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindMessage lineKind = iota
	kindEvent
	kindDamage
	kindSystem
	kindStatus
	kindError
	kindWarning
	kindTracker
)

// classifyLine refines a console line kind: damage events and warnings get
// their own colors.
func classifyLine(l cli.Line) lineKind {
	switch l.Kind {
	case cli.KindEvent:
		if strings.HasPrefix(l.Text, "-") {
			return kindDamage
		}
		return kindEvent
	case cli.KindError:
		if diag.IsWarning(l.Text) {
			return kindWarning
		}
		return kindError
	case cli.KindStatus:
		return kindStatus
	case cli.KindSystem:
		return kindSystem
	case cli.KindTracker:
		return kindTracker
	default:
		return kindMessage
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindEvent:
		return styleEvent.Render(line)
	case kindDamage:
		return styleDamage.Render(line)
	case kindSystem:
		return styledSystemMsg(line)
	case kindStatus:
		return styleStatus.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindWarning:
		return styleWarning.Render(line)
	case kindTracker:
		return styleTracker.Render(line)
	default:
		return styleMessage.Render(line)
	}
}

// styledPlayerInput renders the echoed player input in green with "> " prefix.
func styledPlayerInput(input string) string {
	return stylePlayerInput.Render("> " + input)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
