package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lovecalc/internal/domain"
)

const displayWidth = 28

var keypad = [][]string{
	{"7", "8", "9", "/"},
	{"4", "5", "6", "*"},
	{"1", "2", "3", "-"},
	{"0", ".", "=", "+"},
	{"C", "⌫"},
}

var scientificLabels = map[string]string{
	domain.SciSin:  "sin",
	domain.SciCos:  "cos",
	domain.SciTan:  "tan",
	domain.SciSqrt: "√",
	domain.SciLog:  "log",
	domain.SciPow2: "x²",
}

// View implements tea.Model.
func (m Model) View() string {
	s := m.state
	th := themeFor(s.Dark, s.Love)

	var sections []string
	sections = append(sections, th.header.Render(th.title+modeBadges(s)))
	sections = append(sections, th.preview.Render(s.Preview()), th.display.Render(s.Display))

	switch {
	case s.Error.Active:
		sections = append(sections, th.errorMsg.Render("⚠ "+s.Error.Message))
	case s.ShowLoveNote():
		sections = append(sections, th.loveNote.Render(s.LoveNote.Message))
	default:
		sections = append(sections, "")
	}

	sections = append(sections, renderKeypad(th))
	if s.Scientific {
		sections = append(sections, renderScientific(th))
	}
	if s.ShowHistory {
		sections = append(sections, renderHistory(th, s.History))
	}

	body := th.frame.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	return lipgloss.JoinVertical(lipgloss.Left, body, m.help.View(m.keys))
}

func modeBadges(s domain.State) string {
	var b strings.Builder
	if s.Dark {
		b.WriteString(" ☾")
	}
	if s.Scientific {
		b.WriteString(" ƒ")
	}
	return b.String()
}

func renderKeypad(th theme) string {
	rows := make([]string, 0, len(keypad))
	for _, row := range keypad {
		cells := make([]string, 0, len(row))
		for _, label := range row {
			style := th.button
			switch label {
			case "/", "*", "-", "+":
				style = th.operator
			case "=", "C", "⌫":
				style = th.action
			}
			cells = append(cells, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderScientific(th theme) string {
	cells := make([]string, 0, len(domain.ScientificOps))
	for _, op := range domain.ScientificOps {
		cells = append(cells, th.operator.Render(scientificLabels[op]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderHistory(th theme, entries []string) string {
	lines := []string{th.header.Render("History")}
	if len(entries) == 0 {
		lines = append(lines, th.muted.Render("No calculations yet"))
	}
	lines = append(lines, entries...)
	return th.panel.Render(strings.Join(lines, "\n"))
}
