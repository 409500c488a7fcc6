package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lovecalc/internal/domain"
)

type keyMap struct {
	Input      key.Binding
	Equals     key.Binding
	Backspace  key.Binding
	Clear      key.Binding
	Dark       key.Binding
	Love       key.Binding
	Scientific key.Binding
	History    key.Binding
	Help       key.Binding
	Quit       key.Binding

	Sin  key.Binding
	Cos  key.Binding
	Tan  key.Binding
	Sqrt key.Binding
	Log  key.Binding
	Pow2 key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Input:      key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ".", "+", "-", "*", "/", "x", "X"), key.WithHelp("0-9 . + - * /", "input")),
		Equals:     key.NewBinding(key.WithKeys("enter", "="), key.WithHelp("enter/=", "calculate")),
		Backspace:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		Clear:      key.NewBinding(key.WithKeys("esc", "delete"), key.WithHelp("esc/del", "clear")),
		Dark:       key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "dark")),
		Love:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "love")),
		Scientific: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "scientific")),
		History:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "history")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),

		Sin:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sin")),
		Cos:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cos")),
		Tan:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tan")),
		Sqrt: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "√")),
		Log:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "log")),
		Pow2: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "x²")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Equals, k.Clear, k.Scientific, k.History, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Input, k.Equals, k.Backspace, k.Clear},
		{k.Dark, k.Love, k.Scientific, k.History},
		{k.Sin, k.Cos, k.Tan, k.Sqrt, k.Log, k.Pow2},
		{k.Help, k.Quit},
	}
}

// scientificOp возвращает научную функцию, привязанную к клавише панели.
func (k keyMap) scientificOp(msg tea.KeyMsg) (string, bool) {
	switch {
	case key.Matches(msg, k.Sin):
		return domain.SciSin, true
	case key.Matches(msg, k.Cos):
		return domain.SciCos, true
	case key.Matches(msg, k.Tan):
		return domain.SciTan, true
	case key.Matches(msg, k.Sqrt):
		return domain.SciSqrt, true
	case key.Matches(msg, k.Log):
		return domain.SciLog, true
	case key.Matches(msg, k.Pow2):
		return domain.SciPow2, true
	}
	return "", false
}

// keyName переводит имя клавиши bubbletea в имя KeyboardEvent.key.
func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyEnter:
		return "Enter"
	case tea.KeyBackspace:
		return "Backspace"
	case tea.KeyDelete:
		return "Delete"
	case tea.KeyEsc:
		return "Escape"
	case tea.KeyRunes:
		if len(msg.Runes) == 1 && !msg.Alt {
			return string(msg.Runes)
		}
	}
	return ""
}
