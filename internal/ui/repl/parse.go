package repl

import (
	"fmt"
	"strings"

	"lovecalc/internal/domain"
	calcUsecase "lovecalc/internal/usecase/calculator"
)

// commandKind — что делать со строкой.
type commandKind int

const (
	cmdNone commandKind = iota
	cmdEvents
	cmdHistory
	cmdClearHistory
	cmdHelp
	cmdQuit
)

type command struct {
	kind   commandKind
	events []domain.Event
}

// parseLine разбирает строку REPL. Выражение превращается в нажатия клавиш и "=";
// если оно начинается с цифры, перед ним идёт сброс, иначе (оператор) расчёт продолжается от результата.
func parseLine(line string) (command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return command{kind: cmdNone}, nil
	}
	if strings.HasPrefix(line, ":") {
		return parseCommand(strings.TrimPrefix(line, ":"))
	}

	events := make([]domain.Event, 0, len(line)+2)
	for _, r := range line {
		if r == ' ' || r == '\t' {
			continue
		}
		ev, ok := calcUsecase.KeyToEvent(string(r))
		if !ok {
			return command{}, fmt.Errorf("unsupported character %q", r)
		}
		if ev.Kind == domain.EventEquals {
			continue
		}
		if len(events) == 0 && ev.Kind == domain.EventDigit {
			events = append(events, domain.Clear())
		}
		events = append(events, ev)
	}
	if len(events) == 0 {
		return command{kind: cmdEvents, events: []domain.Event{domain.Equals()}}, nil
	}
	return command{kind: cmdEvents, events: append(events, domain.Equals())}, nil
}

func parseCommand(name string) (command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if domain.IsScientificOp(name) {
		return command{kind: cmdEvents, events: []domain.Event{domain.Scientific(name)}}, nil
	}
	if ev, ok := domain.ToggleMode(name); ok && name != domain.ModeHistory {
		return command{kind: cmdEvents, events: []domain.Event{ev}}, nil
	}
	switch name {
	case "c", "clear":
		return command{kind: cmdEvents, events: []domain.Event{domain.Clear()}}, nil
	case "back", "backspace":
		return command{kind: cmdEvents, events: []domain.Event{domain.Backspace()}}, nil
	case "h", "history":
		return command{kind: cmdHistory}, nil
	case "clear-history":
		return command{kind: cmdClearHistory}, nil
	case "?", "help":
		return command{kind: cmdHelp}, nil
	case "q", "quit", "exit":
		return command{kind: cmdQuit}, nil
	}
	return command{}, fmt.Errorf("unknown command :%s", name)
}
