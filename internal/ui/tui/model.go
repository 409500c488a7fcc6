// Package tui — терминальный интерфейс калькулятора на bubbletea.
package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
	calcUsecase "lovecalc/internal/usecase/calculator"
)

// dismissMsg — сработал таймер транзиента.
type dismissMsg struct {
	kind domain.TransientKind
	gen  uint64
}

// Options — настройки интерфейса.
type Options struct {
	// Sound включает терминальный звонок вместо тонов.
	Sound bool
	// Bell — куда писать звонок (по умолчанию никуда).
	Bell io.Writer
}

// Model реализует tea.Model поверх use case калькулятора.
type Model struct {
	ctx   context.Context
	uc    ports.ICalculatorUseCase
	state domain.State
	opts  Options

	keys keyMap
	help help.Model

	width  int
	height int
}

// New создаёт модель. История должна быть уже загружена в uc.
func New(ctx context.Context, uc ports.ICalculatorUseCase, opts Options) Model {
	if opts.Bell == nil {
		opts.Bell = io.Discard
	}
	return Model{
		ctx:   ctx,
		uc:    uc,
		state: uc.State(),
		opts:  opts,
		keys:  newKeyMap(),
		help:  help.New(),
	}
}

// Run запускает программу в альтернативном экране и блокируется до выхода.
func Run(ctx context.Context, uc ports.ICalculatorUseCase, opts Options) error {
	p := tea.NewProgram(New(ctx, uc, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case dismissMsg:
		return m.dispatch(domain.Dismiss(msg.kind, msg.gen))
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Dark):
		return m.dispatch(domain.Toggle(domain.EventToggleDark))
	case key.Matches(msg, m.keys.Love):
		return m.dispatch(domain.Toggle(domain.EventToggleLove))
	case key.Matches(msg, m.keys.Scientific):
		return m.dispatch(domain.Toggle(domain.EventToggleScientific))
	case key.Matches(msg, m.keys.History):
		return m.dispatch(domain.Toggle(domain.EventToggleHistory))
	}
	if m.state.Scientific {
		if op, ok := m.keys.scientificOp(msg); ok {
			return m.dispatch(domain.Scientific(op))
		}
	}
	if ev, ok := calcUsecase.KeyToEvent(keyName(msg)); ok {
		return m.dispatch(ev)
	}
	return m, nil
}

// dispatch отправляет событие в use case и превращает эффекты в команды: таймеры и звонок.
func (m Model) dispatch(ev domain.Event) (tea.Model, tea.Cmd) {
	state, effects := m.uc.Dispatch(m.ctx, ev)
	m.state = state

	var cmds []tea.Cmd
	for _, eff := range effects {
		switch e := eff.(type) {
		case domain.ScheduleDismiss:
			cmds = append(cmds, dismissAfter(e.Transient, e.Gen, e.After))
		case domain.PlayTone:
			if m.opts.Sound {
				cmds = append(cmds, m.ring())
			}
		}
	}
	switch len(cmds) {
	case 0:
		return m, nil
	case 1:
		return m, cmds[0]
	}
	return m, tea.Batch(cmds...)
}

func dismissAfter(kind domain.TransientKind, gen uint64, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return dismissMsg{kind: kind, gen: gen}
	})
}

func (m Model) ring() tea.Cmd {
	w := m.opts.Bell
	return func() tea.Msg {
		_, _ = io.WriteString(w, "\a")
		return nil
	}
}

// State — текущее состояние (для тестов и внешнего кода).
func (m Model) State() domain.State {
	return m.state
}
