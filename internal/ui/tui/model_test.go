package tui

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovecalc/internal/domain"
	"lovecalc/internal/infrastructure/memory"
	calcUsecase "lovecalc/internal/usecase/calculator"
)

func newTestModel(t *testing.T, opts Options, history ...string) (Model, *memory.HistoryStore) {
	t.Helper()
	store := memory.NewHistoryStore(history...)
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	uc := calcUsecase.New(store, nil, nil, domain.DefaultOptions(), log)
	require.NoError(t, uc.Load(context.Background()))
	return New(context.Background(), uc, opts), store
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press прогоняет сообщения через Update и возвращает итоговую модель и последнюю команду.
func press(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = press(m, runes(string(r)))
	}
	return m
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{name: "enter", msg: tea.KeyMsg{Type: tea.KeyEnter}, want: "Enter"},
		{name: "backspace", msg: tea.KeyMsg{Type: tea.KeyBackspace}, want: "Backspace"},
		{name: "delete", msg: tea.KeyMsg{Type: tea.KeyDelete}, want: "Delete"},
		{name: "esc", msg: tea.KeyMsg{Type: tea.KeyEsc}, want: "Escape"},
		{name: "цифра", msg: runes("7"), want: "7"},
		{name: "x", msg: runes("x"), want: "x"},
		{name: "alt+1", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true}, want: ""},
		{name: "вставка", msg: runes("123"), want: ""},
		{name: "tab", msg: tea.KeyMsg{Type: tea.KeyTab}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyName(tt.msg))
		})
	}
}

func TestModel_Calculate(t *testing.T) {
	m, store := newTestModel(t, Options{})

	m = typeText(m, "12+3")
	assert.Equal(t, "3", m.State().Display)
	assert.Equal(t, "12 + 3", m.State().Equation)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "15", m.State().Display)
	assert.Equal(t, "12 + 3 = 15", m.State().Preview())

	saved, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"12 + 3 = 15"}, saved)

	assert.Contains(t, m.View(), "15")
}

func TestModel_BackspaceAndClear(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = typeText(m, "42")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "4", m.State().Display)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "0", m.State().Display)
	assert.Empty(t, m.State().Equation)
}

// Ошибка показывается и гасится своим таймером; чужое поколение её не трогает.
func TestModel_ErrorDismiss(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = typeText(m, "5/0")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "нужен таймер скрытия ошибки")
	require.True(t, m.State().Error.Active)
	assert.Contains(t, m.View(), "Result is infinity")

	gen := m.State().Error.Gen
	m, _ = press(m, dismissMsg{kind: domain.TransientError, gen: gen + 1})
	assert.True(t, m.State().Error.Active)

	m, _ = press(m, dismissMsg{kind: domain.TransientError, gen: gen})
	assert.False(t, m.State().Error.Active)
	assert.NotContains(t, m.View(), "Result is infinity")
}

func TestModel_Toggles(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.True(t, m.State().Dark)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.True(t, m.State().Love)
	assert.Contains(t, m.View(), "Love Calculator")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.True(t, m.State().ShowHistory)
	assert.Contains(t, m.View(), "No calculations yet")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.False(t, m.State().ShowHistory)
}

func TestModel_ScientificKeysNeedPanel(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = typeText(m, "16")

	// Без панели "r" ничего не делает.
	m, _ = press(m, runes("r"))
	assert.Equal(t, "16", m.State().Display)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlF})
	require.True(t, m.State().Scientific)
	assert.Contains(t, m.View(), "log")

	m, _ = press(m, runes("r"))
	assert.Equal(t, "4.000000", m.State().Display)
	assert.Equal(t, "sqrt(16) = 4.000000", m.State().Preview())
}

func TestModel_SecretCode(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	m = typeText(m, "1314")
	assert.True(t, m.State().Love)
	assert.True(t, m.State().ShowLoveNote())
	assert.Contains(t, m.View(), domain.DefaultOptions().LoveNote)
}

func TestModel_Sound(t *testing.T) {
	var bell bytes.Buffer
	m, _ := newTestModel(t, Options{Sound: true, Bell: &bell})

	_, cmd := press(m, runes("1"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, "\a", bell.String())

	silent, _ := newTestModel(t, Options{})
	_, cmd = press(silent, runes("1"))
	assert.Nil(t, cmd)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_LoadedHistoryPreview(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "2 * 2 = 4")
	assert.Contains(t, m.View(), "2 * 2 = 4")
}
