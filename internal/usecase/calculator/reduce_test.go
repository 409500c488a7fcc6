package calculator

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovecalc/internal/domain"
)

// run прогоняет события через редьюсер и собирает все эффекты.
func run(opts domain.Options, s domain.State, events ...domain.Event) (domain.State, []domain.Effect) {
	var all []domain.Effect
	for _, ev := range events {
		var effects []domain.Effect
		s, effects = Reduce(opts, s, ev)
		all = append(all, effects...)
	}
	return s, all
}

// typeKeys превращает строку вроде "12+3=" в события клавиатуры.
func typeKeys(t *testing.T, keys string) []domain.Event {
	t.Helper()
	events := make([]domain.Event, 0, len(keys))
	for _, r := range keys {
		ev, ok := KeyToEvent(string(r))
		require.True(t, ok, "key %q", r)
		events = append(events, ev)
	}
	return events
}

func dismissals(effects []domain.Effect) []domain.ScheduleDismiss {
	var out []domain.ScheduleDismiss
	for _, eff := range effects {
		if d, ok := eff.(domain.ScheduleDismiss); ok {
			out = append(out, d)
		}
	}
	return out
}

func TestReduce_AppendDigit(t *testing.T) {
	s, effects := run(domain.DefaultOptions(), domain.NewState(nil), domain.Digit("1"), domain.Digit("2"))
	assert.Equal(t, "12", s.Display)
	assert.Equal(t, "12", s.Equation)
	assert.Equal(t, []domain.Effect{domain.PlayTone{Tone: domain.ToneButton}, domain.PlayTone{Tone: domain.ToneButton}}, effects)

	// Ноль на дисплее заменяется, но в уравнение символ дописывается как есть.
	s, _ = run(domain.DefaultOptions(), domain.NewState(nil), domain.Digit("0"), domain.Digit("5"))
	assert.Equal(t, "5", s.Display)
	assert.Equal(t, "05", s.Equation)

	// Несколько точек в числе допустимы.
	s, _ = run(domain.DefaultOptions(), domain.NewState(nil), typeKeys(t, "1.2.3")...)
	assert.Equal(t, "1.2.3", s.Display)
}

func TestReduce_AppendOperator(t *testing.T) {
	s, _ := run(domain.DefaultOptions(), domain.NewState(nil), typeKeys(t, "12+")...)
	assert.Equal(t, "0", s.Display)
	assert.Equal(t, "12 + ", s.Equation)

	s, _ = run(domain.DefaultOptions(), s, domain.Digit("3"))
	assert.Equal(t, "3", s.Display)
	assert.Equal(t, "12 + 3", s.Equation)
}

func TestReduce_InvalidTokensIgnored(t *testing.T) {
	start := domain.NewState(nil)
	s, effects := run(domain.DefaultOptions(), start, domain.Digit("a"), domain.Digit("12"), domain.Operator("^"))
	assert.Equal(t, start, s)
	assert.Empty(t, effects)
}

func TestReduce_Backspace(t *testing.T) {
	tests := []struct {
		name         string
		keys         string
		wantDisplay  string
		wantEquation string
	}{
		{name: "начальное состояние", keys: "", wantDisplay: "0", wantEquation: ""},
		{name: "одна цифра", keys: "7", wantDisplay: "0", wantEquation: ""},
		{name: "две цифры", keys: "12", wantDisplay: "1", wantEquation: "1"},
		{name: "после оператора дисплей ноль", keys: "12+", wantDisplay: "0", wantEquation: "12 + "},
		{name: "второй операнд", keys: "12+34", wantDisplay: "3", wantEquation: "12 + 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := append(typeKeys(t, tt.keys), domain.Backspace())
			s, _ := run(domain.DefaultOptions(), domain.NewState(nil), events...)
			assert.Equal(t, tt.wantDisplay, s.Display)
			assert.Equal(t, tt.wantEquation, s.Equation)
		})
	}
}

func TestReduce_BackspaceOnEmptyDisplay(t *testing.T) {
	s := domain.NewState(nil)
	s.Display = ""
	s, _ = Reduce(domain.DefaultOptions(), s, domain.Backspace())
	assert.Equal(t, "0", s.Display)
}

func TestReduce_Clear(t *testing.T) {
	s := domain.NewState(nil)
	s.Love = true
	s, effects := run(domain.DefaultOptions(), s, append(typeKeys(t, "12+3"), domain.Clear())...)
	assert.Equal(t, "0", s.Display)
	assert.Empty(t, s.Equation)
	assert.False(t, s.Love)
	assert.Equal(t, domain.PlayTone{Tone: domain.ToneClear}, effects[len(effects)-1])
}

func TestReduce_CalculateAndChain(t *testing.T) {
	s, effects := run(domain.DefaultOptions(), domain.NewState(nil), typeKeys(t, "2+3=")...)
	assert.Equal(t, "5", s.Display)
	assert.Equal(t, "5", s.Equation)
	assert.Equal(t, []string{"2 + 3 = 5"}, s.History)
	assert.Equal(t, "2 + 3 = 5", s.Preview())
	assert.Contains(t, effects, domain.Effect(domain.PlayTone{Tone: domain.ToneCalculate}))
	assert.Contains(t, effects, domain.Effect(domain.HistoryChanged{Entries: []string{"2 + 3 = 5"}}))
	assert.Contains(t, effects, domain.Effect(domain.Calculated{Calculation: domain.Calculation{
		Kind: domain.KindArithmetic, Expression: "2 + 3", Result: "5",
	}}))

	// Результат остаётся в уравнении, поэтому следующий оператор продолжает расчёт.
	s, _ = run(domain.DefaultOptions(), s, typeKeys(t, "*4=")...)
	assert.Equal(t, "20", s.Display)
	assert.Equal(t, []string{"5 * 4 = 20", "2 + 3 = 5"}, s.History)
}

func TestReduce_CalculateError(t *testing.T) {
	s, effects := run(domain.DefaultOptions(), domain.NewState(nil), typeKeys(t, "5/0=")...)
	assert.Equal(t, "0", s.Display)
	assert.Empty(t, s.Equation)
	assert.Empty(t, s.History)
	assert.True(t, s.Error.Active)
	assert.Equal(t, "Result is infinity", s.Error.Message)
	assert.Equal(t, []domain.ScheduleDismiss{{Transient: domain.TransientError, Gen: s.Error.Gen, After: domain.ErrorTTL}}, dismissals(effects))
	for _, eff := range effects {
		_, changed := eff.(domain.HistoryChanged)
		assert.False(t, changed)
	}
}

func TestReduce_DoubleOperator(t *testing.T) {
	t.Run("сдвоенный знак отклоняется", func(t *testing.T) {
		for _, keys := range []string{"2--3=", "2++3="} {
			s, effects := run(domain.DefaultOptions(), domain.NewState(nil), typeKeys(t, keys)...)
			assert.Equal(t, "0", s.Display, keys)
			assert.Empty(t, s.Equation, keys)
			assert.Empty(t, s.History, keys)
			assert.True(t, s.Error.Active, keys)
			assert.Equal(t, "Invalid Expression", s.Error.Message, keys)
			for _, eff := range effects {
				_, changed := eff.(domain.HistoryChanged)
				assert.False(t, changed, keys)
			}
		}
	})

	t.Run("минус после другого оператора делает операнд отрицательным", func(t *testing.T) {
		s, _ := run(domain.DefaultOptions(), domain.NewState(nil), typeKeys(t, "2+-3=")...)
		assert.Equal(t, "-1", s.Display)
		assert.False(t, s.Error.Active)
		assert.Equal(t, []string{"2 +  - 3 = -1"}, s.History)

		s, _ = run(domain.DefaultOptions(), domain.NewState(nil), typeKeys(t, "6*-2=")...)
		assert.Equal(t, "-12", s.Display)
		assert.Equal(t, []string{"6 *  - 2 = -12"}, s.History)
	})
}

func TestReduce_CalculateEmpty(t *testing.T) {
	s, effects := Reduce(domain.DefaultOptions(), domain.NewState(nil), domain.Equals())
	assert.Equal(t, "Empty expression", s.Error.Message)
	assert.Contains(t, effects, domain.Effect(domain.Calculated{Calculation: domain.Calculation{
		Kind: domain.KindArithmetic, Error: "Empty expression",
	}}))
}

func TestReduce_HistoryCapacity(t *testing.T) {
	opts := domain.DefaultOptions()
	s := domain.NewState(nil)
	for i := 1; i <= 11; i++ {
		events := []domain.Event{domain.Clear()}
		events = append(events, typeKeys(t, strconv.Itoa(i)+"+1=")...)
		s, _ = run(opts, s, events...)
	}
	require.Len(t, s.History, domain.HistoryCapacity)
	assert.Equal(t, "11 + 1 = 12", s.History[0])
	assert.Equal(t, "2 + 1 = 3", s.History[9])
	assert.NotContains(t, s.History, "1 + 1 = 2")
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	start := domain.NewState([]string{"1 + 1 = 2"})
	start.Equation = "2 + 2"
	_, _ = Reduce(domain.DefaultOptions(), start, domain.Equals())
	assert.Equal(t, []string{"1 + 1 = 2"}, start.History)
	assert.Equal(t, "2 + 2", start.Equation)
}

func TestReduce_Scientific(t *testing.T) {
	s := domain.NewState(nil)
	s.Display = "4"
	s, effects := Reduce(domain.DefaultOptions(), s, domain.Scientific(domain.SciSqrt))
	assert.Equal(t, "2", s.Display)
	assert.Equal(t, "sqrt(4) = 2", s.Equation)
	assert.Equal(t, []string{"sqrt(4) = 2"}, s.History)
	assert.Contains(t, effects, domain.Effect(domain.HistoryChanged{Entries: []string{"sqrt(4) = 2"}}))

	s = domain.NewState(nil)
	s.Display = "30"
	s, _ = Reduce(domain.DefaultOptions(), s, domain.Scientific(domain.SciSin))
	assert.Equal(t, "0.500000", s.Display)
	assert.Equal(t, "sin(30) = 0.500000", s.Equation)
}

func TestReduce_ScientificErrorKeepsState(t *testing.T) {
	tests := []struct {
		name    string
		display string
		op      string
		message string
	}{
		{name: "корень из отрицательного", display: "-4", op: domain.SciSqrt, message: "Cannot calculate square root of negative number"},
		{name: "логарифм нуля", display: "0", op: domain.SciLog, message: "Cannot calculate log of zero or negative number"},
		{name: "неизвестная функция", display: "2", op: "cbrt", message: "Invalid operation"},
		{name: "на дисплее не число", display: ".", op: domain.SciSin, message: "Invalid Expression"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.NewState([]string{"1 + 1 = 2"})
			s.Display = tt.display
			s.Equation = "0 - 4"
			s, effects := Reduce(domain.DefaultOptions(), s, domain.Scientific(tt.op))
			assert.Equal(t, tt.display, s.Display)
			assert.Equal(t, "0 - 4", s.Equation)
			assert.Equal(t, []string{"1 + 1 = 2"}, s.History)
			assert.True(t, s.Error.Active)
			assert.Equal(t, tt.message, s.Error.Message)
			assert.Len(t, dismissals(effects), 1)
		})
	}
}

func TestReduce_TransientGenerations(t *testing.T) {
	opts := domain.DefaultOptions()
	s, first := Reduce(opts, domain.NewState(nil), domain.Equals())
	s, second := Reduce(opts, s, domain.Equals())
	firstGen := dismissals(first)[0].Gen
	secondGen := dismissals(second)[0].Gen
	require.NotEqual(t, firstGen, secondGen)

	// Таймер первой ошибки не гасит вторую.
	s, _ = Reduce(opts, s, domain.Dismiss(domain.TransientError, firstGen))
	assert.True(t, s.Error.Active)

	s, _ = Reduce(opts, s, domain.Dismiss(domain.TransientError, secondGen))
	assert.False(t, s.Error.Active)
	assert.Empty(t, s.Error.Message)
}

func TestReduce_SecretCode(t *testing.T) {
	opts := domain.DefaultOptions()
	s, effects := run(opts, domain.NewState(nil), typeKeys(t, "1314")...)
	assert.True(t, s.Love)
	assert.True(t, s.ShowLoveNote())
	assert.Equal(t, opts.LoveNote, s.LoveNote.Message)
	assert.Empty(t, s.SecretCode)
	assert.Equal(t, []domain.ScheduleDismiss{{Transient: domain.TransientLoveNote, Gen: s.LoveNote.Gen, After: domain.LoveNoteTTL}}, dismissals(effects))

	s, _ = Reduce(opts, s, domain.Dismiss(domain.TransientLoveNote, s.LoveNote.Gen))
	assert.False(t, s.ShowLoveNote())
	assert.True(t, s.Love)

	// Love-режим помечает записи истории.
	s, _ = run(opts, s, typeKeys(t, "+1=")...)
	assert.Equal(t, "1314 + 1 = 1315"+domain.LoveMarker, s.History[0])
}

func TestReduce_SecretCodeBufferResetsEveryFourDigits(t *testing.T) {
	opts := domain.DefaultOptions()

	s, _ := run(opts, domain.NewState(nil), typeKeys(t, "1234")...)
	assert.Empty(t, s.SecretCode)
	assert.False(t, s.Love)

	// Код не совпал с границей буфера — не срабатывает.
	s, _ = run(opts, domain.NewState(nil), typeKeys(t, "51314")...)
	assert.False(t, s.Love)
	assert.Equal(t, "4", s.SecretCode)

	// Операторы буфер не трогают.
	s, _ = run(opts, domain.NewState(nil), typeKeys(t, "13+14")...)
	assert.True(t, s.Love)
}

func TestReduce_TriggerEquation(t *testing.T) {
	opts := domain.DefaultOptions()
	opts.EasterEgg = domain.EasterEggEquation

	s, effects := run(opts, domain.NewState(nil), typeKeys(t, "1+1=")...)
	assert.True(t, s.Love)
	assert.True(t, s.ShowLoveNote())
	assert.Equal(t, "1 + 1 = 2", s.History[0])
	assert.Equal(t, []domain.ScheduleDismiss{{Transient: domain.TransientLoveNote, Gen: s.LoveNote.Gen, After: domain.LoveNoteEqualTTL}}, dismissals(effects))

	// В этом варианте секретный код не работает.
	s, _ = run(opts, domain.NewState(nil), typeKeys(t, "1314")...)
	assert.False(t, s.Love)
	assert.Empty(t, s.SecretCode)
}

func TestReduce_Toggles(t *testing.T) {
	opts := domain.DefaultOptions()
	s, effects := run(opts, domain.NewState(nil),
		domain.Toggle(domain.EventToggleDark),
		domain.Toggle(domain.EventToggleLove),
		domain.Toggle(domain.EventToggleScientific),
		domain.Toggle(domain.EventToggleHistory),
	)
	assert.True(t, s.Dark)
	assert.True(t, s.Love)
	assert.True(t, s.Scientific)
	assert.True(t, s.ShowHistory)
	assert.Empty(t, effects)

	s, _ = Reduce(opts, s, domain.Toggle(domain.EventCloseHistory))
	assert.False(t, s.ShowHistory)
	s, _ = Reduce(opts, s, domain.Toggle(domain.EventCloseHistory))
	assert.False(t, s.ShowHistory)
}
