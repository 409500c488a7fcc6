package domain

// TransientKind — вид временного состояния, которое само исчезает по таймеру.
type TransientKind int

const (
	TransientError TransientKind = iota + 1
	TransientLoveNote
)

func (k TransientKind) String() string {
	switch k {
	case TransientError:
		return "error"
	case TransientLoveNote:
		return "love_note"
	default:
		return "unknown"
	}
}

// Transient — временное сообщение. Gen — номер поколения: таймер, заведённый для старого
// поколения, не может погасить более новое сообщение.
type Transient struct {
	Message string
	Gen     uint64
	Active  bool
}

// EasterEgg — способ включения love-режима.
type EasterEgg string

const (
	// EasterEggCode — набранные подряд цифры совпали с секретным кодом.
	EasterEggCode EasterEgg = "code"
	// EasterEggEquation — успешно посчитано особое выражение.
	EasterEggEquation EasterEgg = "equation"
)

// Options — параметры сессии, не меняющиеся во время работы.
type Options struct {
	EasterEgg  EasterEgg
	SecretCode string
	Trigger    string
	LoveNote   string
}

// DefaultOptions — параметры по умолчанию.
func DefaultOptions() Options {
	return Options{
		EasterEgg:  EasterEggCode,
		SecretCode: "1314",
		Trigger:    "1 + 1",
		LoveNote:   "You make every equation balance 💖",
	}
}

// State — всё состояние калькулятора. Меняется только через редьюсер.
type State struct {
	Display  string
	Equation string
	History  []string

	Dark        bool
	Love        bool
	Scientific  bool
	ShowHistory bool

	Error    Transient
	LoveNote Transient

	SecretCode string
	// Seq — счётчик поколений транзиентов.
	Seq uint64
}

// NewState возвращает начальное состояние с загруженной историей.
func NewState(history []string) State {
	return State{
		Display: "0",
		History: TruncateHistory(history),
	}
}

// Preview — последняя запись истории (строка над дисплеем).
func (s State) Preview() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[0]
}

// ShowLoveNote — видна ли love-записка.
func (s State) ShowLoveNote() bool {
	return s.LoveNote.Active
}

// Clone возвращает копию состояния, не делящую слайс истории с исходным.
func (s State) Clone() State {
	c := s
	c.History = append(s.History[:0:0], s.History...)
	return c
}

// TruncateHistory обрезает список до HistoryCapacity, копируя его.
func TruncateHistory(entries []string) []string {
	if len(entries) > HistoryCapacity {
		entries = entries[:HistoryCapacity]
	}
	return append([]string{}, entries...)
}
