package domain

import (
	"slices"
	"time"
)

// EventKind — вид входного события (кнопка или клавиша).
type EventKind int

const (
	EventDigit EventKind = iota + 1
	EventOperator
	EventEquals
	EventBackspace
	EventClear
	EventScientific
	EventToggleDark
	EventToggleLove
	EventToggleScientific
	EventToggleHistory
	EventCloseHistory
	EventDismiss
)

// Event — входное событие. Token — цифра, оператор или имя научной функции.
// Transient и Gen заполняются только для EventDismiss.
type Event struct {
	Kind      EventKind
	Token     string
	Transient TransientKind
	Gen       uint64
}

func Digit(token string) Event    { return Event{Kind: EventDigit, Token: token} }
func Operator(op string) Event    { return Event{Kind: EventOperator, Token: op} }
func Equals() Event               { return Event{Kind: EventEquals} }
func Backspace() Event            { return Event{Kind: EventBackspace} }
func Clear() Event                { return Event{Kind: EventClear} }
func Scientific(op string) Event  { return Event{Kind: EventScientific, Token: op} }
func Toggle(kind EventKind) Event { return Event{Kind: kind} }

// Dismiss — событие истечения таймера транзиента.
func Dismiss(kind TransientKind, gen uint64) Event {
	return Event{Kind: EventDismiss, Transient: kind, Gen: gen}
}

// Имена режимов для внешних интерфейсов.
const (
	ModeDark       = "dark"
	ModeLove       = "love"
	ModeScientific = "scientific"
	ModeHistory    = "history"
)

var modeEvents = map[string]EventKind{
	ModeDark:       EventToggleDark,
	ModeLove:       EventToggleLove,
	ModeScientific: EventToggleScientific,
	ModeHistory:    EventToggleHistory,
}

// ToggleMode возвращает событие переключения режима по имени.
func ToggleMode(mode string) (Event, bool) {
	kind, ok := modeEvents[mode]
	if !ok {
		return Event{}, false
	}
	return Toggle(kind), true
}

// IsScientificOp — входит ли op в набор научных функций.
func IsScientificOp(op string) bool {
	return slices.Contains(ScientificOps, op)
}

// Tone — короткий звук обратной связи.
type Tone int

const (
	ToneButton Tone = iota + 1
	ToneCalculate
	ToneClear
)

// ToneDuration — длительность любого тона.
const ToneDuration = 100 * time.Millisecond

// Frequency возвращает частоту тона в герцах.
func (t Tone) Frequency() float64 {
	switch t {
	case ToneButton:
		return 440
	case ToneCalculate:
		return 660
	case ToneClear:
		return 330
	default:
		return 0
	}
}

// Effect — побочный эффект, который редьюсер просит выполнить снаружи.
type Effect interface {
	isEffect()
}

// PlayTone — проиграть звук.
type PlayTone struct {
	Tone Tone
}

// ScheduleDismiss — через After отправить Dismiss(Transient, Gen).
type ScheduleDismiss struct {
	Transient TransientKind
	Gen       uint64
	After     time.Duration
}

// HistoryChanged — история изменилась и её нужно сохранить.
type HistoryChanged struct {
	Entries []string
}

// Calculated — завершён расчёт (для брокера событий).
type Calculated struct {
	Calculation Calculation
}

func (PlayTone) isEffect()        {}
func (ScheduleDismiss) isEffect() {}
func (HistoryChanged) isEffect()  {}
func (Calculated) isEffect()      {}
