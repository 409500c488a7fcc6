package calculator

import "lovecalc/internal/domain"

// operatorKeys — клавиши операторов; x и X — умножение.
var operatorKeys = map[string]string{
	"+": domain.OpAdd,
	"-": domain.OpSub,
	"*": domain.OpMul,
	"/": domain.OpDiv,
	"x": domain.OpMul,
	"X": domain.OpMul,
}

// KeyToEvent переводит имя клавиши (в терминах KeyboardEvent.key) в событие калькулятора.
// Второе значение false — клавиша калькулятору не нужна.
func KeyToEvent(key string) (domain.Event, bool) {
	if isDigitToken(key) {
		return domain.Digit(key), true
	}
	if op, ok := operatorKeys[key]; ok {
		return domain.Operator(op), true
	}
	switch key {
	case "Enter", "=":
		return domain.Equals(), true
	case "Backspace":
		return domain.Backspace(), true
	case "Delete", "Escape":
		return domain.Clear(), true
	}
	return domain.Event{}, false
}
