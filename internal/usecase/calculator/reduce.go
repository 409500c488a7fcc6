package calculator

import (
	"fmt"
	"strings"
	"time"

	"lovecalc/internal/domain"
)

// Reduce применяет событие к состоянию и возвращает новое состояние и эффекты, которые надо выполнить снаружи
// (звук, таймеры транзиентов, сохранение истории, публикация расчёта). Входное состояние не меняется.
func Reduce(opts domain.Options, s domain.State, ev domain.Event) (domain.State, []domain.Effect) {
	s = s.Clone()
	switch ev.Kind {
	case domain.EventDigit:
		return appendDigit(opts, s, ev.Token)
	case domain.EventOperator:
		return appendOperator(s, ev.Token)
	case domain.EventBackspace:
		return deleteLast(s)
	case domain.EventClear:
		return clearInput(s)
	case domain.EventEquals:
		return calculate(opts, s)
	case domain.EventScientific:
		return scientific(s, ev.Token)
	case domain.EventToggleDark:
		s.Dark = !s.Dark
	case domain.EventToggleLove:
		s.Love = !s.Love
	case domain.EventToggleScientific:
		s.Scientific = !s.Scientific
	case domain.EventToggleHistory:
		s.ShowHistory = !s.ShowHistory
	case domain.EventCloseHistory:
		s.ShowHistory = false
	case domain.EventDismiss:
		dismiss(&s, ev.Transient, ev.Gen)
	}
	return s, nil
}

func isDigitToken(token string) bool {
	return len(token) == 1 && (token[0] == '.' || token[0] >= '0' && token[0] <= '9')
}

func isOperatorToken(token string) bool {
	switch token {
	case domain.OpAdd, domain.OpSub, domain.OpMul, domain.OpDiv, domain.OpPercent:
		return true
	}
	return false
}

func appendDigit(opts domain.Options, s domain.State, token string) (domain.State, []domain.Effect) {
	if !isDigitToken(token) {
		return s, nil
	}
	effects := []domain.Effect{domain.PlayTone{Tone: domain.ToneButton}}
	if s.Display == "0" {
		s.Display = token
	} else {
		s.Display += token
	}
	s.Equation += token

	if opts.EasterEgg == domain.EasterEggCode && opts.SecretCode != "" {
		s.SecretCode += token
		if s.SecretCode == opts.SecretCode {
			s.Love = true
			effects = append(effects, raise(&s, domain.TransientLoveNote, opts.LoveNote, domain.LoveNoteTTL))
		}
		if len(s.SecretCode) >= len(opts.SecretCode) {
			s.SecretCode = ""
		}
	}
	return s, effects
}

func appendOperator(s domain.State, op string) (domain.State, []domain.Effect) {
	if !isOperatorToken(op) {
		return s, nil
	}
	s.Equation += " " + op + " "
	s.Display = "0"
	return s, []domain.Effect{domain.PlayTone{Tone: domain.ToneButton}}
}

// deleteLast убирает последний символ дисплея. Если уравнение кончается тем же символом, он
// убирается и оттуда, чтобы следующий расчёт видел то же, что на экране.
func deleteLast(s domain.State) (domain.State, []domain.Effect) {
	if s.Display != "" {
		last := s.Display[len(s.Display)-1:]
		s.Display = s.Display[:len(s.Display)-1]
		if strings.HasSuffix(s.Equation, last) {
			s.Equation = s.Equation[:len(s.Equation)-1]
		}
	}
	if s.Display == "" {
		s.Display = "0"
	}
	return s, []domain.Effect{domain.PlayTone{Tone: domain.ToneButton}}
}

func clearInput(s domain.State) (domain.State, []domain.Effect) {
	s.Display = "0"
	s.Equation = ""
	s.Love = false
	return s, []domain.Effect{domain.PlayTone{Tone: domain.ToneClear}}
}

func calculate(opts domain.Options, s domain.State) (domain.State, []domain.Effect) {
	effects := []domain.Effect{domain.PlayTone{Tone: domain.ToneCalculate}}
	equation := s.Equation
	rec := domain.Calculation{Kind: domain.KindArithmetic, Expression: equation, Love: s.Love}

	result, err := Evaluate(equation)
	if err != nil {
		s.Display = "0"
		s.Equation = ""
		rec.Error = errorMessage(err)
		effects = append(effects,
			raise(&s, domain.TransientError, rec.Error, domain.ErrorTTL),
			domain.Calculated{Calculation: rec})
		return s, effects
	}

	entry := equation + " = " + result
	if s.Love {
		entry += domain.LoveMarker
	}
	s.Display = result
	s.Equation = result
	s.History = pushHistory(s.History, entry)
	rec.Result = result
	effects = append(effects,
		domain.HistoryChanged{Entries: append([]string(nil), s.History...)},
		domain.Calculated{Calculation: rec})

	if opts.EasterEgg == domain.EasterEggEquation && strings.TrimSpace(equation) == opts.Trigger {
		s.Love = true
		effects = append(effects, raise(&s, domain.TransientLoveNote, opts.LoveNote, domain.LoveNoteEqualTTL))
	}
	return s, effects
}

func scientific(s domain.State, op string) (domain.State, []domain.Effect) {
	effects := []domain.Effect{domain.PlayTone{Tone: domain.ToneButton}}
	value := parseDisplay(s.Display)
	input := formatNumber(value)
	rec := domain.Calculation{Kind: domain.KindScientific, Expression: fmt.Sprintf("%s(%s)", op, input), Love: s.Love}

	result, err := ApplyScientific(op, value)
	if err != nil {
		rec.Error = errorMessage(err)
		effects = append(effects,
			raise(&s, domain.TransientError, rec.Error, domain.ErrorTTL),
			domain.Calculated{Calculation: rec})
		return s, effects
	}

	entry := rec.Expression + " = " + result
	s.Display = result
	s.Equation = entry
	s.History = pushHistory(s.History, entry)
	rec.Result = result
	effects = append(effects,
		domain.HistoryChanged{Entries: append([]string(nil), s.History...)},
		domain.Calculated{Calculation: rec})
	return s, effects
}

// raise показывает транзиент с новым поколением и возвращает эффект таймера для его скрытия.
func raise(s *domain.State, kind domain.TransientKind, msg string, ttl time.Duration) domain.Effect {
	s.Seq++
	t := domain.Transient{Message: msg, Gen: s.Seq, Active: true}
	switch kind {
	case domain.TransientError:
		s.Error = t
	case domain.TransientLoveNote:
		s.LoveNote = t
	}
	return domain.ScheduleDismiss{Transient: kind, Gen: s.Seq, After: ttl}
}

// dismiss гасит транзиент, только если таймер относится к текущему поколению.
func dismiss(s *domain.State, kind domain.TransientKind, gen uint64) {
	switch kind {
	case domain.TransientError:
		if s.Error.Active && s.Error.Gen == gen {
			s.Error = domain.Transient{}
		}
	case domain.TransientLoveNote:
		if s.LoveNote.Active && s.LoveNote.Gen == gen {
			s.LoveNote = domain.Transient{}
		}
	}
}
