package calculator

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"lovecalc/internal/domain"
)

// resultPlaces — сколько знаков после запятой остаётся у нецелого результата.
const resultPlaces = 6

// Evaluate проверяет, очищает и вычисляет накопленное выражение, возвращая отформатированный результат.
//
// Проверка деления на ноль синтаксическая: ищется подстрока "/0" в исходном тексте, поэтому
// "10/05" отклоняется, а "5 / 0" (как его собирает клавиатура) доходит до вычисления и
// падает уже как бесконечный результат.
func Evaluate(equation string) (string, error) {
	if strings.TrimSpace(equation) == "" {
		return "", domain.ErrEmptyExpression
	}
	if strings.Contains(equation, "/0") {
		return "", domain.ErrDivisionByZero
	}
	v, err := evalArithmetic(sanitize(equation))
	if err != nil {
		return "", err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "", domain.ErrInfiniteResult
	}
	return formatResult(v), nil
}

// sanitize выбрасывает всё, кроме цифр, точки, скобок и + - * /.
func sanitize(equation string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("-()/*+.", r):
			return r
		}
		return -1
	}, equation)
}

// formatResult: целое — без дробной части, иначе округление до 6 знаков без хвостовых нулей.
func formatResult(v float64) string {
	if isIntegral(v) {
		return formatNumber(v)
	}
	return decimal.NewFromFloat(v).Round(resultPlaces).String()
}

// formatScientific: целое — без дробной части, иначе ровно 6 знаков (нули не срезаются).
func formatScientific(v float64) string {
	if isIntegral(v) {
		return formatNumber(v)
	}
	return decimal.NewFromFloat(v).StringFixed(resultPlaces)
}

// expThreshold — с этого модуля целые печатаются в экспоненте ("1e+21"), как в JavaScript.
const expThreshold = 1e21

// formatNumber печатает число кратчайшим десятичным представлением, -0 печатается как 0.
func formatNumber(v float64) string {
	if v == 0 {
		v = 0
	}
	if math.Abs(v) >= expThreshold {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isIntegral(v float64) bool {
	return v == math.Trunc(v)
}

// errorMessage возвращает текст для пользователя: сообщение доменной ошибки без технических подробностей.
func errorMessage(err error) string {
	if msg, ok := domain.CalculationMessage(err); ok {
		return msg
	}
	return domain.ErrInvalidExpression.Error()
}
