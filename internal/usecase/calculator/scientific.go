package calculator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"lovecalc/internal/domain"
)

var scientificFuncs = map[string]func(float64) (float64, error){
	domain.SciSin: func(v float64) (float64, error) { return math.Sin(v * math.Pi / 180), nil },
	domain.SciCos: func(v float64) (float64, error) { return math.Cos(v * math.Pi / 180), nil },
	domain.SciTan: func(v float64) (float64, error) { return math.Tan(v * math.Pi / 180), nil },
	domain.SciSqrt: func(v float64) (float64, error) {
		if v < 0 {
			return 0, domain.ErrNegativeSquareRoot
		}
		return math.Sqrt(v), nil
	},
	domain.SciLog: func(v float64) (float64, error) {
		if v <= 0 {
			return 0, domain.ErrNonPositiveLogarithm
		}
		return math.Log10(v), nil
	},
	domain.SciPow2: func(v float64) (float64, error) { return v * v, nil },
}

// ApplyScientific применяет научную функцию к значению. Углы — в градусах.
// NaN на входе означает, что дисплей не содержит числа.
func ApplyScientific(op string, value float64) (string, error) {
	fn, ok := scientificFuncs[op]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidOperation, op)
	}
	if math.IsNaN(value) {
		return "", domain.ErrInvalidExpression
	}
	result, err := fn(value)
	if err != nil {
		return "", err
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return "", domain.ErrInfiniteResult
	}
	return formatScientific(result), nil
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseDisplay читает число из начала строки дисплея, хвост игнорируется ("1.2.3" → 1.2).
// Если числа нет, возвращает NaN.
func parseDisplay(display string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(display))
	if m == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
