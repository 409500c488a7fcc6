package domain

import (
	"errors"
	"time"
)

// Ошибки вычислений. Текст ошибки — то, что показывается пользователю в транзиентном баннере.
var (
	ErrEmptyExpression      = errors.New("Empty expression")
	ErrDivisionByZero       = errors.New("Division by zero")
	ErrInvalidExpression    = errors.New("Invalid Expression")
	ErrInfiniteResult       = errors.New("Result is infinity")
	ErrNegativeSquareRoot   = errors.New("Cannot calculate square root of negative number")
	ErrNonPositiveLogarithm = errors.New("Cannot calculate log of zero or negative number")
	ErrInvalidOperation     = errors.New("Invalid operation")
)

var calculationErrors = []error{
	ErrEmptyExpression, ErrDivisionByZero, ErrInvalidExpression, ErrInfiniteResult,
	ErrNegativeSquareRoot, ErrNonPositiveLogarithm, ErrInvalidOperation,
}

// CalculationMessage возвращает текст для пользователя, если err — ошибка вычисления.
func CalculationMessage(err error) (string, bool) {
	for _, target := range calculationErrors {
		if errors.Is(err, target) {
			return target.Error(), true
		}
	}
	return "", false
}

// IsCalculationError сообщает, относится ли err к ошибкам вычисления (а не к инфраструктуре).
func IsCalculationError(err error) bool {
	_, ok := CalculationMessage(err)
	return ok
}

// Константы арифметических операций (кнопки клавиатуры калькулятора).
const (
	OpAdd     = "+"
	OpSub     = "-"
	OpMul     = "*"
	OpDiv     = "/"
	OpPercent = "%"
)

// Научные функции.
const (
	SciSin  = "sin"
	SciCos  = "cos"
	SciTan  = "tan"
	SciSqrt = "sqrt"
	SciLog  = "log"
	SciPow2 = "pow2"
)

// ScientificOps — все научные функции в порядке кнопок панели.
var ScientificOps = []string{SciSin, SciCos, SciTan, SciSqrt, SciLog, SciPow2}

const (
	// HistoryCapacity — сколько записей хранит история.
	HistoryCapacity = 10
	// HistoryKey — ключ, под которым история сохраняется в хранилище.
	HistoryKey = "calculatorHistory"
	// LoveMarker дописывается к записи истории, если расчёт сделан в love-режиме.
	LoveMarker = " 💝"

	ErrorTTL         = 3 * time.Second
	LoveNoteTTL      = 3 * time.Second
	LoveNoteEqualTTL = 5 * time.Second
)

// Виды расчёта для событий и аналитики.
const (
	KindArithmetic = "arithmetic"
	KindScientific = "scientific"
)

// Calculation — запись об одном расчёте (успешном или нет) для брокера и аналитики.
type Calculation struct {
	Kind       string    `json:"kind"`
	Expression string    `json:"expression"`
	Result     string    `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
	Love       bool      `json:"love"`
	Timestamp  time.Time `json:"timestamp"`
}

// Failed — расчёт завершился ошибкой.
func (c Calculation) Failed() bool {
	return c.Error != ""
}
