package calculator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lovecalc/internal/domain"
)

// maxDepth ограничивает вложенность скобок и унарных знаков.
const maxDepth = 256

// parser — рекурсивный спуск по арифметике: + - * / ( ), десятичные литералы и унарные знаки.
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
type parser struct {
	src   string
	pos   int
	depth int
}

// evalArithmetic вычисляет очищенное выражение. Деление на ноль не ошибка: результат ±Inf или NaN,
// конечность проверяет вызывающий.
// Сдвоенные "--" и "++" недопустимы (это инкремент/декремент, а не два знака), "+-", "-+", "*-" и "/-" допустимы.
func evalArithmetic(src string) (float64, error) {
	p := &parser{src: src}
	if i := repeatedSign(src); i >= 0 {
		p.pos = i
		return 0, p.errorf("unexpected %q", src[i:i+2])
	}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos < len(p.src) {
		return 0, p.errorf("unexpected %q", p.src[p.pos])
	}
	return v, nil
}

// repeatedSign возвращает позицию первого "--" или "++", либо -1.
func repeatedSign(src string) int {
	i := strings.Index(src, "--")
	if j := strings.Index(src, "++"); j >= 0 && (i < 0 || j < i) {
		i = j
	}
	return i
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.src) {
		op := p.src[p.pos]
		if op != '+' && op != '-' {
			break
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
	return left, nil
}

func (p *parser) term() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for p.pos < len(p.src) {
		op := p.src[p.pos]
		if op != '*' && op != '/' {
			break
		}
		p.pos++
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			left /= right
		}
	}
	return left, nil
}

func (p *parser) unary() (float64, error) {
	if p.pos >= len(p.src) {
		return 0, p.errorf("unexpected end of expression")
	}
	switch p.src[p.pos] {
	case '+', '-':
		sign := p.src[p.pos]
		p.pos++
		if err := p.enter(); err != nil {
			return 0, err
		}
		v, err := p.unary()
		p.depth--
		if err != nil {
			return 0, err
		}
		if sign == '-' {
			return -v, nil
		}
		return v, nil
	}
	return p.primary()
}

func (p *parser) primary() (float64, error) {
	if p.src[p.pos] == '(' {
		p.pos++
		if err := p.enter(); err != nil {
			return 0, err
		}
		v, err := p.expr()
		p.depth--
		if err != nil {
			return 0, err
		}
		if p.pos >= len(p.src) || p.src[p.pos] != ')' {
			return 0, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	}
	return p.number()
}

func (p *parser) number() (float64, error) {
	start := p.pos
	digits, points := 0, 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' {
			points++
		} else {
			break
		}
		p.pos++
	}
	if digits == 0 {
		if p.pos < len(p.src) {
			return 0, p.errorf("unexpected %q", p.src[p.pos])
		}
		return 0, p.errorf("expected number")
	}
	if points > 1 {
		return 0, p.errorf("malformed number %q", p.src[start:p.pos])
	}
	v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, p.errorf("malformed number %q", p.src[start:p.pos])
	}
	return v, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return p.errorf("expression nested too deeply")
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s at %d", domain.ErrInvalidExpression, fmt.Sprintf(format, args...), p.pos)
}
