// Package repl — построчный интерфейс калькулятора на readline с живым предпросмотром результата.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"lovecalc/internal/domain"
	"lovecalc/internal/ports"
)

const prompt = "> "

const helpText = `expressions: digits . + - * / x   (a line starting with an operator continues from the result)
commands:    :sin :cos :tan :sqrt :log :pow2   apply to the display
             :clear :back :dark :love :scientific
             :history :clear-history :help :quit`

// escape-последовательности для строки предпросмотра над вводом.
const (
	escUp   = "\x1bM"
	escLeft = "\x1b[%dD"
	escKill = "\x1b[K"
)

// Options — настройки REPL.
type Options struct {
	Sound bool
}

// REPL держит сессию калькулятора и печатает результаты в out.
type REPL struct {
	ctx  context.Context
	uc   ports.ICalculatorUseCase
	out  io.Writer
	opts Options

	errGen  uint64
	noteGen uint64
	preview string
}

// New создаёт REPL. История должна быть уже загружена в uc.
func New(ctx context.Context, uc ports.ICalculatorUseCase, out io.Writer, opts Options) *REPL {
	s := uc.State()
	return &REPL{ctx: ctx, uc: uc, out: out, opts: opts, errGen: s.Error.Gen, noteGen: s.LoveNote.Gen}
}

// Run читает строки до :quit, Ctrl+D или отмены ctx.
func (r *REPL) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
		Stdout:          r.out,
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()
	rl.Config.SetListener(r.listener)

	fmt.Fprintln(r.out, "type :help for commands")
	fmt.Fprintln(r.out)
	for {
		if r.ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		r.preview = ""
		quit, err := r.Execute(line)
		if err != nil {
			fmt.Fprintln(r.out, "! "+err.Error())
		}
		if quit {
			return nil
		}
	}
}

// Execute выполняет одну строку. true — пользователь попросил выйти.
func (r *REPL) Execute(line string) (bool, error) {
	cmd, err := parseLine(line)
	if err != nil {
		return false, err
	}
	switch cmd.kind {
	case cmdQuit:
		return true, nil
	case cmdHelp:
		fmt.Fprintln(r.out, helpText)
	case cmdHistory:
		r.printHistory()
	case cmdClearHistory:
		if err := r.uc.ClearHistory(r.ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, "history cleared")
	case cmdEvents:
		r.dispatch(cmd.events)
	}
	return false, nil
}

func (r *REPL) dispatch(events []domain.Event) {
	var (
		state domain.State
		tones int
	)
	for _, ev := range events {
		var effects []domain.Effect
		state, effects = r.uc.Dispatch(r.ctx, ev)
		r.uc.Schedule(r.ctx, effects)
		for _, eff := range effects {
			if _, ok := eff.(domain.PlayTone); ok {
				tones++
			}
		}
	}
	if r.opts.Sound && tones > 0 {
		fmt.Fprint(r.out, "\a")
	}

	if state.Error.Active && state.Error.Gen != r.errGen {
		r.errGen = state.Error.Gen
		fmt.Fprintln(r.out, "! "+state.Error.Message)
	} else {
		fmt.Fprintln(r.out, "= "+state.Display+modeLine(state))
	}
	if state.LoveNote.Active && state.LoveNote.Gen != r.noteGen {
		r.noteGen = state.LoveNote.Gen
		fmt.Fprintln(r.out, "💖 "+state.LoveNote.Message)
	}
}

func modeLine(s domain.State) string {
	var modes []string
	if s.Dark {
		modes = append(modes, domain.ModeDark)
	}
	if s.Love {
		modes = append(modes, domain.ModeLove)
	}
	if s.Scientific {
		modes = append(modes, domain.ModeScientific)
	}
	if len(modes) == 0 {
		return ""
	}
	return "   [" + strings.Join(modes, " ") + "]"
}

func (r *REPL) printHistory() {
	entries := r.uc.History()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "No calculations yet")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(r.out, "%2d. %s\n", i+1, e)
	}
}

// previewFor — результат, который получится, если нажать Enter сейчас. Пусто, если считать нечего.
func (r *REPL) previewFor(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, ":") {
		return ""
	}
	expr := strings.NewReplacer("x", "*", "X", "*", "=", "").Replace(line)
	if strings.ContainsAny(expr[:1], "+-*/") {
		expr = r.uc.State().Equation + expr
	}
	result, err := r.uc.Evaluate(expr)
	if err != nil {
		return ""
	}
	return result
}

// listener перерисовывает строку предпросмотра над вводом при каждом нажатии.
func (r *REPL) listener(line []rune, pos int, key rune) ([]rune, int, bool) {
	if key == '\n' || key == '\r' || key == 0x04 {
		return line, pos, true
	}
	preview := r.previewFor(string(line))
	if preview != r.preview {
		fmt.Fprintf(r.out, escUp+escLeft+escKill, pos+len(prompt))
		fmt.Fprintf(r.out, "[ %s ]\n", preview)
		r.preview = preview
	}
	return line, pos, true
}
