package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/ergochat/readline"

	"github.com/aidanlsb/modeler/internal/ui"
)

// Terminal asks questions on a readline instance shared with the command
// loop. Completion is switched off while a question is pending.
type Terminal struct {
	rl     *readline.Instance
	out    io.Writer
	prompt string
	quiet  atomic.Bool
}

// NewTerminal wraps rl. Choice lists and errors go to out; commandPrompt is
// restored after every question.
func NewTerminal(rl *readline.Instance, out io.Writer, commandPrompt string) *Terminal {
	return &Terminal{rl: rl, out: out, prompt: commandPrompt}
}

// Completing reports whether command completion should run.
func (t *Terminal) Completing() bool {
	return !t.quiet.Load()
}

// ReadCommand reads one command line.
func (t *Terminal) ReadCommand() (string, error) {
	t.rl.SetPrompt(t.prompt)
	return t.read()
}

func (t *Terminal) ask(question string) (string, error) {
	t.quiet.Store(true)
	defer func() {
		t.quiet.Store(false)
		t.rl.SetPrompt(t.prompt)
	}()
	t.rl.SetPrompt(ui.Question(question) + " ")
	return t.read()
}

func (t *Terminal) read() (string, error) {
	line, err := t.rl.ReadLine()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrAborted
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) Input(question, def string) (string, error) {
	q := question
	if def != "" {
		q += " " + ui.Hint("("+def+")")
	}
	a, err := t.ask(q)
	if err != nil {
		return "", err
	}
	if a == "" {
		return def, nil
	}
	return a, nil
}

func (t *Terminal) Select(question string, choices []string, def string) (string, error) {
	for i, c := range choices {
		marker := " "
		if c == def {
			marker = ui.Accent.Render(">")
		}
		fmt.Fprintf(t.out, "%s %s %s\n", marker, ui.Hint(fmt.Sprintf("%2d)", i+1)), c)
	}
	for {
		a, err := t.ask(question)
		if err != nil {
			return "", err
		}
		choice, err := ResolveChoice(a, choices, def)
		if err == nil {
			return choice, nil
		}
		fmt.Fprintln(t.out, ui.Error(err.Error()))
	}
}

func (t *Terminal) Confirm(question string, def bool) (bool, error) {
	for {
		a, err := t.ask(question + " " + ui.Hint(YesNo(def)))
		if err != nil {
			return false, err
		}
		ok, err := ParseConfirm(a, def)
		if err == nil {
			return ok, nil
		}
		fmt.Fprintln(t.out, ui.Error(err.Error()))
	}
}
