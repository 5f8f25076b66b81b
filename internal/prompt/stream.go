package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aidanlsb/modeler/internal/ui"
)

// Stream reads command lines and answers from the same line-oriented input,
// so a piped script can drive a whole session. Like Scripted, an invalid
// answer is an error rather than asked again.
type Stream struct {
	sc  *bufio.Scanner
	out io.Writer
}

// NewStream reads lines from r and echoes questions to out.
func NewStream(r io.Reader, out io.Writer) *Stream {
	return &Stream{sc: bufio.NewScanner(r), out: out}
}

func (s *Stream) line() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.sc.Text()), nil
}

// ReadCommand returns the next line, or io.EOF at the end of input.
func (s *Stream) ReadCommand() (string, error) {
	return s.line()
}

func (s *Stream) ask(question string) (string, error) {
	fmt.Fprintln(s.out, ui.Question(question))
	a, err := s.line()
	if err == io.EOF {
		return "", fmt.Errorf("%w for %q", ErrNoAnswer, question)
	}
	return a, err
}

func (s *Stream) Input(question, def string) (string, error) {
	a, err := s.ask(question)
	if err != nil {
		return "", err
	}
	if a == "" {
		return def, nil
	}
	return a, nil
}

func (s *Stream) Select(question string, choices []string, def string) (string, error) {
	a, err := s.ask(question)
	if err != nil {
		return "", err
	}
	return ResolveChoice(a, choices, def)
}

func (s *Stream) Confirm(question string, def bool) (bool, error) {
	a, err := s.ask(question)
	if err != nil {
		return false, err
	}
	return ParseConfirm(a, def)
}
