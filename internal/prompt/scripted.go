package prompt

import (
	"errors"
	"fmt"
)

// ErrNoAnswer is returned by Scripted when its answers run out.
var ErrNoAnswer = errors.New("no scripted answer left")

// Scripted answers questions from a fixed list, for tests and for
// non-interactive runs. Invalid answers are errors rather than re-asked.
type Scripted struct {
	answers []string
	// Asked records every question in order.
	Asked []string
}

// NewScripted returns a prompter that replies with answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Remaining returns how many answers are unused.
func (s *Scripted) Remaining() int {
	return len(s.answers)
}

func (s *Scripted) next(question string) (string, error) {
	s.Asked = append(s.Asked, question)
	if len(s.answers) == 0 {
		return "", fmt.Errorf("%w for %q", ErrNoAnswer, question)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *Scripted) Input(question, def string) (string, error) {
	a, err := s.next(question)
	if err != nil {
		return "", err
	}
	if a == "" {
		return def, nil
	}
	return a, nil
}

func (s *Scripted) Select(question string, choices []string, def string) (string, error) {
	a, err := s.next(question)
	if err != nil {
		return "", err
	}
	return ResolveChoice(a, choices, def)
}

func (s *Scripted) Confirm(question string, def bool) (bool, error) {
	a, err := s.next(question)
	if err != nil {
		return false, err
	}
	return ParseConfirm(a, def)
}
