// Package prompt asks the questions of interactive sub-dialogues.
package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aidanlsb/modeler/internal/suggest"
)

// ErrAborted is returned when the user interrupts a dialogue.
var ErrAborted = errors.New("dialogue aborted")

// Prompter asks one question at a time.
type Prompter interface {
	// Input asks for free text. An empty answer yields def.
	Input(question, def string) (string, error)
	// Select asks for one of choices, by number, exact text or unambiguous
	// partial text. An empty answer yields def.
	Select(question string, choices []string, def string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(question string, def bool) (bool, error)
}

// ParseConfirm interprets a yes/no answer.
func ParseConfirm(answer string, def bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def, nil
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	default:
		return false, fmt.Errorf("please answer yes or no")
	}
}

// ResolveChoice interprets an answer to a Select question.
func ResolveChoice(answer string, choices []string, def string) (string, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		if def == "" {
			return "", fmt.Errorf("please pick one of the choices")
		}
		return def, nil
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(choices) {
			return "", fmt.Errorf("pick a number between 1 and %d", len(choices))
		}
		return choices[n-1], nil
	}
	for _, c := range choices {
		if c == answer {
			return c, nil
		}
	}
	matches := suggest.Filter(answer, choices)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%q is not one of the choices", answer)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous: %s", answer, strings.Join(matches, ", "))
	}
}

// YesNo renders the default hint of a confirm question.
func YesNo(def bool) string {
	if def {
		return "(Y/n)"
	}
	return "(y/N)"
}
