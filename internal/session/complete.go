package session

import (
	"strings"
	"unicode"

	"github.com/aidanlsb/modeler/internal/grammar"
)

// Completer adapts the resolver's full-line suggestions to readline, which
// completes the word under the cursor by appending to it.
type Completer struct {
	Resolver *grammar.Resolver
	// Enabled is consulted before every completion; nil means always.
	Enabled func() bool
}

// Do implements readline.AutoCompleter.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	if c.Resolver == nil || (c.Enabled != nil && !c.Enabled()) {
		return nil, 0
	}
	input := string(line[:pos])
	suffixes, length := Completions(input, c.Resolver.Suggest(input))
	out := make([][]rune, 0, len(suffixes))
	for _, s := range suffixes {
		out = append(out, []rune(s))
	}
	return out, length
}

// Completions turns full-line suggestions for input into the text to append
// at the cursor and the rune length of the word being completed. Suggestions
// that do not extend the word already typed are left out, since readline can
// only append.
func Completions(input string, suggestions []string) ([]string, int) {
	words := grammar.Tokenize(input)
	trailing := len(words) == 0 || unicode.IsSpace(rune(input[len(input)-1]))

	typed := ""
	index := len(words)
	if !trailing {
		typed = words[len(words)-1]
		index--
	}

	var out []string
	seen := make(map[string]bool)
	for _, s := range suggestions {
		sw := strings.Fields(s)
		if index >= len(sw) {
			continue
		}
		word := sw[index]
		if !strings.HasPrefix(word, typed) {
			continue
		}
		suffix := word[len(typed):] + " "
		if seen[suffix] {
			continue
		}
		seen[suffix] = true
		out = append(out, suffix)
	}
	return out, len([]rune(typed))
}
