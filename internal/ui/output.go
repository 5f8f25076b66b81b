package ui

import "fmt"

// Status symbols prefix one-line messages. Color is reserved for names and
// prompts, so a message stays readable when the accent is off.
const (
	SymbolSuccess  = "✓"
	SymbolError    = "✗"
	SymbolWarning  = "⚠"
	SymbolQuestion = "?"
)

func Success(msg string) string { return SymbolSuccess + " " + msg }

func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

func Error(msg string) string { return SymbolError + " " + msg }

func Warning(msg string) string { return SymbolWarning + " " + msg }

// Question marks a dialogue prompt.
func Question(msg string) string {
	return Accent.Render(SymbolQuestion) + " " + msg
}

func FilePath(path string) string { return Accent.Render(path) }

func Hint(msg string) string { return Muted.Render(msg) }

// Count renders "(1 entity)" or "(3 entities)".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, singular)
	}
	return fmt.Sprintf("(%d %s)", n, plural)
}
