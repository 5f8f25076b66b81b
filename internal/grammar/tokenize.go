package grammar

import "regexp"

var (
	wordPattern     = regexp.MustCompile(`[\w.]+`)
	trailingPattern = regexp.MustCompile(`\s$`)
)

// Tokenize splits input into words. Words are runs of letters, digits,
// underscores and dots, so "users.login" is a single word.
func Tokenize(input string) []string {
	return wordPattern.FindAllString(input, -1)
}

// committed reports whether input ends in whitespace, meaning its last word
// is complete and completion applies to the next one.
func committed(input string) bool {
	return trailingPattern.MatchString(input)
}
