// Package suggest ranks completion candidates against partially typed text.
package suggest

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Filter returns the candidates that contain query as a case-insensitive
// subsequence, best matches first. Candidates with equal scores keep their
// input order. An empty query matches every candidate.
func Filter(query string, candidates []string) []string {
	if query == "" {
		out := make([]string, len(candidates))
		copy(out, candidates)
		return out
	}
	matches := fuzzy.Find(query, candidates)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Str)
	}
	return out
}

// Complete filters candidates by query and renders each match as a full
// command line: the already known prefix tokens followed by the candidate.
func Complete(prefix []string, query string, candidates []string) []string {
	matched := Filter(query, candidates)
	lead := Join(prefix)
	out := make([]string, 0, len(matched))
	for _, m := range matched {
		if lead == "" {
			out = append(out, m)
			continue
		}
		out = append(out, lead+" "+m)
	}
	return out
}

// Join renders tokens as a command line.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}
