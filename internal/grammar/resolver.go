package grammar

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aidanlsb/modeler/internal/actionlog"
	"github.com/aidanlsb/modeler/internal/schema"
	"github.com/aidanlsb/modeler/internal/suggest"
)

// Mode selects what a resolution produces.
type Mode int

const (
	// ModeSuggest returns full-line completions.
	ModeSuggest Mode = iota
	// ModeValidate reports whether the input reaches an action.
	ModeValidate
	// ModeExecute runs the reached action.
	ModeExecute
)

// ErrIncomplete is returned by Execute when the input does not reach an
// action with all of its parameters bound.
var ErrIncomplete = errors.New("incomplete command")

// Execution describes one successful command run.
type Execution struct {
	Action *Action
	Params Params
	Result any
	// Entry is set when the command mutated the document and was logged.
	Entry *actionlog.Entry
}

// Resolver interprets input against a tree, a live document and a log.
type Resolver struct {
	tree   *Tree
	schema *schema.Schema
	log    *actionlog.Log
	logger *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used for execution traces.
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver returns a resolver over s. Successful mutating commands replace
// the contents of s and are appended to log.
func NewResolver(tree *Tree, s *schema.Schema, log *actionlog.Log, opts ...ResolverOption) *Resolver {
	r := &Resolver{tree: tree, schema: s, log: log, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Schema returns the live document.
func (r *Resolver) Schema() *schema.Schema { return r.schema }

// Log returns the action log.
func (r *Resolver) Log() *actionlog.Log { return r.log }

// walk is the state of one pass over the words of an input line.
type walk struct {
	words    []string
	trailing bool
	// known holds the words matched so far, parameter values included,
	// except a value still being typed.
	known  []string
	params Params
	// consumed counts the words the walk accepted.
	consumed int
	last     *Node
	// siblings is the candidate set last matched against; next is the set
	// the following word will be matched against.
	siblings []*Node
	next     []*Node
	// pending is a parameter node whose value is missing or being typed.
	pending *Node
	partial string
	// fired is the first action node reached with its parameters bound.
	fired *Node
}

func (r *Resolver) walk(input string, mode Mode) *walk {
	w := &walk{
		words:    Tokenize(input),
		trailing: committed(input),
		params:   Params{},
		next:     r.tree.roots,
	}
	for w.consumed < len(w.words) {
		word := w.words[w.consumed]
		node := match(w.next, word)
		if node == nil {
			return w
		}
		w.consumed++
		w.known = append(w.known, word)
		w.siblings = w.next
		w.last = node

		if node.kind == KindParameter {
			if w.consumed == len(w.words) {
				w.pending = node
				return w
			}
			value := w.words[w.consumed]
			w.consumed++
			w.params[node.param] = value
			if mode == ModeSuggest && !w.trailing && w.consumed == len(w.words) {
				w.pending = node
				w.partial = value
				return w
			}
			w.known = append(w.known, value)
		}

		if node.action != nil && w.fired == nil {
			w.fired = node
			if mode != ModeSuggest {
				return w
			}
		}
		w.next = node.children
		if len(node.children) == 0 {
			return w
		}
	}
	return w
}

func match(nodes []*Node, word string) *Node {
	for _, n := range nodes {
		if n.matches(word) {
			return n
		}
	}
	return nil
}

// tokens returns one completion per node: its primary token, or the alias
// that matches query best.
func tokens(nodes []*Node, query string) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if query != "" {
			if m := suggest.Filter(query, n.tokens); len(m) > 0 {
				out = append(out, m[0])
				continue
			}
		}
		out = append(out, n.Token())
	}
	return out
}

// Suggest returns full-line completions for input, best first. Every line
// starts with the tokens the user already entered.
func (r *Resolver) Suggest(input string) []string {
	w := r.walk(input, ModeSuggest)

	if w.pending != nil {
		return suggest.Complete(w.known, w.partial, w.pending.candidates(r.schema, w.params))
	}

	if w.consumed < len(w.words) {
		// Only the word under the cursor may be unmatched.
		if w.consumed == len(w.words)-1 && !w.trailing {
			word := w.words[w.consumed]
			return suggest.Complete(w.known, word, tokens(w.next, word))
		}
		return []string{}
	}

	if w.trailing || len(w.words) == 0 {
		if w.last != nil && len(w.next) == 0 {
			return []string{suggest.Join(w.known)}
		}
		return suggest.Complete(w.known, "", tokens(w.next, ""))
	}

	// The last word matched a literal but is not committed yet: offer the
	// sibling tokens it could still become.
	prefix := w.known[:len(w.known)-1]
	word := w.words[len(w.words)-1]
	return suggest.Complete(prefix, word, tokens(w.siblings, word))
}

// Validate reports whether input reaches an action with its parameters
// bound. It has no side effects.
func (r *Resolver) Validate(input string) bool {
	return r.walk(input, ModeValidate).fired != nil
}

// Execute runs the action input reaches. The action works on a copy of the
// document; the live document is replaced only when it succeeds, so a failed
// command leaves it untouched. Mutating commands are appended to the log.
func (r *Resolver) Execute(ctx context.Context, input string) (*Execution, error) {
	w := r.walk(input, ModeExecute)
	if w.fired == nil {
		return nil, ErrIncomplete
	}
	action := w.fired.action
	params := w.params.Clone()

	before := r.schema.Clone()
	working := r.schema.Clone()
	result, err := action.Run(ctx, working, params)
	if err != nil {
		r.logger.Debug("command failed", zap.String("command", action.Name), zap.Error(err))
		return nil, err
	}

	exec := &Execution{Action: action, Params: params, Result: result}
	if !action.Mutates {
		return exec, nil
	}
	*r.schema = *working
	if r.log != nil {
		entry := r.log.Append(action.Name, params, result, before, working)
		exec.Entry = &entry
	}
	r.logger.Debug("command applied",
		zap.String("command", action.Name),
		zap.Any("params", map[string]string(params)),
	)
	return exec, nil
}

// Resolve dispatches on mode. Suggestions are returned for ModeSuggest, a
// boolean for ModeValidate and an *Execution for ModeExecute.
func (r *Resolver) Resolve(ctx context.Context, input string, mode Mode) (any, error) {
	switch mode {
	case ModeSuggest:
		return r.Suggest(input), nil
	case ModeValidate:
		return r.Validate(input), nil
	case ModeExecute:
		return r.Execute(ctx, input)
	default:
		return nil, fmt.Errorf("unknown resolve mode %d", mode)
	}
}
