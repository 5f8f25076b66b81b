// Package grammar walks free text against a static tree of command nodes to
// offer completions, validate a command or execute its action.
package grammar

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/aidanlsb/modeler/internal/schema"
)

// Kind tags the two node variants.
type Kind int

const (
	// KindLiteral nodes are selected by one of their tokens.
	KindLiteral Kind = iota
	// KindParameter nodes are selected by a token and then capture the next
	// word as the value of a named parameter.
	KindParameter
)

func (k Kind) String() string {
	if k == KindParameter {
		return "parameter"
	}
	return "literal"
}

// Params holds the values bound while resolving one command.
type Params map[string]string

// Clone returns a copy of p.
func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Provider computes the candidate values of a parameter from the current
// schema and the parameters already bound. It must not mutate either.
type Provider func(s *schema.Schema, bound Params) []string

// RunFunc applies an action. It may record dialogue answers in params; the
// returned value is the action's typed result record.
type RunFunc func(ctx context.Context, s *schema.Schema, params Params) (any, error)

// Action is the behavior attached to a node.
type Action struct {
	// Name identifies the command in the action log.
	Name string
	// Description is a one-line summary for help output.
	Description string
	// Mutates is false for read-only commands, which are never logged.
	Mutates bool
	Run     RunFunc
}

// Node is one immutable node of the command tree.
type Node struct {
	kind     Kind
	tokens   []string
	param    string
	provider Provider
	action   *Action
	children []*Node
}

// Option configures a node at construction.
type Option func(*Node)

// WithAction attaches an action to the node.
func WithAction(a Action) Option {
	return func(n *Node) {
		n.action = &a
	}
}

// WithChildren sets the nodes tried after this one, in declaration order.
func WithChildren(children ...*Node) Option {
	return func(n *Node) {
		n.children = slices.Clone(children)
	}
}

// Literal builds a node selected by any of tokens.
func Literal(tokens []string, opts ...Option) *Node {
	n := &Node{kind: KindLiteral, tokens: slices.Clone(tokens)}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Parameter builds a node selected by any of tokens that binds the following
// word to param. provider supplies its completions.
func Parameter(tokens []string, param string, provider Provider, opts ...Option) *Node {
	n := Literal(tokens, opts...)
	n.kind = KindParameter
	n.param = param
	n.provider = provider
	return n
}

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// Token returns the canonical token, the one offered as a completion.
func (n *Node) Token() string { return n.tokens[0] }

// Param returns the bound parameter name, empty for literal nodes.
func (n *Node) Param() string { return n.param }

// Action returns the attached action, or nil.
func (n *Node) Action() *Action { return n.action }

// Children returns the child nodes.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

func (n *Node) matches(word string) bool {
	return slices.Contains(n.tokens, word)
}

func (n *Node) candidates(s *schema.Schema, bound Params) []string {
	if n.provider == nil {
		return nil
	}
	return n.provider(s, bound.Clone())
}

// Tree is the validated root set of the command grammar.
type Tree struct {
	roots []*Node
}

var tokenPattern = regexp.MustCompile(`^[\w.]+$`)

// NewTree validates the grammar: every node has at least one well-formed
// token, sibling token sets are disjoint, every parameter node has a
// provider and action names are unique.
func NewTree(roots ...*Node) (*Tree, error) {
	names := make(map[string]bool)
	if err := validateSiblings(roots, "", names); err != nil {
		return nil, err
	}
	return &Tree{roots: slices.Clone(roots)}, nil
}

func validateSiblings(nodes []*Node, path string, names map[string]bool) error {
	seen := make(map[string]bool)
	for _, n := range nodes {
		if len(n.tokens) == 0 {
			return fmt.Errorf("node under %q has no tokens", path)
		}
		for _, tok := range n.tokens {
			if !tokenPattern.MatchString(tok) {
				return fmt.Errorf("invalid token %q under %q", tok, path)
			}
			if seen[tok] {
				return fmt.Errorf("token %q is ambiguous under %q", tok, path)
			}
			seen[tok] = true
		}
		p := joinPath(path, n.Token())
		if n.kind == KindParameter {
			if n.param == "" {
				return fmt.Errorf("parameter node %q has no parameter name", p)
			}
			if n.provider == nil {
				return fmt.Errorf("parameter node %q has no suggestion provider", p)
			}
			p += " <" + n.param + ">"
		}
		if n.action != nil {
			if n.action.Name == "" || n.action.Run == nil {
				return fmt.Errorf("action on %q needs a name and a run function", p)
			}
			if names[n.action.Name] {
				return fmt.Errorf("duplicate action name %q", n.action.Name)
			}
			names[n.action.Name] = true
		}
		if err := validateSiblings(n.children, p, names); err != nil {
			return err
		}
	}
	return nil
}

func joinPath(path, token string) string {
	if path == "" {
		return token
	}
	return path + " " + token
}

// Command describes one executable path of the tree.
type Command struct {
	Usage  string
	Action *Action
}

// Commands lists every node carrying an action with its usage line, in
// declaration order.
func (t *Tree) Commands() []Command {
	var out []Command
	var visit func(nodes []*Node, path string)
	visit = func(nodes []*Node, path string) {
		for _, n := range nodes {
			p := joinPath(path, n.Token())
			if n.kind == KindParameter {
				p += " <" + n.param + ">"
			}
			if n.action != nil {
				out = append(out, Command{Usage: p, Action: n.action})
			}
			visit(n.children, p)
		}
	}
	visit(t.roots, "")
	return out
}
