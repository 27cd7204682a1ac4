package node

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/pipekit/errors"
)

// Args carries the bound input values of one transform invocation.
type Args struct {
	positional []any
	named      map[string]any
}

// PositionalArgs builds Args from ordered values. Exposed for tests and for
// callers invoking transforms outside a runner.
func PositionalArgs(values ...any) Args {
	return Args{positional: values}
}

// KeywordArgs builds Args from named values.
func KeywordArgs(values map[string]any) Args {
	return Args{named: values}
}

// Len returns the number of bound values.
func (a Args) Len() int {
	if a.named != nil {
		return len(a.named)
	}
	return len(a.positional)
}

// Get returns the i-th positional value.
func (a Args) Get(i int) any { return a.positional[i] }

// Named returns the value bound to the given parameter name.
func (a Args) Named(param string) any { return a.named[param] }

// Func is the computation a Node executes. It receives its declared inputs
// bound per the node's InputSpec and returns the value(s) declared by the
// node's OutputSpec.
type Func func(ctx context.Context, args Args) (any, error)

// Node is the smallest unit of work in a pipeline.
type Node struct {
	fn       Func
	inputs   InputSpec
	outputs  OutputSpec
	name     string
	tags     []string
	confirms []string
}

// Option customises node construction.
type Option func(*Node)

// WithName sets a human-readable node name.
func WithName(name string) Option {
	return func(n *Node) { n.name = name }
}

// WithTags attaches tags used by pipeline filtering.
func WithTags(tags ...string) Option {
	return func(n *Node) { n.tags = append(n.tags, tags...) }
}

// Confirms declares dataset names acknowledged after the node runs.
func Confirms(names ...string) Option {
	return func(n *Node) { n.confirms = append(n.confirms, names...) }
}

// New constructs a validated Node.
func New(fn Func, inputs InputSpec, outputs OutputSpec, opts ...Option) (*Node, error) {
	n := &Node{fn: fn, inputs: inputs, outputs: outputs}
	for _, opt := range opts {
		opt(n)
	}
	if err := n.validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// MustNew constructs a Node and panics on a spec error. Intended for
// statically declared pipelines where the specs are constants.
func MustNew(fn Func, inputs InputSpec, outputs OutputSpec, opts ...Option) *Node {
	n, err := New(fn, inputs, outputs, opts...)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *Node) validate() error {
	if n.fn == nil {
		return errors.BadSpec(n.Name(), "transform function is nil")
	}
	for _, name := range n.inputs.Names() {
		if name == "" {
			return errors.BadSpec(n.Name(), "empty input artifact name")
		}
	}
	seen := make(map[string]struct{})
	for _, name := range n.outputs.Names() {
		if name == "" {
			return errors.BadSpec(n.Name(), "empty output artifact name")
		}
		if _, dup := seen[name]; dup {
			return errors.BadSpec(n.Name(), fmt.Sprintf("output %q declared twice", name))
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Name returns the node's explicit name, or a generated one derived from
// its input and output specifications.
func (n *Node) Name() string {
	if n.name != "" {
		return n.name
	}
	return fmt.Sprintf("[%s] -> [%s]",
		strings.Join(n.inputs.Names(), ","),
		strings.Join(n.outputs.Names(), ","))
}

// String implements fmt.Stringer.
func (n *Node) String() string { return n.Name() }

// Inputs returns the artifact names the node consumes, in binding order.
func (n *Node) Inputs() []string { return n.inputs.Names() }

// Outputs returns the artifact names the node produces.
func (n *Node) Outputs() []string { return n.outputs.Names() }

// Tags returns the node's tags.
func (n *Node) Tags() []string { return append([]string(nil), n.tags...) }

// HasTag reports whether the node carries the given tag.
func (n *Node) HasTag(tag string) bool {
	for _, t := range n.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Confirms returns the dataset names to acknowledge after the node runs.
func (n *Node) Confirms() []string { return append([]string(nil), n.confirms...) }

// Execute binds the given artifact values per the input spec, invokes the
// transform, validates the returned shape against the output spec, and
// returns the produced values keyed by artifact name.
//
// The values map must contain every name in Inputs(). Execute does not wrap
// transform failures; runners annotate them with the node identity.
func (n *Node) Execute(ctx context.Context, values map[string]any) (map[string]any, error) {
	args, err := n.bind(values)
	if err != nil {
		return nil, err
	}

	result, err := n.fn(ctx, args)
	if err != nil {
		return nil, err
	}

	return n.unpack(result)
}

func (n *Node) bind(values map[string]any) (Args, error) {
	switch n.inputs.kind {
	case kindNone:
		return Args{}, nil
	case kindPositional:
		bound := make([]any, len(n.inputs.names))
		for i, name := range n.inputs.names {
			v, ok := values[name]
			if !ok {
				return Args{}, errors.BadSpec(n.Name(), fmt.Sprintf("missing value for input %q", name))
			}
			bound[i] = v
		}
		return Args{positional: bound}, nil
	default:
		bound := make(map[string]any, len(n.inputs.params))
		for param, name := range n.inputs.params {
			v, ok := values[name]
			if !ok {
				return Args{}, errors.BadSpec(n.Name(), fmt.Sprintf("missing value for input %q", name))
			}
			bound[param] = v
		}
		return Args{named: bound}, nil
	}
}

func (n *Node) unpack(result any) (map[string]any, error) {
	switch n.outputs.kind {
	case kindNone:
		return map[string]any{}, nil
	case kindSingle:
		return map[string]any{n.outputs.names[0]: result}, nil
	case kindOrdered:
		seq, ok := result.([]any)
		if !ok {
			return nil, errors.BadSpec(n.Name(), fmt.Sprintf("expected []any return for %d outputs, got %T", len(n.outputs.names), result))
		}
		if len(seq) != len(n.outputs.names) {
			return nil, errors.BadSpec(n.Name(), fmt.Sprintf("expected %d outputs, transform returned %d", len(n.outputs.names), len(seq)))
		}
		out := make(map[string]any, len(seq))
		for i, name := range n.outputs.names {
			out[name] = seq[i]
		}
		return out, nil
	default:
		m, ok := result.(map[string]any)
		if !ok {
			return nil, errors.BadSpec(n.Name(), fmt.Sprintf("expected map[string]any return, got %T", result))
		}
		out := make(map[string]any, len(n.outputs.fields))
		for key, name := range n.outputs.fields {
			v, present := m[key]
			if !present {
				return nil, errors.BadSpec(n.Name(), fmt.Sprintf("transform result is missing key %q", key))
			}
			out[name] = v
		}
		return out, nil
	}
}
