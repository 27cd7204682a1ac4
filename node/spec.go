package node

import "sort"

type specKind int

const (
	kindNone specKind = iota
	kindPositional
	kindKeyword
	kindSingle
	kindOrdered
	kindNamed
)

// InputSpec declares how artifact values are bound to a transform call.
type InputSpec struct {
	kind   specKind
	names  []string
	params map[string]string
}

// NoInputs declares a source node that consumes nothing.
func NoInputs() InputSpec {
	return InputSpec{kind: kindNone}
}

// Positional binds the named artifacts to the transform in order.
func Positional(names ...string) InputSpec {
	return InputSpec{kind: kindPositional, names: append([]string(nil), names...)}
}

// Keyword binds artifacts to the transform by parameter name. The mapping is
// parameter name to artifact name.
func Keyword(mapping map[string]string) InputSpec {
	params := make(map[string]string, len(mapping))
	for param, artifact := range mapping {
		params[param] = artifact
	}
	return InputSpec{kind: kindKeyword, params: params}
}

// Names returns the artifact names consumed, in binding order. Keyword
// inputs are ordered by parameter name for determinism.
func (s InputSpec) Names() []string {
	switch s.kind {
	case kindPositional:
		return append([]string(nil), s.names...)
	case kindKeyword:
		params := make([]string, 0, len(s.params))
		for param := range s.params {
			params = append(params, param)
		}
		sort.Strings(params)
		names := make([]string, 0, len(params))
		for _, param := range params {
			names = append(names, s.params[param])
		}
		return names
	default:
		return nil
	}
}

// OutputSpec declares the artifacts a transform produces and the shape of
// its return value.
type OutputSpec struct {
	kind   specKind
	names  []string
	fields map[string]string
}

// NoOutputs declares a sink node that produces nothing.
func NoOutputs() OutputSpec {
	return OutputSpec{kind: kindNone}
}

// Single declares one output artifact; the transform returns its value.
func Single(name string) OutputSpec {
	return OutputSpec{kind: kindSingle, names: []string{name}}
}

// Ordered declares several outputs; the transform must return a []any of
// matching length.
func Ordered(names ...string) OutputSpec {
	return OutputSpec{kind: kindOrdered, names: append([]string(nil), names...)}
}

// Named declares several outputs bound from a returned map[string]any. The
// mapping is return key to artifact name.
func Named(mapping map[string]string) OutputSpec {
	fields := make(map[string]string, len(mapping))
	for key, artifact := range mapping {
		fields[key] = artifact
	}
	return OutputSpec{kind: kindNamed, fields: fields}
}

// Names returns the artifact names produced, in a deterministic order.
func (s OutputSpec) Names() []string {
	switch s.kind {
	case kindSingle, kindOrdered:
		return append([]string(nil), s.names...)
	case kindNamed:
		keys := make([]string, 0, len(s.fields))
		for key := range s.fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		names := make([]string, 0, len(keys))
		for _, key := range keys {
			names = append(names, s.fields[key])
		}
		return names
	default:
		return nil
	}
}
