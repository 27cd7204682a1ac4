package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/node"
)

// Pipeline is an immutable, validated DAG of nodes.
type Pipeline struct {
	declared []*node.Node
	sorted   []*node.Node
	groups   [][]*node.Node
}

// New validates the given nodes and builds a Pipeline. It fails with a
// DUPLICATE_OUTPUT error when two nodes declare the same output name and
// with a CIRCULAR_DEPENDENCY error naming the nodes on a cycle.
func New(nodes []*node.Node) (*Pipeline, error) {
	p := &Pipeline{declared: append([]*node.Node(nil), nodes...)}

	seenNodes := make(map[string]struct{}, len(nodes))
	outputOwner := make(map[string]string)
	producers := make(map[string][]int)

	for i, n := range nodes {
		name := n.Name()
		if _, dup := seenNodes[name]; dup {
			return nil, errors.BadSpec(name, "node name declared twice in one pipeline")
		}
		seenNodes[name] = struct{}{}

		for _, in := range n.Inputs() {
			if _, _, err := SplitTranscoding(in); err != nil {
				return nil, err
			}
		}
		for _, out := range n.Outputs() {
			if _, _, err := SplitTranscoding(out); err != nil {
				return nil, err
			}
			if owner, dup := outputOwner[out]; dup {
				return nil, errors.DuplicateOutput(out, []string{owner, name})
			}
			outputOwner[out] = name
			producers[StripTranscoding(out)] = append(producers[StripTranscoding(out)], i)
		}
	}

	// Edge producer->consumer whenever an output's logical name matches an
	// input's logical name.
	dependents := make([][]int, len(nodes))
	inDegree := make([]int, len(nodes))
	seenEdges := make(map[[2]int]struct{})
	for i, n := range nodes {
		for _, in := range n.Inputs() {
			for _, from := range producers[StripTranscoding(in)] {
				key := [2]int{from, i}
				if _, dup := seenEdges[key]; dup {
					continue
				}
				seenEdges[key] = struct{}{}
				dependents[from] = append(dependents[from], i)
				inDegree[i]++
			}
		}
	}

	// Kahn's algorithm, grouping nodes by dependency level. Levels keep the
	// declaration order so runs are reproducible.
	var queue []int
	for i := range nodes {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	visited := 0
	for len(queue) > 0 {
		sort.Ints(queue)
		group := make([]*node.Node, len(queue))
		for i, idx := range queue {
			group[i] = nodes[idx]
		}
		p.groups = append(p.groups, group)
		p.sorted = append(p.sorted, group...)
		visited += len(queue)

		var next []int
		for _, idx := range queue {
			for _, dep := range dependents[idx] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		queue = next
	}

	if visited != len(nodes) {
		var remaining []string
		for i, n := range nodes {
			if inDegree[i] > 0 {
				remaining = append(remaining, n.Name())
			}
		}
		sort.Strings(remaining)
		return nil, errors.CircularDependency(remaining)
	}

	return p, nil
}

// MustNew builds a Pipeline and panics on a validation error. Intended for
// statically declared pipelines.
func MustNew(nodes []*node.Node) *Pipeline {
	p, err := New(nodes)
	if err != nil {
		panic(err)
	}
	return p
}

// Nodes returns the nodes in topological order; nodes within one dependency
// level keep their declaration order.
func (p *Pipeline) Nodes() []*node.Node {
	return append([]*node.Node(nil), p.sorted...)
}

// GroupedNodes returns the nodes batched by dependency level. Every node in
// batch k has all of its inputs satisfied by free inputs or outputs of
// earlier batches, so nodes within one batch can run in any order or in
// parallel.
func (p *Pipeline) GroupedNodes() [][]*node.Node {
	groups := make([][]*node.Node, len(p.groups))
	for i, g := range p.groups {
		groups[i] = append([]*node.Node(nil), g...)
	}
	return groups
}

// AllInputs returns every artifact name consumed by any node, sorted.
func (p *Pipeline) AllInputs() []string {
	return p.collect(func(n *node.Node) []string { return n.Inputs() })
}

// AllOutputs returns every artifact name produced by any node, sorted.
func (p *Pipeline) AllOutputs() []string {
	return p.collect(func(n *node.Node) []string { return n.Outputs() })
}

// Datasets returns every artifact name the pipeline touches, sorted.
func (p *Pipeline) Datasets() []string {
	set := make(map[string]struct{})
	for _, n := range p.declared {
		for _, name := range n.Inputs() {
			set[name] = struct{}{}
		}
		for _, name := range n.Outputs() {
			set[name] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// FreeInputs returns the artifact names consumed by the pipeline but
// produced by no node, sorted. Transcoded variants count as produced when
// any variant of the same logical name is an output.
func (p *Pipeline) FreeInputs() []string {
	produced := p.logicalSet(func(n *node.Node) []string { return n.Outputs() })
	free := make(map[string]struct{})
	for _, n := range p.declared {
		for _, in := range n.Inputs() {
			if _, ok := produced[StripTranscoding(in)]; !ok {
				free[in] = struct{}{}
			}
		}
	}
	return sortedKeys(free)
}

// FreeOutputs returns the artifact names produced by the pipeline but
// consumed by no node, sorted. These are the pipeline's final products.
func (p *Pipeline) FreeOutputs() []string {
	consumed := p.logicalSet(func(n *node.Node) []string { return n.Inputs() })
	free := make(map[string]struct{})
	for _, n := range p.declared {
		for _, out := range n.Outputs() {
			if _, ok := consumed[StripTranscoding(out)]; !ok {
				free[out] = struct{}{}
			}
		}
	}
	return sortedKeys(free)
}

// OnlyNodesWithTags returns a valid sub-pipeline of the nodes carrying at
// least one of the given tags.
func (p *Pipeline) OnlyNodesWithTags(tags ...string) (*Pipeline, error) {
	var subset []*node.Node
	for _, n := range p.declared {
		for _, tag := range tags {
			if n.HasTag(tag) {
				subset = append(subset, n)
				break
			}
		}
	}
	return New(subset)
}

// OnlyNodes returns a valid sub-pipeline of the named nodes. Unknown names
// are an error.
func (p *Pipeline) OnlyNodes(names ...string) (*Pipeline, error) {
	byName := make(map[string]*node.Node, len(p.declared))
	for _, n := range p.declared {
		byName[n.Name()] = n
	}
	var subset []*node.Node
	for _, name := range names {
		n, ok := byName[name]
		if !ok {
			return nil, errors.BadSpec(name, "no node with this name in the pipeline")
		}
		subset = append(subset, n)
	}
	return New(subset)
}

// OnlyNodesWithNamespace returns a valid sub-pipeline of the nodes whose
// name starts with the given namespace prefix followed by a dot.
func (p *Pipeline) OnlyNodesWithNamespace(namespace string) (*Pipeline, error) {
	prefix := namespace + "."
	var subset []*node.Node
	for _, n := range p.declared {
		if strings.HasPrefix(n.Name(), prefix) {
			subset = append(subset, n)
		}
	}
	return New(subset)
}

// ValidateLayers checks that all transcoded variants of one logical
// artifact share the same catalog layer. Conflicts fail with a
// LAYER_CONFLICT error listing the offending names in sorted order.
func (p *Pipeline) ValidateLayers(layers map[string]string) error {
	byLogical := make(map[string][]string)
	for _, name := range p.Datasets() {
		byLogical[StripTranscoding(name)] = append(byLogical[StripTranscoding(name)], name)
	}

	var conflicting []string
	for _, names := range byLogical {
		distinct := make(map[string]struct{})
		var layered []string
		for _, name := range names {
			if layer, ok := layers[name]; ok {
				distinct[layer] = struct{}{}
				layered = append(layered, name)
			}
		}
		if len(distinct) > 1 {
			conflicting = append(conflicting, layered...)
		}
	}
	if len(conflicting) > 0 {
		return errors.LayerConflict(conflicting)
	}
	return nil
}

// String implements fmt.Stringer.
func (p *Pipeline) String() string {
	names := make([]string, len(p.sorted))
	for i, n := range p.sorted {
		names[i] = n.Name()
	}
	return fmt.Sprintf("Pipeline([%s])", strings.Join(names, ", "))
}

func (p *Pipeline) collect(names func(*node.Node) []string) []string {
	set := make(map[string]struct{})
	for _, n := range p.declared {
		for _, name := range names(n) {
			set[name] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func (p *Pipeline) logicalSet(names func(*node.Node) []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, n := range p.declared {
		for _, name := range names(n) {
			set[StripTranscoding(name)] = struct{}{}
		}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
