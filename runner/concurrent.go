package runner

import (
	"context"

	"github.com/kbukum/pipekit/catalog"
	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/hooks"
	"github.com/kbukum/pipekit/node"
	"github.com/kbukum/pipekit/pipeline"
)

// Concurrent runs every ready node on a bounded worker pool. A node becomes
// ready the moment all of its inputs are available, so independent branches
// overlap without waiting for level boundaries.
type Concurrent struct {
	maxWorkers int
	cfg        config
}

// NewConcurrent builds a concurrent runner. maxWorkers caps the worker pool
// size; zero means the runner sizes the pool from the pipeline's shape.
func NewConcurrent(maxWorkers int, opts ...Option) (*Concurrent, error) {
	if maxWorkers < 0 {
		return nil, errors.BadConfig("max_workers", "must be positive")
	}
	return &Concurrent{maxWorkers: maxWorkers, cfg: newConfig("runner.concurrent", opts...)}, nil
}

// MustNewConcurrent is like NewConcurrent but panics on a bad pool size.
func MustNewConcurrent(maxWorkers int, opts ...Option) *Concurrent {
	r, err := NewConcurrent(maxWorkers, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// workersFor sizes the pool so that the widest independent stretch of the
// pipeline can run fully in parallel. A chain needs one worker; each extra
// node beyond its topological group adds one.
func (r *Concurrent) workersFor(p *pipeline.Pipeline) int {
	required := len(p.Nodes()) - len(p.GroupedNodes()) + 1
	if required < 1 {
		required = 1
	}
	if r.maxWorkers > 0 && r.maxWorkers < required {
		return r.maxWorkers
	}
	return required
}

// Run implements Runner.
func (r *Concurrent) Run(ctx context.Context, p *pipeline.Pipeline, cat *catalog.DataCatalog, h hooks.Hooks) (map[string]any, error) {
	return runPipeline(ctx, p, cat, h, r.cfg, r.workersFor(p), r.dispatch)
}

type nodeResult struct {
	node *node.Node
	err  error
}

func (r *Concurrent) dispatch(ctx context.Context, s *session, p *pipeline.Pipeline) error {
	workers := r.workersFor(p)
	pending := p.Nodes()
	produced := make(map[string]struct{})

	ready := func(n *node.Node) bool {
		for _, in := range n.Inputs() {
			if _, ok := s.freeInputs[in]; ok {
				continue
			}
			if _, ok := produced[pipeline.StripTranscoding(in)]; ok {
				continue
			}
			return false
		}
		return true
	}

	results := make(chan nodeResult, workers)
	inflight := 0
	var runErr error

	for {
		// Dispatch every ready node up to the pool bound. After a failure
		// no new work starts; in-flight nodes are drained and their
		// results discarded.
		if runErr == nil && ctx.Err() == nil {
			for i := 0; i < len(pending) && inflight < workers; {
				n := pending[i]
				if !ready(n) {
					i++
					continue
				}
				pending = append(pending[:i], pending[i+1:]...)
				inflight++
				go func() {
					results <- nodeResult{node: n, err: s.runNode(ctx, n)}
				}()
			}
		}
		if inflight == 0 {
			break
		}

		res := <-results
		inflight--
		if res.err != nil {
			if runErr == nil {
				runErr = res.err
			}
			continue
		}
		if runErr != nil {
			continue
		}
		for _, out := range res.node.Outputs() {
			produced[pipeline.StripTranscoding(out)] = struct{}{}
		}
	}

	if runErr != nil {
		return runErr
	}
	return ctx.Err()
}
