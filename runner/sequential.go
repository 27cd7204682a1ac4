package runner

import (
	"context"

	"github.com/kbukum/pipekit/catalog"
	"github.com/kbukum/pipekit/hooks"
	"github.com/kbukum/pipekit/pipeline"
)

// Sequential runs nodes one at a time in topological order, breaking ties
// by declaration order. Runs are fully deterministic.
type Sequential struct {
	cfg config
}

// NewSequential builds a sequential runner.
func NewSequential(opts ...Option) *Sequential {
	return &Sequential{cfg: newConfig("runner.sequential", opts...)}
}

// Run implements Runner.
func (r *Sequential) Run(ctx context.Context, p *pipeline.Pipeline, cat *catalog.DataCatalog, h hooks.Hooks) (map[string]any, error) {
	return runPipeline(ctx, p, cat, h, r.cfg, 1, r.dispatch)
}

func (r *Sequential) dispatch(ctx context.Context, s *session, p *pipeline.Pipeline) error {
	for _, n := range p.Nodes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.runNode(ctx, n); err != nil {
			return err
		}
	}
	return nil
}
