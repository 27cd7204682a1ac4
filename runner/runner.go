package runner

import (
	"context"

	"github.com/kbukum/pipekit/catalog"
	"github.com/kbukum/pipekit/hooks"
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/pipeline"
)

// Runner executes every node of a pipeline against a catalog and returns
// the materialized final outputs. Implementations differ only in
// scheduling; for side-effect-free transforms they are interchangeable.
type Runner interface {
	Run(ctx context.Context, p *pipeline.Pipeline, cat *catalog.DataCatalog, h hooks.Hooks) (map[string]any, error)
}

type config struct {
	requested   []string
	makeDefault func(name string) catalog.Dataset
	log         *logger.Logger
}

// Option customizes a runner.
type Option func(*config)

// WithRequestedOutputs overrides the set of final outputs the run gathers
// and returns. By default a run returns the pipeline's free outputs that no
// catalog entry captures.
func WithRequestedOutputs(names ...string) Option {
	return func(c *config) { c.requested = append([]string(nil), names...) }
}

// WithDefaultDatasetFactory controls how datasets are created for pipeline
// artifact names absent from the catalog. The default is an in-memory
// dataset per name.
func WithDefaultDatasetFactory(fn func(name string) catalog.Dataset) Option {
	return func(c *config) { c.makeDefault = fn }
}

// WithLogger sets the logger used by the runner.
func WithLogger(log *logger.Logger) Option {
	return func(c *config) { c.log = log }
}

func newConfig(component string, opts ...Option) config {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.Get(component)
	}
	return cfg
}

// runPipeline drives one run through the shared lifecycle: validate,
// announce, dispatch via the strategy, gather, announce completion.
func runPipeline(ctx context.Context, p *pipeline.Pipeline, cat *catalog.DataCatalog, h hooks.Hooks, cfg config, workers int, dispatch func(ctx context.Context, s *session, p *pipeline.Pipeline) error) (map[string]any, error) {
	if h == nil {
		h = hooks.Noop()
	}
	s, err := newSession(p, cat, h, cfg.requested, cfg.makeDefault, cfg.log)
	if err != nil {
		return nil, err
	}

	info := hooks.RunInfo{
		RunID:     s.id,
		Pipeline:  p.String(),
		NodeCount: len(p.Nodes()),
		Workers:   workers,
	}
	cfg.log.Info("pipeline run started", logger.Fields(
		logger.FieldRunID, s.id,
		logger.FieldPipeline, info.Pipeline,
		logger.FieldWorkers, workers,
	))
	h.BeforePipelineRun(ctx, info)

	if err := dispatch(ctx, s, p); err != nil {
		cfg.log.Error("pipeline run failed", logger.Fields(
			logger.FieldRunID, s.id,
			logger.FieldError, err,
		))
		return nil, err
	}

	outputs, err := s.gather(ctx)
	if err != nil {
		return nil, err
	}
	h.AfterPipelineRun(ctx, info, outputs)
	cfg.log.Info("pipeline run completed", logger.Fields(
		logger.FieldRunID, s.id,
		logger.FieldStatus, "ok",
	))
	return outputs, nil
}
