package runner

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/pipekit/catalog"
	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/hooks"
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/node"
	"github.com/kbukum/pipekit/pipeline"
)

// session holds the mutable state of one pipeline run: a private catalog
// view, the remaining-load-count table and the hook dispatcher. Its methods
// are safe for concurrent use by runner workers.
type session struct {
	id      string
	catalog *catalog.DataCatalog
	hooks   hooks.Hooks
	log     *logger.Logger

	// requested, in deterministic order, are the names gathered and
	// returned when the run completes.
	requested    []string
	requestedSet map[string]struct{}

	freeInputs  map[string]struct{}
	freeOutputs map[string]struct{}

	mu         sync.Mutex
	loadCounts map[string]int
}

// newSession validates the run up front and prepares its private state. No
// dataset is touched until validation has passed: layer placement, presence
// of every free input and satisfiability of every explicitly requested
// output are all checked first, each kind reported as a single error naming
// all offenders.
func newSession(p *pipeline.Pipeline, cat *catalog.DataCatalog, h hooks.Hooks, requested []string, makeDefault func(name string) catalog.Dataset, log *logger.Logger) (*session, error) {
	if err := p.ValidateLayers(cat.Layers()); err != nil {
		return nil, err
	}

	var missing []string
	for _, name := range p.FreeInputs() {
		if !cat.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.MissingFreeInputs(missing)
	}

	if requested == nil {
		// By default the run materializes every terminal artifact that no
		// catalog entry captures.
		for _, name := range p.FreeOutputs() {
			if !cat.Has(name) {
				requested = append(requested, name)
			}
		}
	} else {
		produced := make(map[string]struct{})
		for _, name := range p.AllOutputs() {
			produced[name] = struct{}{}
		}
		var unsatisfied []string
		for _, name := range requested {
			if _, ok := produced[name]; !ok {
				unsatisfied = append(unsatisfied, name)
			}
		}
		if len(unsatisfied) > 0 {
			return nil, errors.UnsatisfiedOutputs(unsatisfied)
		}
	}

	s := &session{
		id:           uuid.NewString(),
		catalog:      cat.ShallowCopy(),
		hooks:        h,
		log:          log,
		requested:    requested,
		requestedSet: make(map[string]struct{}, len(requested)),
		freeInputs:   make(map[string]struct{}),
		freeOutputs:  make(map[string]struct{}),
		loadCounts:   make(map[string]int),
	}
	for _, name := range requested {
		s.requestedSet[name] = struct{}{}
	}
	for _, name := range p.FreeInputs() {
		s.freeInputs[name] = struct{}{}
	}
	for _, name := range p.FreeOutputs() {
		s.freeOutputs[name] = struct{}{}
	}

	if makeDefault == nil {
		makeDefault = func(string) catalog.Dataset { return catalog.NewMemoryDataset() }
	}
	for _, name := range p.Datasets() {
		if !s.catalog.Has(name) {
			if err := s.catalog.Add(name, makeDefault(name), false); err != nil {
				return nil, err
			}
		}
	}

	// Each consuming node accounts for one load; gathering a requested
	// output at the end of the run accounts for one more.
	for _, n := range p.Nodes() {
		for _, in := range n.Inputs() {
			s.loadCounts[in]++
		}
	}
	for _, name := range requested {
		s.loadCounts[name]++
	}

	return s, nil
}

// loadInput loads one artifact on behalf of a consumer and decrements its
// remaining-load-count once the value is in hand. The consumer that drives
// the count below one releases the backing dataset, unless the artifact is
// a free input (the caller owns it) or a requested final output (the gather
// step still needs it).
func (s *session) loadInput(ctx context.Context, name string) (any, error) {
	s.hooks.BeforeDatasetLoad(ctx, name)
	value, err := s.catalog.Load(name)
	if err != nil {
		return nil, err
	}
	s.hooks.AfterDatasetLoad(ctx, name, value)

	s.mu.Lock()
	s.loadCounts[name]--
	_, free := s.freeInputs[name]
	_, wanted := s.requestedSet[name]
	release := s.loadCounts[name] < 1 && !free && !wanted
	s.mu.Unlock()

	if release {
		if err := s.release(ctx, name); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// release frees the backing dataset and notifies interested observers.
func (s *session) release(ctx context.Context, name string) error {
	if err := s.catalog.Release(name); err != nil {
		return err
	}
	s.log.Debug("released dataset", logger.Fields(
		logger.FieldRunID, s.id,
		logger.FieldDataset, name,
	))
	if o, ok := s.hooks.(hooks.DatasetReleaseObserver); ok {
		o.OnDatasetRelease(ctx, name)
	}
	return nil
}

// runNode executes one node end to end: load inputs, invoke the transform,
// save declared outputs, confirm, and release outputs that nothing will
// ever load.
func (s *session) runNode(ctx context.Context, n *node.Node) error {
	info := hooks.NodeInfo{RunID: s.id, Node: n.Name(), Tags: n.Tags()}
	s.hooks.BeforeNodeRun(ctx, info)
	outputs, err := s.executeNode(ctx, n)
	if err != nil {
		s.hooks.OnNodeError(ctx, info, err)
		s.log.Error("node failed", logger.Fields(
			logger.FieldRunID, s.id,
			logger.FieldNode, n.Name(),
			logger.FieldError, err,
		))
		return err
	}
	s.hooks.AfterNodeRun(ctx, info, outputs)
	s.log.Debug("node completed", logger.Fields(
		logger.FieldRunID, s.id,
		logger.FieldNode, n.Name(),
	))
	return nil
}

func (s *session) executeNode(ctx context.Context, n *node.Node) (map[string]any, error) {
	values := make(map[string]any)
	for _, in := range n.Inputs() {
		v, err := s.loadInput(ctx, in)
		if err != nil {
			return nil, err
		}
		values[in] = v
	}

	outputs, err := n.Execute(ctx, values)
	if err != nil {
		return nil, errors.NodeExecution(n.Name(), err)
	}

	for _, out := range n.Outputs() {
		value := outputs[out]
		s.hooks.BeforeDatasetSave(ctx, out, value)
		if err := s.catalog.Save(out, value); err != nil {
			return nil, err
		}
		s.hooks.AfterDatasetSave(ctx, out, value)
	}

	for _, name := range n.Confirms() {
		if err := s.catalog.Confirm(name); err != nil {
			return nil, err
		}
	}

	if err := s.releaseUnusedOutputs(ctx, n); err != nil {
		return nil, err
	}
	return outputs, nil
}

// releaseUnusedOutputs frees outputs of a completed node that no node will
// load, typically the save half of a transcoded pair. Terminal artifacts
// surfaced by the pipeline stay loadable for the caller.
func (s *session) releaseUnusedOutputs(ctx context.Context, n *node.Node) error {
	for _, out := range n.Outputs() {
		s.mu.Lock()
		count := s.loadCounts[out]
		_, terminal := s.freeOutputs[out]
		s.mu.Unlock()
		if count < 1 && !terminal {
			if err := s.release(ctx, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// gather loads the requested final outputs from the catalog once every node
// has completed.
func (s *session) gather(ctx context.Context) (map[string]any, error) {
	outputs := make(map[string]any, len(s.requested))
	for _, name := range s.requested {
		value, err := s.loadInput(ctx, name)
		if err != nil {
			return nil, err
		}
		outputs[name] = value
	}
	return outputs, nil
}
