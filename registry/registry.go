package registry

import (
	"sort"
	"sync"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/pipeline"
)

// DefaultName is the conventional name of an application's main pipeline.
const DefaultName = "__default__"

// Provider builds a pipeline on first use. Construction errors surface at
// lookup time.
type Provider func() (*pipeline.Pipeline, error)

type entry struct {
	once     sync.Once
	provider Provider
	pipeline *pipeline.Pipeline
	err      error
}

func (e *entry) resolve() (*pipeline.Pipeline, error) {
	e.once.Do(func() {
		e.pipeline, e.err = e.provider()
	})
	return e.pipeline, e.err
}

// PipelineRegistry maps stable names to pipelines. Safe for concurrent use.
type PipelineRegistry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	log     *logger.Logger
}

// New creates an empty registry.
func New() *PipelineRegistry {
	return &PipelineRegistry{
		entries: make(map[string]*entry),
		log:     logger.Get("registry"),
	}
}

// Register adds a fully built pipeline under the given name.
func (r *PipelineRegistry) Register(name string, p *pipeline.Pipeline) error {
	return r.RegisterProvider(name, func() (*pipeline.Pipeline, error) { return p, nil })
}

// RegisterProvider adds a lazily built pipeline under the given name. The
// provider runs at most once, on the first lookup.
func (r *PipelineRegistry) RegisterProvider(name string, provider Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return errors.New(errors.ErrCodeBadConfig, "pipeline already registered: "+name)
	}
	r.entries[name] = &entry{provider: provider}
	r.log.Debug("pipeline registered", logger.Fields(logger.FieldPipeline, name))
	return nil
}

// Get resolves the named pipeline, building it if it was registered through
// a provider.
func (r *PipelineRegistry) Get(name string) (*pipeline.Pipeline, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeBadConfig, "pipeline not registered: "+name)
	}
	return e.resolve()
}

// Default resolves the pipeline registered under DefaultName.
func (r *PipelineRegistry) Default() (*pipeline.Pipeline, error) {
	return r.Get(DefaultName)
}

// Has reports whether a pipeline is registered under the given name.
func (r *PipelineRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// List returns all registered names in sorted order.
func (r *PipelineRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filter returns the sorted names whose resolved pipeline satisfies the
// predicate. Pipelines that fail to build are skipped.
func (r *PipelineRegistry) Filter(keep func(name string, p *pipeline.Pipeline) bool) []string {
	var names []string
	for _, name := range r.List() {
		p, err := r.Get(name)
		if err != nil {
			continue
		}
		if keep(name, p) {
			names = append(names, name)
		}
	}
	return names
}
