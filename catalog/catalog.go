package catalog

import (
	"sort"
	"sync"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/logger"
)

// DataCatalog is the registry mapping artifact names to datasets. It is
// safe for concurrent use; runners share one catalog across workers.
type DataCatalog struct {
	mu       sync.RWMutex
	datasets map[string]Dataset
	layers   map[string]string
	log      *logger.Logger
}

// Option customises catalog construction.
type Option func(*DataCatalog)

// WithLayers attaches the per-name layer tags used by the pipeline
// transcoding-consistency check.
func WithLayers(layers map[string]string) Option {
	return func(c *DataCatalog) {
		for name, layer := range layers {
			c.layers[name] = layer
		}
	}
}

// WithLogger sets the logger used for catalog events.
func WithLogger(log *logger.Logger) Option {
	return func(c *DataCatalog) { c.log = log }
}

// New creates a DataCatalog pre-populated with the given datasets.
func New(datasets map[string]Dataset, opts ...Option) *DataCatalog {
	c := &DataCatalog{
		datasets: make(map[string]Dataset, len(datasets)),
		layers:   make(map[string]string),
		log:      logger.Get("catalog"),
	}
	for name, ds := range datasets {
		c.datasets[name] = ds
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the dataset registered under name.
func (c *DataCatalog) Get(name string) (Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.datasets[name]
	if !ok {
		return nil, errors.DatasetNotFound(name)
	}
	return ds, nil
}

// Has reports whether a dataset is registered under name.
func (c *DataCatalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.datasets[name]
	return ok
}

// Add registers a dataset under name. Unless replace is set, registering an
// existing name fails.
func (c *DataCatalog) Add(name string, ds Dataset, replace bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.datasets[name]; ok && !replace {
		return errors.DatasetAlreadyExists(name)
	}
	c.datasets[name] = ds
	c.log.Debug("dataset registered", logger.Fields(logger.FieldDataset, name))
	return nil
}

// AddFeedDict registers plain values, wrapping anything that is not already
// a Dataset into a MemoryDataset.
func (c *DataCatalog) AddFeedDict(feed map[string]any, replace bool) error {
	names := make([]string, 0, len(feed))
	for name := range feed {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ds, ok := feed[name].(Dataset)
		if !ok {
			ds = NewMemoryDatasetWith(feed[name])
		}
		if err := c.Add(name, ds, replace); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the value of the named dataset.
func (c *DataCatalog) Load(name string) (any, error) {
	ds, err := c.Get(name)
	if err != nil {
		return nil, err
	}
	c.log.Debug("loading dataset", logger.Fields(logger.FieldDataset, name))
	value, err := ds.Load()
	if err != nil {
		return nil, errors.DatasetIO(name, "load", err)
	}
	return value, nil
}

// Save writes a value to the named dataset. Saving nil is rejected.
func (c *DataCatalog) Save(name string, value any) error {
	if value == nil {
		return errors.SaveOfNone(name)
	}
	ds, err := c.Get(name)
	if err != nil {
		return err
	}
	c.log.Debug("saving dataset", logger.Fields(logger.FieldDataset, name))
	if err := ds.Save(value); err != nil {
		return errors.DatasetIO(name, "save", err)
	}
	return nil
}

// Exists reports whether the named dataset's data is present.
func (c *DataCatalog) Exists(name string) (bool, error) {
	ds, err := c.Get(name)
	if err != nil {
		return false, err
	}
	return ds.Exists()
}

// Release frees resources held by the named dataset.
func (c *DataCatalog) Release(name string) error {
	ds, err := c.Get(name)
	if err != nil {
		return err
	}
	c.log.Debug("releasing dataset", logger.Fields(logger.FieldDataset, name))
	if err := ds.Release(); err != nil {
		return errors.DatasetIO(name, "release", err)
	}
	return nil
}

// Confirm acknowledges the named dataset. Datasets that do not implement
// Confirmable are skipped silently.
func (c *DataCatalog) Confirm(name string) error {
	ds, err := c.Get(name)
	if err != nil {
		return err
	}
	confirmable, ok := ds.(Confirmable)
	if !ok {
		c.log.Debug("dataset does not support confirm", logger.Fields(logger.FieldDataset, name))
		return nil
	}
	if err := confirmable.Confirm(); err != nil {
		return errors.DatasetIO(name, "confirm", err)
	}
	return nil
}

// List returns all registered names in sorted order.
func (c *DataCatalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.datasets))
	for name := range c.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Layer returns the layer tag attached to name, if any.
func (c *DataCatalog) Layer(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	layer, ok := c.layers[name]
	return layer, ok
}

// Layers returns a copy of the name to layer mapping.
func (c *DataCatalog) Layers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.layers))
	for name, layer := range c.layers {
		out[name] = layer
	}
	return out
}

// ShallowCopy returns a new catalog sharing the same dataset instances but
// with independent registration bookkeeping, so a runner can add run-scoped
// defaults without mutating the caller's catalog.
func (c *DataCatalog) ShallowCopy() *DataCatalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	copied := &DataCatalog{
		datasets: make(map[string]Dataset, len(c.datasets)),
		layers:   make(map[string]string, len(c.layers)),
		log:      c.log,
	}
	for name, ds := range c.datasets {
		copied.datasets[name] = ds
	}
	for name, layer := range c.layers {
		copied.layers[name] = layer
	}
	return copied
}
