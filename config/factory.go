package config

import (
	"sync"

	"github.com/kbukum/pipekit/catalog"
	"github.com/kbukum/pipekit/datasets"
	"github.com/kbukum/pipekit/errors"
)

// DatasetFactory builds a dataset from one catalog entry.
type DatasetFactory func(name string, cfg DatasetConfig) (catalog.Dataset, error)

// FactoryRegistry maps dataset type names to factories. Safe for concurrent
// use.
type FactoryRegistry struct {
	mu        sync.RWMutex
	factories map[string]DatasetFactory
}

// NewFactoryRegistry creates an empty registry.
func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{factories: make(map[string]DatasetFactory)}
}

// Register adds or replaces the factory for a type name.
func (r *FactoryRegistry) Register(typeName string, factory DatasetFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typeName] = factory
}

// Get resolves the factory for a type name.
func (r *FactoryRegistry) Get(typeName string) (DatasetFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[typeName]
	return f, ok
}

func requireFilepath(name string, cfg DatasetConfig) error {
	if cfg.Filepath == "" {
		return errors.BadConfig(name, "filepath is required for type "+cfg.Type)
	}
	return nil
}

// DefaultFactories returns a registry preloaded with the built-in dataset
// types: memory, text, json, yaml and csv.
func DefaultFactories() *FactoryRegistry {
	r := NewFactoryRegistry()
	r.Register("memory", func(string, DatasetConfig) (catalog.Dataset, error) {
		return catalog.NewMemoryDataset(), nil
	})
	r.Register("text", func(name string, cfg DatasetConfig) (catalog.Dataset, error) {
		if err := requireFilepath(name, cfg); err != nil {
			return nil, err
		}
		return datasets.NewTextDataset(cfg.Filepath), nil
	})
	r.Register("json", func(name string, cfg DatasetConfig) (catalog.Dataset, error) {
		if err := requireFilepath(name, cfg); err != nil {
			return nil, err
		}
		return datasets.NewJSONDataset(cfg.Filepath), nil
	})
	r.Register("yaml", func(name string, cfg DatasetConfig) (catalog.Dataset, error) {
		if err := requireFilepath(name, cfg); err != nil {
			return nil, err
		}
		return datasets.NewYAMLDataset(cfg.Filepath), nil
	})
	r.Register("csv", func(name string, cfg DatasetConfig) (catalog.Dataset, error) {
		if err := requireFilepath(name, cfg); err != nil {
			return nil, err
		}
		ds := datasets.NewCSVDataset(cfg.Filepath)
		if delim, ok := cfg.Options["delimiter"].(string); ok && delim != "" {
			ds.Comma = rune(delim[0])
		}
		return ds, nil
	})
	return r
}
