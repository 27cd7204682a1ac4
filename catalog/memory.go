package catalog

import (
	"sync"

	"github.com/kbukum/pipekit/errors"
)

// MemoryDataset holds a single value in memory. It is the default dataset
// type for feed values and for intermediate artifacts a runner creates on
// the fly.
type MemoryDataset struct {
	mu    sync.RWMutex
	value any
	set   bool
}

// NewMemoryDataset creates an empty in-memory dataset.
func NewMemoryDataset() *MemoryDataset {
	return &MemoryDataset{}
}

// NewMemoryDatasetWith creates an in-memory dataset seeded with a value.
func NewMemoryDatasetWith(value any) *MemoryDataset {
	return &MemoryDataset{value: value, set: true}
}

// Load returns the stored value. Loading before any save is an error.
func (d *MemoryDataset) Load() (any, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.set {
		return nil, errors.New(errors.ErrCodeDatasetIO, "no data has been saved yet")
	}
	return d.value, nil
}

// Save stores the value.
func (d *MemoryDataset) Save(value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value = value
	d.set = true
	return nil
}

// Exists reports whether a value has been saved.
func (d *MemoryDataset) Exists() (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.set, nil
}

// Release drops the stored value.
func (d *MemoryDataset) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value = nil
	d.set = false
	return nil
}

// Describe returns metadata about the dataset.
func (d *MemoryDataset) Describe() map[string]any {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return map[string]any{"type": "memory", "populated": d.set}
}
