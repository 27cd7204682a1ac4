package datasets

import (
	"github.com/kbukum/pipekit/catalog"
)

// CachedDataset keeps an in-memory copy of a wrapped dataset's value so
// repeated loads within a run skip the wrapped dataset's IO. Release drops
// the cached copy and releases the wrapped dataset.
type CachedDataset struct {
	wrapped catalog.Dataset
	cache   *catalog.MemoryDataset
}

// NewCachedDataset wraps the given dataset with a memory cache.
func NewCachedDataset(wrapped catalog.Dataset) *CachedDataset {
	return &CachedDataset{wrapped: wrapped, cache: catalog.NewMemoryDataset()}
}

// Load returns the cached value if present; otherwise it loads from the
// wrapped dataset and populates the cache.
func (d *CachedDataset) Load() (any, error) {
	if ok, _ := d.cache.Exists(); ok {
		return d.cache.Load()
	}
	value, err := d.wrapped.Load()
	if err != nil {
		return nil, err
	}
	if err := d.cache.Save(value); err != nil {
		return nil, err
	}
	return value, nil
}

// Save writes through to the wrapped dataset and refreshes the cache.
func (d *CachedDataset) Save(value any) error {
	if err := d.wrapped.Save(value); err != nil {
		return err
	}
	return d.cache.Save(value)
}

// Exists reports presence in either the cache or the wrapped dataset.
func (d *CachedDataset) Exists() (bool, error) {
	if ok, _ := d.cache.Exists(); ok {
		return true, nil
	}
	return d.wrapped.Exists()
}

// Release empties the cache and releases the wrapped dataset.
func (d *CachedDataset) Release() error {
	if err := d.cache.Release(); err != nil {
		return err
	}
	return d.wrapped.Release()
}

func (d *CachedDataset) Describe() map[string]any {
	return map[string]any{"type": "cached", "wrapped": d.wrapped.Describe()}
}
