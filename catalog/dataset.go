package catalog

// Dataset is the capability contract every data artifact implements.
// Implementations wrap load/save failures in a DATASET_IO framework error.
type Dataset interface {
	// Load reads and returns the stored value.
	Load() (any, error)

	// Save persists the given value.
	Save(value any) error

	// Exists reports whether the underlying data is present.
	Exists() (bool, error)

	// Release frees any resources held for the data, such as caches or
	// in-memory copies. Loading again after a release is allowed for
	// storage-backed datasets.
	Release() error

	// Describe returns structured metadata about the dataset.
	Describe() map[string]any
}

// Confirmable is optionally implemented by transactional or incremental
// datasets that need a post-run acknowledgement.
type Confirmable interface {
	Confirm() error
}
