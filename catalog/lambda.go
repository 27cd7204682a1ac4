package catalog

import "github.com/kbukum/pipekit/errors"

// LambdaDataset adapts plain functions into the Dataset contract. It is
// handy for tests and for one-off artifacts whose IO does not deserve a
// dedicated type.
type LambdaDataset struct {
	// LoadFn reads the value. Nil means the dataset cannot be loaded.
	LoadFn func() (any, error)
	// SaveFn writes the value. Nil means the dataset cannot be saved.
	SaveFn func(value any) error
	// ExistsFn reports data presence. Nil defaults to false.
	ExistsFn func() (bool, error)
	// ReleaseFn frees held resources. Nil is a no-op.
	ReleaseFn func() error
}

// Load invokes LoadFn.
func (d *LambdaDataset) Load() (any, error) {
	if d.LoadFn == nil {
		return nil, errors.New(errors.ErrCodeDatasetIO, "dataset does not support load")
	}
	return d.LoadFn()
}

// Save invokes SaveFn.
func (d *LambdaDataset) Save(value any) error {
	if d.SaveFn == nil {
		return errors.New(errors.ErrCodeDatasetIO, "dataset does not support save")
	}
	return d.SaveFn(value)
}

// Exists invokes ExistsFn.
func (d *LambdaDataset) Exists() (bool, error) {
	if d.ExistsFn == nil {
		return false, nil
	}
	return d.ExistsFn()
}

// Release invokes ReleaseFn.
func (d *LambdaDataset) Release() error {
	if d.ReleaseFn == nil {
		return nil
	}
	return d.ReleaseFn()
}

// Describe returns metadata about the dataset.
func (d *LambdaDataset) Describe() map[string]any {
	return map[string]any{
		"type":     "lambda",
		"loadable": d.LoadFn != nil,
		"savable":  d.SaveFn != nil,
	}
}
