package datasets

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// YAMLDataset stores an arbitrary value as YAML.
type YAMLDataset struct {
	fileDataset
}

// NewYAMLDataset creates a YAML dataset backed by the given path.
func NewYAMLDataset(path string) *YAMLDataset {
	return &YAMLDataset{fileDataset{path: path}}
}

func (d *YAMLDataset) Load() (any, error) {
	data, err := d.read()
	if err != nil {
		return nil, err
	}
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.path, err)
	}
	return value, nil
}

func (d *YAMLDataset) Save(value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}
	return d.write(data)
}

func (d *YAMLDataset) Describe() map[string]any { return d.describe("yaml") }
