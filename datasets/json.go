package datasets

import (
	"encoding/json"
	"fmt"
)

// JSONDataset stores an arbitrary value as indented JSON.
type JSONDataset struct {
	fileDataset
}

// NewJSONDataset creates a JSON dataset backed by the given path.
func NewJSONDataset(path string) *JSONDataset {
	return &JSONDataset{fileDataset{path: path}}
}

func (d *JSONDataset) Load() (any, error) {
	data, err := d.read()
	if err != nil {
		return nil, err
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.path, err)
	}
	return value, nil
}

func (d *JSONDataset) Save(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}
	return d.write(append(data, '\n'))
}

func (d *JSONDataset) Describe() map[string]any { return d.describe("json") }
