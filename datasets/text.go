package datasets

import "fmt"

// TextDataset stores a string in a plain file.
type TextDataset struct {
	fileDataset
}

// NewTextDataset creates a text dataset backed by the given path.
func NewTextDataset(path string) *TextDataset {
	return &TextDataset{fileDataset{path: path}}
}

func (d *TextDataset) Load() (any, error) {
	data, err := d.read()
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (d *TextDataset) Save(value any) error {
	text, ok := value.(string)
	if !ok {
		return fmt.Errorf("text dataset expects string, got %T", value)
	}
	return d.write([]byte(text))
}

func (d *TextDataset) Describe() map[string]any { return d.describe("text") }
