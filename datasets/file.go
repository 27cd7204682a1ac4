package datasets

import (
	"fmt"
	"os"
	"path/filepath"
)

// fileDataset holds the shared mechanics of path-backed datasets.
type fileDataset struct {
	path string
}

func (d *fileDataset) Exists() (bool, error) {
	_, err := os.Stat(d.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Release is a no-op: file datasets hold no in-process state.
func (d *fileDataset) Release() error { return nil }

func (d *fileDataset) read() ([]byte, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}
	return data, nil
}

func (d *fileDataset) write(data []byte) error {
	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(d.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", d.path, err)
	}
	return nil
}

func (d *fileDataset) describe(typ string) map[string]any {
	return map[string]any{"type": typ, "filepath": d.path}
}
