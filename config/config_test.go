package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/pipekit/catalog"
	"github.com/kbukum/pipekit/errors"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	catalogFile := writeFile(t, filepath.Join(dir, "catalog.yaml"), `
datasets:
  raw_events:
    type: json
    layer: raw
    filepath: `+filepath.Join(dir, "events.json")+`
  report:
    type: text
    layer: reporting
    filepath: `+filepath.Join(dir, "report.txt")+`
  scratch:
    type: memory
feed:
  threshold: 10
`)

	cat, err := LoadCatalog(catalogFile)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	for _, name := range []string{"raw_events", "report", "scratch", "threshold"} {
		if !cat.Has(name) {
			t.Errorf("catalog is missing %q", name)
		}
	}
	if layer, ok := cat.Layer("raw_events"); !ok || layer != "raw" {
		t.Errorf("Layer(raw_events) = %q, %v", layer, ok)
	}
	if _, ok := cat.Layer("scratch"); ok {
		t.Error("scratch should have no layer")
	}
	value, err := cat.Load("threshold")
	if err != nil {
		t.Fatalf("Load(threshold): %v", err)
	}
	if value != 10 {
		t.Errorf("threshold = %v, want 10", value)
	}
}

func TestLoadCatalogExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	catalogFile := writeFile(t, filepath.Join(dir, "catalog.yaml"), `
datasets:
  notes:
    type: text
    filepath: ${DATA_DIR}/notes.txt
`)

	cat, err := LoadCatalog(catalogFile)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if err := cat.Save("notes", "hi"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Errorf("expected expanded path to be written: %v", err)
	}
}

func TestLoadCatalogMissingType(t *testing.T) {
	dir := t.TempDir()
	catalogFile := writeFile(t, filepath.Join(dir, "catalog.yaml"), `
datasets:
  broken:
    layer: raw
`)

	_, err := LoadCatalog(catalogFile)
	if err == nil {
		t.Fatal("expected validation error for missing type")
	}
	if code := errors.CodeOf(err); code != errors.ErrCodeBadConfig {
		t.Fatalf("code = %s, want %s", code, errors.ErrCodeBadConfig)
	}
}

func TestLoadCatalogUnknownType(t *testing.T) {
	dir := t.TempDir()
	catalogFile := writeFile(t, filepath.Join(dir, "catalog.yaml"), `
datasets:
  exotic:
    type: parquet
`)

	_, err := LoadCatalog(catalogFile)
	if err == nil {
		t.Fatal("expected error for unknown dataset type")
	}
	if code := errors.CodeOf(err); code != errors.ErrCodeBadConfig {
		t.Fatalf("code = %s, want %s", code, errors.ErrCodeBadConfig)
	}
}

func TestCustomFactory(t *testing.T) {
	dir := t.TempDir()
	catalogFile := writeFile(t, filepath.Join(dir, "catalog.yaml"), `
datasets:
  special:
    type: custom
`)

	factories := DefaultFactories()
	factories.Register("custom", func(string, DatasetConfig) (catalog.Dataset, error) {
		return catalog.NewMemoryDatasetWith("custom-value"), nil
	})

	cat, err := LoadCatalog(catalogFile, WithFactories(factories))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	value, err := cat.Load("special")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if value != "custom-value" {
		t.Errorf("value = %v, want custom-value", value)
	}
}

func TestLoadCatalogWithEnvFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "NOTES_DIR="+dir+"\n")
	catalogFile := writeFile(t, filepath.Join(dir, "catalog.yaml"), `
datasets:
  notes:
    type: text
    filepath: ${NOTES_DIR}/notes.txt
`)

	cat, err := LoadCatalog(catalogFile, WithEnvFile(filepath.Join(dir, ".env")))
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if err := cat.Save("notes", "content"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Errorf("expected env file variable to expand: %v", err)
	}
}
