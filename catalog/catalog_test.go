package catalog

import (
	"testing"

	"github.com/kbukum/pipekit/errors"
)

func TestGet_NotFound(t *testing.T) {
	c := New(nil)
	_, err := c.Get("missing")
	if errors.CodeOf(err) != errors.ErrCodeDatasetNotFound {
		t.Fatalf("expected DATASET_NOT_FOUND, got %v", err)
	}
}

func TestAdd_DuplicateRejected(t *testing.T) {
	c := New(nil)
	if err := c.Add("ds1", NewMemoryDataset(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := c.Add("ds1", NewMemoryDataset(), false)
	if errors.CodeOf(err) != errors.ErrCodeDatasetAlreadyExists {
		t.Fatalf("expected DATASET_ALREADY_EXISTS, got %v", err)
	}
}

func TestAdd_Replace(t *testing.T) {
	c := New(map[string]Dataset{"ds1": NewMemoryDatasetWith(1)})
	if err := c.Add("ds1", NewMemoryDatasetWith(2), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := c.Load("ds1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 2 {
		t.Fatalf("expected replaced value 2, got %v", v)
	}
}

func TestAddFeedDict_WrapsPlainValues(t *testing.T) {
	c := New(nil)
	if err := c.AddFeedDict(map[string]any{"a": 42, "b": "hello"}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := c.Load("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestAddFeedDict_KeepsDatasetInstances(t *testing.T) {
	c := New(nil)
	ds := NewMemoryDatasetWith("direct")
	if err := c.AddFeedDict(map[string]any{"a": ds}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.Get("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ds {
		t.Fatal("expected the dataset instance to be registered as-is")
	}
}

func TestSave_NilRejected(t *testing.T) {
	c := New(map[string]Dataset{"ds1": NewMemoryDataset()})
	err := c.Save("ds1", nil)
	if errors.CodeOf(err) != errors.ErrCodeSaveOfNone {
		t.Fatalf("expected SAVE_OF_NONE, got %v", err)
	}
}

func TestSave_FalsyValuesAllowed(t *testing.T) {
	c := New(map[string]Dataset{"ds1": NewMemoryDataset()})
	for _, v := range []any{0, "", []int{}} {
		if err := c.Save("ds1", v); err != nil {
			t.Fatalf("expected save of %#v to succeed: %v", v, err)
		}
	}
}

func TestLoad_BeforeSaveFails(t *testing.T) {
	c := New(map[string]Dataset{"ds1": NewMemoryDataset()})
	_, err := c.Load("ds1")
	if errors.CodeOf(err) != errors.ErrCodeDatasetIO {
		t.Fatalf("expected DATASET_IO, got %v", err)
	}
}

func TestRelease_EmptiesMemoryDataset(t *testing.T) {
	c := New(map[string]Dataset{"ds1": NewMemoryDatasetWith("x")})
	if err := c.Release("ds1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	exists, err := c.Exists("ds1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("expected dataset emptied after release")
	}
}

type confirmingDataset struct {
	MemoryDataset
	confirmed int
}

func (d *confirmingDataset) Confirm() error {
	d.confirmed++
	return nil
}

func TestConfirm(t *testing.T) {
	ds := &confirmingDataset{}
	c := New(map[string]Dataset{"ds1": ds, "ds2": NewMemoryDataset()})

	if err := c.Confirm("ds1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.confirmed != 1 {
		t.Fatalf("expected one confirm, got %d", ds.confirmed)
	}

	// no-op for datasets without confirm support
	if err := c.Confirm("ds2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestList_Sorted(t *testing.T) {
	c := New(map[string]Dataset{
		"zeta":  NewMemoryDataset(),
		"alpha": NewMemoryDataset(),
	})
	names := c.List()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("expected sorted names, got %v", names)
	}
}

func TestShallowCopy_SharesDatasets(t *testing.T) {
	ds := NewMemoryDatasetWith(1)
	c := New(map[string]Dataset{"ds1": ds}, WithLayers(map[string]string{"ds1": "raw"}))

	copied := c.ShallowCopy()

	// adding to the copy must not affect the original
	if err := copied.Add("ds2", NewMemoryDataset(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Has("ds2") {
		t.Fatal("expected original catalog untouched")
	}

	// the dataset instance is shared
	if err := copied.Save("ds1", 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := c.Load("ds1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 99 {
		t.Fatalf("expected shared dataset value 99, got %v", v)
	}

	if layer, ok := copied.Layer("ds1"); !ok || layer != "raw" {
		t.Fatalf("expected layer carried over, got %q ok=%v", layer, ok)
	}
}

func TestLambdaDataset(t *testing.T) {
	loaded := false
	ds := &LambdaDataset{
		LoadFn: func() (any, error) {
			loaded = true
			return 7, nil
		},
	}
	v, err := ds.Load()
	if err != nil || v != 7 || !loaded {
		t.Fatalf("unexpected result: v=%v err=%v", v, err)
	}
	if err := ds.Save(1); err == nil {
		t.Fatal("expected save to fail without SaveFn")
	}
	if err := ds.Release(); err != nil {
		t.Fatalf("release should be a no-op: %v", err)
	}
}
