package node

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/pipekit/errors"
)

func identity(_ context.Context, args Args) (any, error) {
	return args.Get(0), nil
}

func TestNew_NilFunc(t *testing.T) {
	_, err := New(nil, NoInputs(), NoOutputs())
	if errors.CodeOf(err) != errors.ErrCodeBadSpec {
		t.Fatalf("expected BAD_INPUT_OUTPUT_SPEC, got %v", err)
	}
}

func TestNew_EmptyNames(t *testing.T) {
	_, err := New(identity, Positional(""), Single("out"))
	if errors.CodeOf(err) != errors.ErrCodeBadSpec {
		t.Fatalf("expected BAD_INPUT_OUTPUT_SPEC, got %v", err)
	}

	_, err = New(identity, Positional("in"), Ordered("a", "a"))
	if errors.CodeOf(err) != errors.ErrCodeBadSpec {
		t.Fatalf("expected error for duplicate outputs, got %v", err)
	}
}

func TestName_Generated(t *testing.T) {
	n := MustNew(identity, Positional("in"), Single("out"))
	if n.Name() != "[in] -> [out]" {
		t.Fatalf("unexpected generated name: %s", n.Name())
	}
}

func TestName_Explicit(t *testing.T) {
	n := MustNew(identity, Positional("in"), Single("out"), WithName("copy"))
	if n.Name() != "copy" {
		t.Fatalf("expected explicit name, got %s", n.Name())
	}
}

func TestTagsAndConfirms(t *testing.T) {
	n := MustNew(identity, Positional("in"), Single("out"),
		WithTags("daily", "ingest"), Confirms("in"))
	if !n.HasTag("daily") || n.HasTag("weekly") {
		t.Fatalf("unexpected tags: %v", n.Tags())
	}
	if diff := cmp.Diff([]string{"in"}, n.Confirms()); diff != "" {
		t.Fatalf("unexpected confirms (-want +got):\n%s", diff)
	}
}

func TestExecute_Positional(t *testing.T) {
	concat := func(_ context.Context, args Args) (any, error) {
		return fmt.Sprintf("%v%v", args.Get(0), args.Get(1)), nil
	}
	n := MustNew(concat, Positional("a", "b"), Single("ab"))

	out, err := n.Execute(context.Background(), map[string]any{"a": "x", "b": "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["ab"] != "xy" {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestExecute_Keyword(t *testing.T) {
	fn := func(_ context.Context, args Args) (any, error) {
		return args.Named("arg"), nil
	}
	n := MustNew(fn, Keyword(map[string]string{"arg": "ds4"}), Single("ds8"))

	out, err := n.Execute(context.Background(), map[string]any{"ds4": 42})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["ds8"] != 42 {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestExecute_OrderedOutputs(t *testing.T) {
	split := func(_ context.Context, args Args) (any, error) {
		return []any{args.Get(0), args.Get(1)}, nil
	}
	n := MustNew(split, Positional("ds3", "ds4"), Ordered("ds6", "ds7"))

	out, err := n.Execute(context.Background(), map[string]any{"ds3": 1, "ds4": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"ds6": 1, "ds7": 2}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("unexpected outputs (-want +got):\n%s", diff)
	}
}

func TestExecute_OrderedOutputs_WrongLength(t *testing.T) {
	bad := func(_ context.Context, _ Args) (any, error) {
		return []any{1}, nil
	}
	n := MustNew(bad, NoInputs(), Ordered("a", "b"))

	_, err := n.Execute(context.Background(), nil)
	if errors.CodeOf(err) != errors.ErrCodeBadSpec {
		t.Fatalf("expected BAD_INPUT_OUTPUT_SPEC, got %v", err)
	}
}

func TestExecute_NamedOutputs(t *testing.T) {
	fn := func(_ context.Context, _ Args) (any, error) {
		return map[string]any{"left": 1, "right": 2}, nil
	}
	n := MustNew(fn, NoInputs(), Named(map[string]string{"left": "dsL", "right": "dsR"}))

	out, err := n.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"dsL": 1, "dsR": 2}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("unexpected outputs (-want +got):\n%s", diff)
	}
}

func TestExecute_NamedOutputs_MissingKey(t *testing.T) {
	fn := func(_ context.Context, _ Args) (any, error) {
		return map[string]any{"left": 1}, nil
	}
	n := MustNew(fn, NoInputs(), Named(map[string]string{"left": "dsL", "right": "dsR"}))

	_, err := n.Execute(context.Background(), nil)
	if errors.CodeOf(err) != errors.ErrCodeBadSpec {
		t.Fatalf("expected BAD_INPUT_OUTPUT_SPEC, got %v", err)
	}
}

func TestExecute_TransformErrorNotWrapped(t *testing.T) {
	boom := fmt.Errorf("boom")
	fn := func(_ context.Context, _ Args) (any, error) { return nil, boom }
	n := MustNew(fn, NoInputs(), Single("out"))

	_, err := n.Execute(context.Background(), nil)
	if err != boom {
		t.Fatalf("expected raw transform error, got %v", err)
	}
}

func TestInputSpec_KeywordNamesDeterministic(t *testing.T) {
	s := Keyword(map[string]string{"b": "ds2", "a": "ds1"})
	want := []string{"ds1", "ds2"}
	if diff := cmp.Diff(want, s.Names()); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}
