package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/pipekit/catalog"
	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/node"
)

func TestNewConcurrentRejectsNegativeWorkers(t *testing.T) {
	if _, err := NewConcurrent(-1); err == nil {
		t.Fatal("expected error for negative worker count")
	} else if code := errors.CodeOf(err); code != errors.ErrCodeBadConfig {
		t.Fatalf("code = %s, want %s", code, errors.ErrCodeBadConfig)
	}
}

func TestConcurrentWorkerSizing(t *testing.T) {
	chain := mustPipeline(t,
		mustNode(t, identity, node.Positional("a"), node.Single("b")),
		mustNode(t, identity, node.Positional("b"), node.Single("c")),
		mustNode(t, identity, node.Positional("c"), node.Single("d")),
	)
	wide := mustPipeline(t,
		mustNode(t, identity, node.Positional("a"), node.Single("b")),
		mustNode(t, identity, node.Positional("a"), node.Single("c")),
		mustNode(t, identity, node.Positional("a"), node.Single("d")),
	)

	r := MustNewConcurrent(0)
	if got := r.workersFor(chain); got != 1 {
		t.Errorf("chain workers = %d, want 1", got)
	}
	if got := r.workersFor(wide); got != 3 {
		t.Errorf("wide workers = %d, want 3", got)
	}
	capped := MustNewConcurrent(2)
	if got := capped.workersFor(wide); got != 2 {
		t.Errorf("capped workers = %d, want 2", got)
	}
}

// A node whose inputs are ready must not wait for slower nodes in the same
// topological level.
func TestConcurrentDispatchesBeyondLevels(t *testing.T) {
	slowGate := make(chan struct{})
	var fastDone atomic.Bool

	slow := func(_ context.Context, args node.Args) (any, error) {
		<-slowGate
		return args.Get(0), nil
	}
	fast := func(_ context.Context, args node.Args) (any, error) {
		return args.Get(0), nil
	}
	after := func(_ context.Context, args node.Args) (any, error) {
		fastDone.Store(true)
		close(slowGate)
		return args.Get(0), nil
	}

	p := mustPipeline(t,
		mustNode(t, slow, node.Positional("in"), node.Single("slow_out"), node.WithName("slow")),
		mustNode(t, fast, node.Positional("in"), node.Single("fast_out"), node.WithName("fast")),
		mustNode(t, after, node.Positional("fast_out"), node.Single("done"), node.WithName("after")),
	)
	cat := catalog.New(nil)
	if err := cat.AddFeedDict(map[string]any{"in": 1}, false); err != nil {
		t.Fatalf("AddFeedDict: %v", err)
	}

	outputs, err := MustNewConcurrent(3).Run(context.Background(), p, cat, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !fastDone.Load() {
		t.Error("downstream node never ran")
	}
	if outputs["done"] != 1 || outputs["slow_out"] != 1 {
		t.Errorf("unexpected outputs: %v", outputs)
	}
}

func TestConcurrentRespectsWorkerCap(t *testing.T) {
	var running, peak int32
	var mu sync.Mutex

	work := func(_ context.Context, args node.Args) (any, error) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()
		defer func() {
			mu.Lock()
			running--
			mu.Unlock()
		}()
		return args.Get(0), nil
	}

	p := mustPipeline(t,
		mustNode(t, work, node.Positional("in"), node.Single("a")),
		mustNode(t, work, node.Positional("in"), node.Single("b")),
		mustNode(t, work, node.Positional("in"), node.Single("c")),
		mustNode(t, work, node.Positional("in"), node.Single("d")),
	)
	cat := catalog.New(nil)
	if err := cat.AddFeedDict(map[string]any{"in": 1}, false); err != nil {
		t.Fatalf("AddFeedDict: %v", err)
	}

	if _, err := MustNewConcurrent(2).Run(context.Background(), p, cat, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", peak)
	}
}

func TestConcurrentFailureStopsDispatch(t *testing.T) {
	var downstreamRan atomic.Bool

	failing := func(context.Context, node.Args) (any, error) {
		return nil, fmt.Errorf("boom")
	}
	downstream := func(_ context.Context, args node.Args) (any, error) {
		downstreamRan.Store(true)
		return args.Get(0), nil
	}

	p := mustPipeline(t,
		mustNode(t, failing, node.Positional("in"), node.Single("mid"), node.WithName("failing")),
		mustNode(t, downstream, node.Positional("mid"), node.Single("out"), node.WithName("downstream")),
	)
	cat := catalog.New(nil)
	if err := cat.AddFeedDict(map[string]any{"in": 1}, false); err != nil {
		t.Fatalf("AddFeedDict: %v", err)
	}

	_, err := MustNewConcurrent(2).Run(context.Background(), p, cat, nil)
	if err == nil {
		t.Fatal("expected run failure")
	}
	if code := errors.CodeOf(err); code != errors.ErrCodeNodeExecution {
		t.Fatalf("code = %s, want %s", code, errors.ErrCodeNodeExecution)
	}
	if downstreamRan.Load() {
		t.Error("downstream of a failed node was dispatched")
	}
}
