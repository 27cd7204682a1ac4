package hooks

import (
	"context"

	"github.com/kbukum/pipekit/logger"
)

// RunInfo identifies one pipeline run.
type RunInfo struct {
	// RunID is the unique identifier of the run.
	RunID string
	// Pipeline is a printable description of the pipeline.
	Pipeline string
	// NodeCount is the number of nodes the run will execute.
	NodeCount int
	// Workers is the worker pool size, 1 for sequential runs.
	Workers int
}

// NodeInfo identifies one node execution within a run.
type NodeInfo struct {
	// RunID is the unique identifier of the run.
	RunID string
	// Node is the node's name.
	Node string
	// Tags are the node's tags.
	Tags []string
}

// Hooks receives notifications at the runner's extension points. All
// methods are invoked synchronously but must not assume they can alter the
// run's control flow.
type Hooks interface {
	BeforePipelineRun(ctx context.Context, run RunInfo)
	AfterPipelineRun(ctx context.Context, run RunInfo, outputs map[string]any)
	BeforeNodeRun(ctx context.Context, node NodeInfo)
	AfterNodeRun(ctx context.Context, node NodeInfo, outputs map[string]any)
	OnNodeError(ctx context.Context, node NodeInfo, err error)
	BeforeDatasetLoad(ctx context.Context, name string)
	AfterDatasetLoad(ctx context.Context, name string, value any)
	BeforeDatasetSave(ctx context.Context, name string, value any)
	AfterDatasetSave(ctx context.Context, name string, value any)
}

// Base is a no-op Hooks implementation meant for embedding.
type Base struct{}

func (Base) BeforePipelineRun(context.Context, RunInfo)                 {}
func (Base) AfterPipelineRun(context.Context, RunInfo, map[string]any)  {}
func (Base) BeforeNodeRun(context.Context, NodeInfo)                    {}
func (Base) AfterNodeRun(context.Context, NodeInfo, map[string]any)     {}
func (Base) OnNodeError(context.Context, NodeInfo, error)               {}
func (Base) BeforeDatasetLoad(context.Context, string)                  {}
func (Base) AfterDatasetLoad(context.Context, string, any)              {}
func (Base) BeforeDatasetSave(context.Context, string, any)             {}
func (Base) AfterDatasetSave(context.Context, string, any)              {}

// Noop returns a Hooks implementation that ignores every event.
func Noop() Hooks { return Base{} }

// Composite fans every event out to the given observers in order. A
// panicking observer is logged and skipped; the remaining observers still
// receive the event.
type Composite struct {
	observers []Hooks
	log       *logger.Logger
}

// NewComposite builds a composite dispatcher over the given observers.
func NewComposite(observers ...Hooks) *Composite {
	return &Composite{observers: observers, log: logger.Get("hooks")}
}

func (c *Composite) dispatch(event string, fn func(Hooks)) {
	for _, h := range c.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Warn("hook observer panicked", logger.Fields(
						logger.FieldOperation, event,
						logger.FieldError, r,
					))
				}
			}()
			fn(h)
		}()
	}
}

func (c *Composite) BeforePipelineRun(ctx context.Context, run RunInfo) {
	c.dispatch("before_pipeline_run", func(h Hooks) { h.BeforePipelineRun(ctx, run) })
}

func (c *Composite) AfterPipelineRun(ctx context.Context, run RunInfo, outputs map[string]any) {
	c.dispatch("after_pipeline_run", func(h Hooks) { h.AfterPipelineRun(ctx, run, outputs) })
}

func (c *Composite) BeforeNodeRun(ctx context.Context, node NodeInfo) {
	c.dispatch("before_node_run", func(h Hooks) { h.BeforeNodeRun(ctx, node) })
}

func (c *Composite) AfterNodeRun(ctx context.Context, node NodeInfo, outputs map[string]any) {
	c.dispatch("after_node_run", func(h Hooks) { h.AfterNodeRun(ctx, node, outputs) })
}

func (c *Composite) OnNodeError(ctx context.Context, node NodeInfo, err error) {
	c.dispatch("on_node_error", func(h Hooks) { h.OnNodeError(ctx, node, err) })
}

func (c *Composite) BeforeDatasetLoad(ctx context.Context, name string) {
	c.dispatch("before_dataset_load", func(h Hooks) { h.BeforeDatasetLoad(ctx, name) })
}

func (c *Composite) AfterDatasetLoad(ctx context.Context, name string, value any) {
	c.dispatch("after_dataset_load", func(h Hooks) { h.AfterDatasetLoad(ctx, name, value) })
}

func (c *Composite) BeforeDatasetSave(ctx context.Context, name string, value any) {
	c.dispatch("before_dataset_save", func(h Hooks) { h.BeforeDatasetSave(ctx, name, value) })
}

func (c *Composite) AfterDatasetSave(ctx context.Context, name string, value any) {
	c.dispatch("after_dataset_save", func(h Hooks) { h.AfterDatasetSave(ctx, name, value) })
}

// OnDatasetRelease forwards the release event to every observer that
// implements DatasetReleaseObserver.
func (c *Composite) OnDatasetRelease(ctx context.Context, name string) {
	c.dispatch("on_dataset_release", func(h Hooks) {
		if o, ok := h.(DatasetReleaseObserver); ok {
			o.OnDatasetRelease(ctx, name)
		}
	})
}
