package hooks

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/pipekit/telemetry"
)

// DatasetReleaseObserver is optionally implemented by hook observers that
// want to see dataset releases; release is a runner-internal event outside
// the standard extension points.
type DatasetReleaseObserver interface {
	OnDatasetRelease(ctx context.Context, name string)
}

// Telemetry records OpenTelemetry spans and metrics for pipeline runs.
type Telemetry struct {
	Base
	metrics *telemetry.PipelineMetrics

	mu        sync.Mutex
	runSpans  map[string]trace.Span
	nodeSpans map[string]nodeSpan
}

type nodeSpan struct {
	span  trace.Span
	start time.Time
}

// NewTelemetry builds a telemetry observer. Metrics may be nil, in which
// case only spans are recorded.
func NewTelemetry(metrics *telemetry.PipelineMetrics) *Telemetry {
	return &Telemetry{
		metrics:   metrics,
		runSpans:  make(map[string]trace.Span),
		nodeSpans: make(map[string]nodeSpan),
	}
}

func (t *Telemetry) BeforePipelineRun(ctx context.Context, run RunInfo) {
	_, span := telemetry.StartSpan(ctx, telemetry.SpanPipelineRun)
	span.SetAttributes(
		attribute.String(telemetry.AttrRunID, run.RunID),
		attribute.Int("pipeline.node_count", run.NodeCount),
		attribute.Int("pipeline.workers", run.Workers),
	)
	t.mu.Lock()
	t.runSpans[run.RunID] = span
	t.mu.Unlock()
}

func (t *Telemetry) AfterPipelineRun(ctx context.Context, run RunInfo, _ map[string]any) {
	t.endRun(ctx, run.RunID, nil)
}

func (t *Telemetry) BeforeNodeRun(ctx context.Context, node NodeInfo) {
	_, span := telemetry.StartSpan(ctx, telemetry.SpanNodeRun)
	span.SetAttributes(
		attribute.String(telemetry.AttrRunID, node.RunID),
		attribute.String(telemetry.AttrNode, node.Node),
		attribute.StringSlice(telemetry.AttrNodeTags, node.Tags),
	)
	t.mu.Lock()
	t.nodeSpans[node.RunID+"/"+node.Node] = nodeSpan{span: span, start: time.Now()}
	t.mu.Unlock()
}

func (t *Telemetry) AfterNodeRun(ctx context.Context, node NodeInfo, _ map[string]any) {
	t.endNode(ctx, node, nil)
}

func (t *Telemetry) OnNodeError(ctx context.Context, node NodeInfo, err error) {
	t.endNode(ctx, node, err)
	t.endRun(ctx, node.RunID, err)
}

func (t *Telemetry) AfterDatasetLoad(ctx context.Context, name string, _ any) {
	if t.metrics != nil {
		t.metrics.RecordDatasetLoad(ctx, name)
	}
}

func (t *Telemetry) AfterDatasetSave(ctx context.Context, name string, _ any) {
	if t.metrics != nil {
		t.metrics.RecordDatasetSave(ctx, name)
	}
}

// OnDatasetRelease implements DatasetReleaseObserver.
func (t *Telemetry) OnDatasetRelease(ctx context.Context, name string) {
	if t.metrics != nil {
		t.metrics.RecordDatasetRelease(ctx, name)
	}
}

func (t *Telemetry) endRun(ctx context.Context, runID string, err error) {
	t.mu.Lock()
	span, ok := t.runSpans[runID]
	delete(t.runSpans, runID)
	t.mu.Unlock()
	if !ok {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	if t.metrics != nil {
		t.metrics.RecordRun(ctx, err != nil)
	}
}

func (t *Telemetry) endNode(ctx context.Context, node NodeInfo, err error) {
	t.mu.Lock()
	ns, ok := t.nodeSpans[node.RunID+"/"+node.Node]
	delete(t.nodeSpans, node.RunID+"/"+node.Node)
	t.mu.Unlock()
	if !ok {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		ns.span.RecordError(err)
		ns.span.SetStatus(codes.Error, err.Error())
	}
	ns.span.End()
	if t.metrics != nil {
		t.metrics.RecordNode(ctx, node.Node, status, time.Since(ns.start))
	}
}
