package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/pipekit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName identifies the application running pipelines.
	ServiceName string
	// ServiceVersion is the version of the application.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("telemetry").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PipelineMetrics holds the metric instruments recorded during runs.
type PipelineMetrics struct {
	nodesRun         metric.Int64Counter
	nodeDuration     metric.Float64Histogram
	runsTotal        metric.Int64Counter
	runsFailed       metric.Int64Counter
	datasetsLoaded   metric.Int64Counter
	datasetsSaved    metric.Int64Counter
	datasetsReleased metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline metric instruments on a meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	nodesRun, err := meter.Int64Counter("pipeline.nodes_run",
		metric.WithDescription("Total nodes executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.nodes_run counter: %w", err)
	}

	nodeDuration, err := meter.Float64Histogram("pipeline.node_duration",
		metric.WithDescription("Node execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.node_duration histogram: %w", err)
	}

	runsTotal, err := meter.Int64Counter("pipeline.runs_total",
		metric.WithDescription("Total pipeline runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.runs_total counter: %w", err)
	}

	runsFailed, err := meter.Int64Counter("pipeline.runs_failed",
		metric.WithDescription("Pipeline runs aborted by a node failure"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.runs_failed counter: %w", err)
	}

	datasetsLoaded, err := meter.Int64Counter("pipeline.datasets_loaded",
		metric.WithDescription("Dataset load operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.datasets_loaded counter: %w", err)
	}

	datasetsSaved, err := meter.Int64Counter("pipeline.datasets_saved",
		metric.WithDescription("Dataset save operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.datasets_saved counter: %w", err)
	}

	datasetsReleased, err := meter.Int64Counter("pipeline.datasets_released",
		metric.WithDescription("Dataset release operations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline.datasets_released counter: %w", err)
	}

	return &PipelineMetrics{
		nodesRun:         nodesRun,
		nodeDuration:     nodeDuration,
		runsTotal:        runsTotal,
		runsFailed:       runsFailed,
		datasetsLoaded:   datasetsLoaded,
		datasetsSaved:    datasetsSaved,
		datasetsReleased: datasetsReleased,
	}, nil
}

// RecordRun records a completed pipeline run.
func (m *PipelineMetrics) RecordRun(ctx context.Context, failed bool) {
	m.runsTotal.Add(ctx, 1)
	if failed {
		m.runsFailed.Add(ctx, 1)
	}
}

// RecordNode records one node execution.
func (m *PipelineMetrics) RecordNode(ctx context.Context, nodeName, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("node", nodeName),
		attribute.String("status", status),
	)
	m.nodesRun.Add(ctx, 1, attrs)
	m.nodeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("node", nodeName),
	))
}

// RecordDatasetLoad records a dataset load.
func (m *PipelineMetrics) RecordDatasetLoad(ctx context.Context, name string) {
	m.datasetsLoaded.Add(ctx, 1, metric.WithAttributes(attribute.String("dataset", name)))
}

// RecordDatasetSave records a dataset save.
func (m *PipelineMetrics) RecordDatasetSave(ctx context.Context, name string) {
	m.datasetsSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("dataset", name)))
}

// RecordDatasetRelease records a dataset release.
func (m *PipelineMetrics) RecordDatasetRelease(ctx context.Context, name string) {
	m.datasetsReleased.Add(ctx, 1, metric.WithAttributes(attribute.String("dataset", name)))
}
