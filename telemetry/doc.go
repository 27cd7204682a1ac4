// Package telemetry provides OpenTelemetry tracing and metrics for pipeline
// runs: OTLP provider bootstrap plus the instruments recorded by the
// telemetry hook observer.
package telemetry
