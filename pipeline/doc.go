// Package pipeline assembles nodes into an immutable, validated DAG.
//
// Construction fails fast on cycles and duplicate outputs. Dependencies are
// derived from artifact names: node A feeds node B when an output of A
// matches an input of B by logical name, ignoring any @format transcoding
// suffix. The validated pipeline exposes topological node ordering, grouped
// execution batches, free inputs and outputs, and tag/name filtering that
// always yields an internally valid sub-pipeline.
package pipeline
