// Package runner executes a validated pipeline against a data catalog.
//
// Two interchangeable strategies share one scheduling core: Sequential runs
// exactly one ready node at a time in deterministic order, Concurrent
// dispatches every ready node to a bounded worker pool. For side-effect-free
// transforms both produce identical output mappings.
//
// A run holds per-artifact remaining-load-counts and releases every
// intermediate artifact as soon as its last consumer has loaded it.
package runner
