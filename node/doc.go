// Package node defines the atomic computation unit of a pipeline: a
// transform function plus an explicit specification of the artifacts it
// consumes and produces.
//
// Input binding is declared once at construction, either positionally
// (Positional) or by parameter name (Keyword), never derived per call.
package node
