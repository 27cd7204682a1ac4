// Package registry provides a named-pipeline registry. Applications
// assemble their pipelines once, register them under stable names and pass
// the registry around instead of package-level globals.
package registry
