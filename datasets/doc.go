// Package datasets provides file-backed Dataset implementations for common
// formats, plus a caching wrapper. The core engine only depends on the
// catalog.Dataset contract; everything here is optional glue for
// applications that persist artifacts between nodes.
package datasets
