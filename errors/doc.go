// Package errors defines the error taxonomy shared by the pipekit core.
// Every failure surfaced by pipeline construction, catalog access or a
// runner carries a machine-readable ErrorCode plus structured details.
package errors
