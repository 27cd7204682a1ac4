package errors

import (
	"fmt"
	"sort"
	"strings"
)

// FrameworkError is the unified error type for the pipekit core.
type FrameworkError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *FrameworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *FrameworkError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *FrameworkError) WithCause(cause error) *FrameworkError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *FrameworkError) WithDetail(key string, value any) *FrameworkError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new FrameworkError.
func New(code ErrorCode, message string) *FrameworkError {
	return &FrameworkError{Code: code, Message: message}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not a
// FrameworkError.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if fe, ok := err.(*FrameworkError); ok {
			return fe.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// --- Pipeline construction ---

// CircularDependency creates an error naming the nodes on the cycle.
func CircularDependency(cycle []string) *FrameworkError {
	return &FrameworkError{
		Code:    ErrCodeCircularDependency,
		Message: fmt.Sprintf("circular dependency among nodes: %s", strings.Join(cycle, ", ")),
		Details: map[string]any{"nodes": cycle},
	}
}

// DuplicateOutput creates an error for an output declared by more than one node.
func DuplicateOutput(output string, nodes []string) *FrameworkError {
	return &FrameworkError{
		Code:    ErrCodeDuplicateOutput,
		Message: fmt.Sprintf("output %q is declared by more than one node", output),
		Details: map[string]any{"output": output, "nodes": nodes},
	}
}

// BadSpec creates an error for an inconsistent input/output specification.
func BadSpec(node, reason string) *FrameworkError {
	return &FrameworkError{
		Code:    ErrCodeBadSpec,
		Message: fmt.Sprintf("invalid specification for node %q: %s", node, reason),
		Details: map[string]any{"node": node},
	}
}

// LayerConflict creates an error listing the conflicting names in sorted order.
func LayerConflict(names []string) *FrameworkError {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &FrameworkError{
		Code:    ErrCodeLayerConflict,
		Message: fmt.Sprintf("transcoded variants must share one layer, conflicting: %s", strings.Join(sorted, ", ")),
		Details: map[string]any{"names": sorted},
	}
}

// --- Catalog ---

// DatasetNotFound creates an error for a name absent from the catalog.
func DatasetNotFound(name string) *FrameworkError {
	return &FrameworkError{
		Code:    ErrCodeDatasetNotFound,
		Message: fmt.Sprintf("dataset %q not found in the catalog", name),
		Details: map[string]any{"dataset": name},
	}
}

// DatasetAlreadyExists creates an error for a name already registered.
func DatasetAlreadyExists(name string) *FrameworkError {
	return &FrameworkError{
		Code:    ErrCodeDatasetAlreadyExists,
		Message: fmt.Sprintf("dataset %q is already registered in the catalog", name),
		Details: map[string]any{"dataset": name},
	}
}

// SaveOfNone creates an error for an attempt to save a nil value.
func SaveOfNone(name string) *FrameworkError {
	return &FrameworkError{
		Code:    ErrCodeSaveOfNone,
		Message: fmt.Sprintf("saving nil to dataset %q is not allowed", name),
		Details: map[string]any{"dataset": name},
	}
}

// DatasetIO creates an error for a failed dataset load or save.
func DatasetIO(name, operation string, cause error) *FrameworkError {
	return &FrameworkError{
		Code:    ErrCodeDatasetIO,
		Message: fmt.Sprintf("dataset %q failed during %s", name, operation),
		Details: map[string]any{"dataset": name, "operation": operation},
		Cause:   cause,
	}
}

// --- Run validation and execution ---

// MissingFreeInputs creates an error listing every missing free input at once.
func MissingFreeInputs(names []string) *FrameworkError {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &FrameworkError{
		Code:    ErrCodeMissingFreeInputs,
		Message: fmt.Sprintf("free inputs not found in the catalog: %s", strings.Join(sorted, ", ")),
		Details: map[string]any{"inputs": sorted},
	}
}

// UnsatisfiedOutputs creates an error listing every unproducible output at once.
func UnsatisfiedOutputs(names []string) *FrameworkError {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return &FrameworkError{
		Code:    ErrCodeUnsatisfiedOutputs,
		Message: fmt.Sprintf("requested outputs cannot be produced: %s", strings.Join(sorted, ", ")),
		Details: map[string]any{"outputs": sorted},
	}
}

// NodeExecution wraps a transform failure with the node's identity.
func NodeExecution(node string, cause error) *FrameworkError {
	return &FrameworkError{
		Code:    ErrCodeNodeExecution,
		Message: fmt.Sprintf("node %q failed", node),
		Details: map[string]any{"node": node},
		Cause:   cause,
	}
}

// --- Configuration ---

// BadConfig creates an error for an invalid catalog configuration entry.
func BadConfig(entry, reason string) *FrameworkError {
	return &FrameworkError{
		Code:    ErrCodeBadConfig,
		Message: fmt.Sprintf("invalid configuration for %q: %s", entry, reason),
		Details: map[string]any{"entry": entry},
	}
}
