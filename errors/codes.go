package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline construction errors
const (
	// ErrCodeCircularDependency indicates the node graph contains a cycle.
	ErrCodeCircularDependency ErrorCode = "CIRCULAR_DEPENDENCY"
	// ErrCodeDuplicateOutput indicates two nodes declare the same output.
	ErrCodeDuplicateOutput ErrorCode = "DUPLICATE_OUTPUT"
	// ErrCodeBadSpec indicates an inconsistent node input/output specification.
	ErrCodeBadSpec ErrorCode = "BAD_INPUT_OUTPUT_SPEC"
	// ErrCodeLayerConflict indicates transcoded variants of one logical
	// artifact are registered on different catalog layers.
	ErrCodeLayerConflict ErrorCode = "LAYER_CONFLICT"
)

// Catalog errors
const (
	// ErrCodeDatasetNotFound indicates the named dataset is not registered.
	ErrCodeDatasetNotFound ErrorCode = "DATASET_NOT_FOUND"
	// ErrCodeDatasetAlreadyExists indicates the name is already registered.
	ErrCodeDatasetAlreadyExists ErrorCode = "DATASET_ALREADY_EXISTS"
	// ErrCodeSaveOfNone indicates an attempt to save a nil value.
	ErrCodeSaveOfNone ErrorCode = "SAVE_OF_NONE"
	// ErrCodeDatasetIO indicates a dataset load or save failed.
	ErrCodeDatasetIO ErrorCode = "DATASET_IO"
)

// Run validation and execution errors
const (
	// ErrCodeMissingFreeInputs indicates free inputs absent from the catalog.
	ErrCodeMissingFreeInputs ErrorCode = "MISSING_FREE_INPUTS"
	// ErrCodeUnsatisfiedOutputs indicates requested outputs no node produces.
	ErrCodeUnsatisfiedOutputs ErrorCode = "UNSATISFIED_OUTPUTS"
	// ErrCodeNodeExecution indicates a node transform failed.
	ErrCodeNodeExecution ErrorCode = "NODE_EXECUTION"
)

// Configuration errors
const (
	// ErrCodeBadConfig indicates an invalid catalog configuration entry.
	ErrCodeBadConfig ErrorCode = "BAD_CONFIG"
)
