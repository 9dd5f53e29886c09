package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Lookup errors
const (
	// ErrCodeNotFound indicates that no element satisfied an operation that requires one.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAmbiguous indicates that more than one element matched where exactly one was expected.
	ErrCodeAmbiguous ErrorCode = "AMBIGUOUS_RESULT"
	// ErrCodeOutOfBounds indicates that an index lies beyond the end of the sequence.
	ErrCodeOutOfBounds ErrorCode = "OUT_OF_BOUNDS"
)

// Argument errors
const (
	// ErrCodeInvalidArgument indicates a structurally invalid parameter.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidConfig indicates invalid settings.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

var knownCodes = map[ErrorCode]bool{
	ErrCodeNotFound:        true,
	ErrCodeAmbiguous:       true,
	ErrCodeOutOfBounds:     true,
	ErrCodeInvalidArgument: true,
	ErrCodeInvalidConfig:   true,
}

// IsKnownCode returns true if the code belongs to the seqkit taxonomy.
func IsKnownCode(code ErrorCode) bool {
	return knownCodes[code]
}
