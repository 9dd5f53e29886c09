// Package errors provides the error taxonomy shared by seqkit packages.
// Every failure raised by a terminal sequence operation is an *AppError
// carrying a machine-readable ErrorCode, so callers can branch on the kind
// of failure with errors.Is against the exported sentinels.
package errors
