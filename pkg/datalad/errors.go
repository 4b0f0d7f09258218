package datalad

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := extractor.Extract(ctx, config)
//	if errors.Is(err, datalad.ErrUnknownExtractor) {
//	    // Handle a bad --extractor selection
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownExtractor indicates no extractor is registered under the
	// requested name.
	ErrUnknownExtractor = errors.New("unknown extractor")

	// ErrMetadataQuery indicates a per-file metadata query failed while
	// strict mode was enabled. The underlying layout error is wrapped
	// alongside this sentinel.
	ErrMetadataQuery = errors.New("metadata query failed")

	// ErrSubjectTableStop indicates the subject table contained a row
	// without a participant identifier. Rows before the bad one are kept;
	// the remainder of the file is abandoned.
	ErrSubjectTableStop = errors.New("subject table processing stopped")

	// ErrAggregateExists indicates the dataset already carries an aggregate
	// store and neither --force nor interactive approval replaced it.
	ErrAggregateExists = errors.New("aggregate store already exists")

	// ErrApprovalDenied indicates the user denied approval for the operation.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrTargetNotEmpty indicates the init target directory already
	// contains files.
	ErrTargetNotEmpty = errors.New("target directory not empty")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnknownExtractor):
		return ExitConfigError
	case errors.Is(err, ErrMetadataQuery):
		return ExitExtractionFailed
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrAggregateExists):
		return ExitAggregateExists
	case errors.Is(err, ErrTargetNotEmpty):
		return ExitTargetNotEmpty
	}

	errStr := err.Error()

	// Cobra reports flag and argument problems as plain errors; classify
	// the common message shapes as usage errors
	if strings.Contains(errStr, "unknown flag") ||
		strings.Contains(errStr, "unknown shorthand flag") ||
		strings.Contains(errStr, "unknown command") ||
		strings.Contains(errStr, "arg(s), received") ||
		strings.Contains(errStr, "required flag") ||
		strings.Contains(errStr, "invalid argument") ||
		strings.Contains(errStr, "target path required") {
		return ExitUsageError
	}

	// Permission and I/O problems on the dataset tree surface as
	// extraction failures rather than unclassified errors
	if strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "input/output error") {
		return ExitExtractionFailed
	}

	return ExitGeneralError
}
