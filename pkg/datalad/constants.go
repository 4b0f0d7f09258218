package datalad

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Extraction/aggregation completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or parameters
	ExitExtractionFailed = 11 // Metadata extraction failed in strict mode
	ExitApprovalDenied   = 12 // User denied overwrite approval
	ExitAggregateExists  = 13 // Aggregate store present, no overwrite approval
	ExitTargetNotEmpty   = 14 // Init target directory not empty
)

const (
	// DescriptorFilename is the required dataset descriptor. Its presence
	// directly under a directory marks that directory as a dataset root.
	DescriptorFilename = "dataset_description.json"

	// ReadmeFilename is the plain-text fallback source for the dataset
	// description.
	ReadmeFilename = "README"

	// ParticipantsFilename is the optional subject table mapping
	// participant identifiers to auxiliary attributes.
	ParticipantsFilename = "participants.tsv"

	// SpecBaseURL is the base reference URL recorded under "conformsto".
	SpecBaseURL = "http://bids.neuroimaging.io"

	// SidecarExtension marks per-file metadata companions. Files with this
	// extension are never reported independently.
	SidecarExtension = ".json"

	// DefaultExtractor is the extractor used when none is selected.
	DefaultExtractor = "bids"

	// DefaultTemplate is the scaffold template used when none is selected.
	DefaultTemplate = "basic"

	// AggregateDirName is the dataset-relative directory holding the
	// aggregate metadata store.
	AggregateDirName = ".datalad/metadata"

	// DefaultForceApprovalCountdown is the countdown duration before a
	// forced overwrite proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second
)
