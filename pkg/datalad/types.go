package datalad

import (
	"errors"
	"fmt"
	"iter"
)

// DatasetMetadata is the dataset-level metadata record. Keys are the
// standardized names produced by an extractor (name, license, author,
// citation, fundedby, description, conformsto), comment<OriginalKey>
// fallbacks for unmapped source fields, and the @context vocabulary block.
type DatasetMetadata map[string]any

// FileRecord is the metadata record for a single file. Keys carry the
// extractor's vocabulary prefix (for example "bids:participant_id"). Values
// are scalars or flat lists, never nested mappings.
type FileRecord map[string]any

// FileMetadata pairs a dataset-relative file path with its metadata record.
// Paths use Unix forward slashes regardless of host platform.
type FileMetadata struct {
	Path   string
	Record FileRecord
}

// FileSeq is a lazy single-pass sequence of per-file metadata. Records are
// produced on demand in candidate-path order; no path is visited twice and
// the sequence is always finite. A non-nil error element carries a
// strict-mode extraction failure and terminates the sequence. In lenient
// mode the error position is always nil.
type FileSeq = iter.Seq2[FileMetadata, error]

// EmptyFileSeq returns a file metadata sequence that yields nothing.
func EmptyFileSeq() FileSeq {
	return func(func(FileMetadata, error) bool) {}
}

// ExtractionResult holds the outputs of one extraction run.
type ExtractionResult struct {
	// Dataset holds the dataset-level metadata record. Empty (but non-nil)
	// when the dataset root carries no descriptor file.
	Dataset DatasetMetadata

	// Files is the lazy per-file metadata sequence. Empty when content
	// extraction was not requested or the descriptor file is absent.
	Files FileSeq
}

// ExtractionConfig contains all parameters needed for an extraction run.
type ExtractionConfig struct {
	// SourcePath is the dataset root directory
	SourcePath string

	// Extractor selects a registered extractor by name.
	// Defaults to DefaultExtractor when empty.
	Extractor string

	// Content enables per-file metadata extraction in addition to the
	// dataset-level record
	Content bool

	// Paths restricts content extraction to the given dataset-relative
	// paths. When nil, the dataset tree is scanned for candidates.
	Paths []string

	// Strict promotes per-file metadata query failures to fatal errors.
	// The default (lenient) mode degrades failed files to empty records.
	Strict bool

	// SkipDerivatives excludes the derivatives/ subtree when scanning for
	// candidates. Ignored when Paths is set.
	SkipDerivatives bool

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the ExtractionConfig has all required fields and valid
// values. It returns a multi-error if multiple validation failures occur.
func (c *ExtractionConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	// Extractor defaults to the standard layout extractor if empty
	if c.Extractor == "" {
		c.Extractor = DefaultExtractor
	}

	return errors.Join(errs...)
}

// AggregateConfig contains all parameters needed to aggregate extracted
// metadata into the dataset's aggregate store.
type AggregateConfig struct {
	// SourcePath is the dataset root directory
	SourcePath string

	// Extractor selects a registered extractor by name.
	// Defaults to DefaultExtractor when empty.
	Extractor string

	// Strict promotes per-file metadata query failures to fatal errors
	Strict bool

	// SkipDerivatives excludes the derivatives/ subtree when scanning for
	// candidates
	SkipDerivatives bool

	// OutputDir overrides the aggregate store location, resolved relative
	// to SourcePath. Defaults to the standard store directory.
	OutputDir string

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the AggregateConfig has all required fields and valid
// values. It returns a multi-error if multiple validation failures occur.
func (c *AggregateConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	if c.Extractor == "" {
		c.Extractor = DefaultExtractor
	}

	return errors.Join(errs...)
}

// AggregateSummary reports what an aggregation run produced.
type AggregateSummary struct {
	// OutputDir is the directory the aggregate store was written to
	OutputDir string

	// DatasetID is the stable identifier recorded in the manifest
	DatasetID string

	// FileCount is the number of per-file records persisted
	FileCount int

	// Artifacts lists the written file names relative to OutputDir
	Artifacts []string
}

// InitConfig contains all parameters needed to scaffold a new dataset.
type InitConfig struct {
	// TargetPath is the directory to scaffold the dataset into.
	// It must be empty or nonexistent.
	TargetPath string

	// Name is the dataset name written to the descriptor file
	Name string

	// License is the license identifier written to the descriptor file
	License string

	// Authors are recorded in the descriptor's Authors list
	Authors []string

	// Template selects the scaffold template. Defaults to DefaultTemplate
	// when empty.
	Template string

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the InitConfig has all required fields and valid
// values. It returns a multi-error if multiple validation failures occur.
func (c *InitConfig) Validate() error {
	var errs []error

	if c.TargetPath == "" {
		errs = append(errs, fmt.Errorf("TargetPath is required: %w", ErrInvalidConfig))
	}

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("Name is required: %w", ErrInvalidConfig))
	}

	if c.Template == "" {
		c.Template = DefaultTemplate
	}

	return errors.Join(errs...)
}
