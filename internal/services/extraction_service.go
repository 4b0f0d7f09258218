// Package services orchestrates extraction and aggregation runs on top of
// the extractor registry, the candidate scanner, and the aggregate builder.
package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmgolembiowski/datalad/internal/aggregate"
	"github.com/dmgolembiowski/datalad/internal/extract"
	"github.com/dmgolembiowski/datalad/internal/files/filesystem"
	"github.com/dmgolembiowski/datalad/internal/files/scanner"
	"github.com/dmgolembiowski/datalad/internal/layout"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// CandidateScanner discovers candidate files for content extraction.
type CandidateScanner interface {
	ScanDataset(sourcePath string, opts scanner.Options) ([]string, error)
}

// ExtractionService implements the datalad.Extractor and datalad.Aggregator
// interfaces.
//
// Thread-Safety: safe for concurrent Extract() calls. Concurrent
// Aggregate() calls against the same output directory race on the
// artifacts; serialize those per dataset.
type ExtractionService struct {
	registry   *extract.Registry
	fsProvider filesystem.FileSystemProvider
	scanner    CandidateScanner
	approver   datalad.Approver
	builder    *aggregate.Builder
	logger     datalad.Logger

	// layoutFor builds the convention-aware layout for a dataset root.
	// Overridable in tests.
	layoutFor func(root string, fs filesystem.FileSystemProvider) datalad.Layout
}

// NewExtractionService creates a new ExtractionService with all
// dependencies injected.
//
// Panics on nil dependencies: those are programmer errors that should fail
// loudly at application startup, not during a run. Runtime conditions
// (missing descriptor, unreadable files, denied approval) are returned as
// errors instead.
func NewExtractionService(
	registry *extract.Registry,
	fsProvider filesystem.FileSystemProvider,
	candidates CandidateScanner,
	approver datalad.Approver,
	builder *aggregate.Builder,
	logger datalad.Logger,
) *ExtractionService {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if candidates == nil {
		panic("candidates cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if builder == nil {
		panic("builder cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &ExtractionService{
		registry:   registry,
		fsProvider: fsProvider,
		scanner:    candidates,
		approver:   approver,
		builder:    builder,
		logger:     logger,
		layoutFor: func(root string, fs filesystem.FileSystemProvider) datalad.Layout {
			return layout.NewDescriptorLayout(root, fs)
		},
	}
}

// Extract runs one extraction and returns the dataset record plus the lazy
// per-file sequence. The sequence stops early when ctx is canceled.
func (s *ExtractionService) Extract(ctx context.Context, config datalad.ExtractionConfig) (*datalad.ExtractionResult, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s.logger.Verbose("Extracting '%s' metadata from %s", config.Extractor, config.SourcePath)

	extractor, err := s.registry.Get(config.Extractor)
	if err != nil {
		return nil, err
	}

	ds := extract.NewDataset(config.SourcePath, s.fsProvider, s.layoutFor(config.SourcePath, s.fsProvider), s.logger)

	dataset, err := extractor.DatasetMetadata(ds)
	if err != nil {
		return nil, fmt.Errorf("dataset metadata extraction failed: %w", err)
	}

	files := datalad.EmptyFileSeq()
	if config.Content {
		paths, err := s.candidatePaths(config)
		if err != nil {
			return nil, err
		}
		seq := extractor.ContentMetadata(ds, extract.Options{
			Paths:  paths,
			Strict: config.Strict,
		})
		files = boundToContext(ctx, seq)
	}

	return &datalad.ExtractionResult{
		Dataset: dataset,
		Files:   files,
	}, nil
}

// Aggregate extracts and persists metadata into the dataset's aggregate
// store.
func (s *ExtractionService) Aggregate(ctx context.Context, config datalad.AggregateConfig) (*datalad.AggregateSummary, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = datalad.AggregateDirName
	}
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(config.SourcePath, outputDir)
	}

	if err := s.approveReplacement(ctx, outputDir); err != nil {
		return nil, err
	}

	result, err := s.Extract(ctx, datalad.ExtractionConfig{
		SourcePath:      config.SourcePath,
		Extractor:       config.Extractor,
		Content:         true,
		Strict:          config.Strict,
		SkipDerivatives: config.SkipDerivatives,
		Verbose:         config.Verbose,
	})
	if err != nil {
		return nil, err
	}

	summary, err := s.builder.Build(outputDir, config.Extractor, result.Dataset, result.Files)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✓ Aggregate store written to %s (%d file records)", summary.OutputDir, summary.FileCount)
	return summary, nil
}

// approveReplacement guards an existing aggregate store against silent
// replacement. Which approver answers (interactive prompt or forced
// countdown) is the caller's choice at construction time.
func (s *ExtractionService) approveReplacement(ctx context.Context, outputDir string) error {
	if !aggregate.Exists(outputDir) {
		return nil
	}

	s.logger.Verbose("Aggregate store at '%s' exists. Requesting approval for replacement.", outputDir)
	approved, err := s.approver.RequestApproval(ctx, outputDir)
	if err != nil {
		return fmt.Errorf("approval request failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("%w: %s (re-run with --force to replace it)", datalad.ErrAggregateExists, outputDir)
	}

	if err := aggregate.Remove(outputDir); err != nil {
		return err
	}
	s.logger.Verbose("Replaced existing aggregate store at %s", outputDir)
	return nil
}

// candidatePaths resolves the content candidates: explicit paths win,
// otherwise the dataset tree is scanned.
func (s *ExtractionService) candidatePaths(config datalad.ExtractionConfig) ([]string, error) {
	if config.Paths != nil {
		return config.Paths, nil
	}
	paths, err := s.scanner.ScanDataset(config.SourcePath, scanner.Options{
		SkipDerivatives: config.SkipDerivatives,
	})
	if err != nil {
		return nil, fmt.Errorf("candidate discovery failed: %w", err)
	}
	s.logger.Verbose("Discovered %d candidate files", len(paths))
	return paths, nil
}

// boundToContext stops a file sequence early once ctx is canceled.
func boundToContext(ctx context.Context, seq datalad.FileSeq) datalad.FileSeq {
	return func(yield func(datalad.FileMetadata, error) bool) {
		for fm, err := range seq {
			if ctx.Err() != nil {
				return
			}
			if !yield(fm, err) {
				return
			}
		}
	}
}

// Verify the service implements the public contracts at compile time
var (
	_ datalad.Extractor  = (*ExtractionService)(nil)
	_ datalad.Aggregator = (*ExtractionService)(nil)
)
