package datalad

import "context"

// Extractor is the main interface for running metadata extraction.
// Implementations resolve the dataset root, check descriptor presence,
// and produce the dataset record plus the lazy per-file sequence.
type Extractor interface {
	// Extract runs an extraction using the provided configuration.
	// A dataset root without a descriptor file is not an error: the result
	// carries empty dataset metadata and an empty file sequence.
	Extract(ctx context.Context, config ExtractionConfig) (*ExtractionResult, error)
}

// Aggregator persists extraction results into the dataset's aggregate
// store.
type Aggregator interface {
	// Aggregate extracts metadata and writes the aggregate store under the
	// dataset root. It returns a summary of the written artifacts.
	Aggregate(ctx context.Context, config AggregateConfig) (*AggregateSummary, error)
}
