// Package extract defines the per-convention extractor contract and the
// registry the extraction service selects extractors from.
package extract

import (
	"path/filepath"

	"github.com/dmgolembiowski/datalad/internal/files/filesystem"
	"github.com/dmgolembiowski/datalad/internal/logging"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// Dataset binds one extraction call to its dataset root. The handle is a
// read-only view: extractors construct all records fresh per call and keep
// no state on the dataset between calls.
type Dataset struct {
	// Root is the dataset root directory
	Root string

	// FS provides all file access for the extraction
	FS filesystem.FileSystemProvider

	// Layout answers convention-aware metadata queries. May be nil for
	// extractors that read file content directly.
	Layout datalad.Layout

	// Log receives warnings and diagnostics. Never nil.
	Log datalad.Logger
}

// NewDataset creates a dataset handle.
// Panics if root is empty or fs is nil. A nil log defaults to the null
// logger.
func NewDataset(root string, fs filesystem.FileSystemProvider, layout datalad.Layout, log datalad.Logger) *Dataset {
	if root == "" {
		panic("root cannot be empty")
	}
	if fs == nil {
		panic("fs cannot be nil")
	}
	if log == nil {
		log = logging.NewNullLogger()
	}
	return &Dataset{
		Root:   root,
		FS:     fs,
		Layout: layout,
		Log:    log,
	}
}

// AbsPath resolves a dataset-relative path against the root.
func (d *Dataset) AbsPath(rel string) string {
	return filepath.Join(d.Root, filepath.FromSlash(rel))
}

// Options carry the per-call extraction parameters. Strict mode is threaded
// explicitly from the caller down to every metadata query; extractors never
// consult ambient configuration.
type Options struct {
	// Paths are the dataset-relative candidate files to report on
	Paths []string

	// Strict promotes per-file metadata query failures to fatal errors
	Strict bool
}

// Extractor produces metadata for one directory/file-naming convention.
type Extractor interface {
	// Name returns the registry name of the extractor.
	Name() string

	// DatasetMetadata builds the dataset-level record. Absence of the
	// convention's marker file is not an error and yields an empty record.
	DatasetMetadata(ds *Dataset) (datalad.DatasetMetadata, error)

	// ContentMetadata builds the lazy per-file sequence for the candidate
	// paths in opts. The sequence is finite, single-pass, and ordered by
	// input path order.
	ContentMetadata(ds *Dataset, opts Options) datalad.FileSeq
}
