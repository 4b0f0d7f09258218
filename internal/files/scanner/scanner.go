package scanner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmgolembiowski/datalad/internal/files/filesystem"
)

// Scanner discovers candidate files for content metadata extraction.
// Scanner is safe for concurrent use by multiple goroutines as long as the
// provided fsProvider is also thread-safe.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
}

// Options control which parts of the dataset tree are scanned.
type Options struct {
	// SkipDerivatives excludes the derivatives/ subtree, which holds
	// processed results rather than raw acquisitions
	SkipDerivatives bool
}

// NewScanner creates a new candidate scanner.
// Uses OS filesystem by default.
func NewScanner() *Scanner {
	return &Scanner{
		fsProvider: filesystem.NewOSFileSystem(),
	}
}

// NewScannerWithFS creates a new candidate scanner with a custom filesystem
// provider. This is primarily useful for testing with in-memory filesystems.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		fsProvider: fsProvider,
	}
}

// ScanDataset recursively scans a dataset tree and returns the
// dataset-relative candidate paths in sorted order. Paths use Unix forward
// slashes regardless of host platform.
//
// Hidden entries (any path segment starting with a dot) never qualify, so
// version control and the aggregate store under .datalad stay invisible to
// extraction.
func (s *Scanner) ScanDataset(sourcePath string, opts Options) ([]string, error) {
	dir, err := s.fsProvider.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}

	var paths []string

	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}

		if file.Info().IsDir() {
			return nil
		}

		relPath := filepath.ToSlash(file.RelativePath())
		if relPath == "." || relPath == "" {
			return nil
		}
		if hasHiddenSegment(relPath) {
			return nil
		}
		if opts.SkipDerivatives && isUnder(relPath, "derivatives") {
			return nil
		}

		paths = append(paths, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// hasHiddenSegment reports whether any path segment starts with a dot.
func hasHiddenSegment(relPath string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}

// isUnder reports whether relPath is the directory itself or inside it.
func isUnder(relPath, dir string) bool {
	return relPath == dir || strings.HasPrefix(relPath, dir+"/")
}
