// Package layout provides the built-in datalad.Layout implementation.
//
// The convention-aware part of extraction (entity parsing, sidecar
// inheritance, modality handling) is deliberately out of scope and belongs
// to external Layout implementations. The built-in layout understands
// exactly one thing: the dataset descriptor file. Every other path answers
// with empty metadata.
package layout

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/ohler55/ojg/oj"

	"github.com/dmgolembiowski/datalad/internal/files/filesystem"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// DescriptorLayout answers metadata queries for the dataset descriptor by
// parsing its JSON content. Data file queries return empty metadata.
type DescriptorLayout struct {
	root string
	fs   filesystem.FileSystemProvider
}

// NewDescriptorLayout creates a layout bound to the given dataset root.
// Panics if fs is nil.
func NewDescriptorLayout(root string, fs filesystem.FileSystemProvider) *DescriptorLayout {
	if fs == nil {
		panic("fs cannot be nil")
	}
	return &DescriptorLayout{root: root, fs: fs}
}

// Metadata implements datalad.Layout.
func (l *DescriptorLayout) Metadata(relpath string) (map[string]any, error) {
	clean := path.Clean(filepath.ToSlash(relpath))
	if clean != datalad.DescriptorFilename {
		return map[string]any{}, nil
	}

	raw, err := l.fs.ReadFile(filepath.Join(l.root, datalad.DescriptorFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset descriptor: %w", err)
	}

	parsed, err := oj.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset descriptor: %w", err)
	}

	fields, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("dataset descriptor is not a JSON object: %s", datalad.DescriptorFilename)
	}
	return fields, nil
}

// Verify DescriptorLayout implements the Layout interface at compile time
var _ datalad.Layout = (*DescriptorLayout)(nil)
