package bids

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmgolembiowski/datalad/internal/extract"
	"github.com/dmgolembiowski/datalad/internal/textenc"
	"github.com/dmgolembiowski/datalad/internal/vocabulary"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// key2StdKey maps descriptor fields onto the standardized dataset keys.
// Fields without a mapping are preserved under comment<OriginalKey>.
var key2StdKey = map[string]string{
	"Name":               "name",
	"License":            "license",
	"Authors":            "author",
	"ReferencesAndLinks": "citation",
	"Funding":            "fundedby",
	"Description":        "description",
}

// Extractor implements the extract.Extractor contract for BIDS datasets.
type Extractor struct{}

// New creates a BIDS extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the registry name of the extractor.
func (e *Extractor) Name() string {
	return "bids"
}

// HasDescriptor reports whether the dataset root carries the
// dataset_description.json descriptor. Without it the dataset does not
// participate in BIDS extraction at all.
func HasDescriptor(ds *extract.Dataset) bool {
	info, err := ds.FS.Stat(filepath.Join(ds.Root, datalad.DescriptorFilename))
	return err == nil && !info.IsDir()
}

// DatasetMetadata builds the dataset-level record from the descriptor.
// A dataset without a descriptor yields an empty record and no error.
func (e *Extractor) DatasetMetadata(ds *extract.Dataset) (datalad.DatasetMetadata, error) {
	if !HasDescriptor(ds) {
		return datalad.DatasetMetadata{}, nil
	}
	if ds.Layout == nil {
		return nil, fmt.Errorf("dataset layout is not configured")
	}

	raw, err := ds.Layout.Metadata(datalad.DescriptorFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to query descriptor metadata: %w", err)
	}

	meta := make(datalad.DatasetMetadata, len(raw)+2)
	for key, value := range raw {
		std, ok := key2StdKey[key]
		if !ok {
			std = fmt.Sprintf("comment<%s>", key)
		}
		meta[std] = value
	}

	if isEmptyDescription(meta["description"]) {
		readmePath := filepath.Join(ds.Root, datalad.ReadmeFilename)
		if _, err := ds.FS.Stat(readmePath); err == nil {
			raw, err := ds.FS.ReadFile(readmePath)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", datalad.ReadmeFilename, err)
			}
			text, encoding := textenc.Decode(raw)
			ds.Log.Verbose("loaded dataset description from %s (%s)", datalad.ReadmeFilename, encoding)
			meta["description"] = strings.TrimSpace(text)
		}
	}

	defURL := datalad.SpecBaseURL
	if version := versionString(meta["comment<BIDSVersion>"]); version != "" {
		defURL += fmt.Sprintf("/bids_spec%s.pdf", version)
	}
	meta["conformsto"] = defURL
	meta["@context"] = vocabulary.BIDSContext(defURL)

	return meta, nil
}

// isEmptyDescription reports whether a remapped description value should be
// replaced by the README fallback.
func isEmptyDescription(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case []any:
		return len(value) == 0
	default:
		return false
	}
}

// versionString renders the descriptor version value for URL construction.
// Descriptors in the wild carry the version as a string, but a bare number
// still produces a usable URL segment.
func versionString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	default:
		return strings.TrimSpace(fmt.Sprint(value))
	}
}
