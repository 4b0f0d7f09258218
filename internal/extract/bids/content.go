package bids

import (
	"fmt"
	"strings"

	"github.com/dmgolembiowski/datalad/internal/extract"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// ContentMetadata builds the lazy per-file sequence for the candidate
// paths. Nothing is read until the sequence is consumed, and files are
// yielded in input order. Sidecar files feed the layout queries of other
// files and are never reported themselves.
//
// A failing metadata query degrades to an empty record unless opts.Strict
// is set, in which case the failure terminates the sequence with an error
// that satisfies errors.Is for datalad.ErrMetadataQuery.
func (e *Extractor) ContentMetadata(ds *extract.Dataset, opts extract.Options) datalad.FileSeq {
	return func(yield func(datalad.FileMetadata, error) bool) {
		if !HasDescriptor(ds) {
			return
		}

		rules, err := LoadSubjectRules(ds)
		if err != nil {
			ds.Log.Warn("Failed to load participants info due to: %s. Skipping the rest of file", err)
		}

		for _, path := range opts.Paths {
			if strings.HasSuffix(path, datalad.SidecarExtension) {
				continue
			}

			record := make(datalad.FileRecord)
			raw, err := e.queryMetadata(ds, path)
			if err != nil {
				ds.Log.Verbose("no usable BIDS metadata for %s in %s: %s", path, ds.Root, err)
				if opts.Strict {
					yield(datalad.FileMetadata{}, fmt.Errorf("%w for %s: %w", datalad.ErrMetadataQuery, path, err))
					return
				}
			} else {
				for key, value := range raw {
					if _, nested := value.(map[string]any); nested {
						continue
					}
					record["bids:"+key] = value
				}
			}

			for _, rule := range rules {
				if rule.Pattern.MatchString(path) {
					for key, value := range rule.Props {
						record[key] = value
					}
				}
			}

			if !yield(datalad.FileMetadata{Path: path, Record: record}, nil) {
				return
			}
		}
	}
}

func (e *Extractor) queryMetadata(ds *extract.Dataset, path string) (map[string]any, error) {
	if ds.Layout == nil {
		return nil, fmt.Errorf("dataset layout is not configured")
	}
	return ds.Layout.Metadata(path)
}
