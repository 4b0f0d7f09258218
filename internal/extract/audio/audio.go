// Package audio extracts embedded tag metadata (ID3, vorbis comments, MP4
// atoms) from audio files.
package audio

import (
	"bytes"
	"fmt"

	"github.com/dhowden/tag"

	"github.com/dmgolembiowski/datalad/internal/extract"
	"github.com/dmgolembiowski/datalad/internal/vocabulary"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// vocabMap maps tag fields onto vocabulary keys. Fields without a mapping
// are preserved under comment<field>. Stream properties (length, channels,
// sample_rate) keep their mappings even though the tag reader only parses
// the tag block; a future stream parser reports them under the same keys.
var vocabMap = map[string]string{
	"album":       "music:album",
	"artist":      "music:artist",
	"channels":    "music:channels",
	"composer":    "music:Composer",
	"copyright":   "dcterms:rights",
	"genre":       "music:Genre",
	"length":      "duration(s)",
	"sample_rate": "music:sample_rate",
	"title":       "name",
}

// fileTypeMIME maps detected container types onto MIME types for the
// format key.
var fileTypeMIME = map[tag.FileType]string{
	tag.MP3:  "audio/mpeg",
	tag.FLAC: "audio/flac",
	tag.OGG:  "audio/ogg",
	tag.M4A:  "audio/mp4",
	tag.M4B:  "audio/mp4",
	tag.M4P:  "audio/mp4",
	tag.ALAC: "audio/mp4",
	tag.DSF:  "audio/dsf",
}

// Extractor implements the extract.Extractor contract for tagged audio
// files.
type Extractor struct{}

// New creates an audio extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the registry name of the extractor.
func (e *Extractor) Name() string {
	return "audio"
}

// DatasetMetadata reports the vocabulary context for audio records. Audio
// files carry no dataset-level metadata of their own.
func (e *Extractor) DatasetMetadata(ds *extract.Dataset) (datalad.DatasetMetadata, error) {
	return datalad.DatasetMetadata{
		"@context": vocabulary.MusicContext(),
	}, nil
}

// ContentMetadata builds the lazy per-file sequence for the candidate
// paths. Files the tag reader does not recognize as tagged audio are
// skipped entirely rather than reported with an empty record.
//
// A failing file read degrades to a skip unless opts.Strict is set, in
// which case the failure terminates the sequence with an error that
// satisfies errors.Is for datalad.ErrMetadataQuery.
func (e *Extractor) ContentMetadata(ds *extract.Dataset, opts extract.Options) datalad.FileSeq {
	return func(yield func(datalad.FileMetadata, error) bool) {
		for _, path := range opts.Paths {
			raw, err := ds.FS.ReadFile(ds.AbsPath(path))
			if err != nil {
				ds.Log.Verbose("cannot read %s in %s: %s", path, ds.Root, err)
				if opts.Strict {
					yield(datalad.FileMetadata{}, fmt.Errorf("%w for %s: %w", datalad.ErrMetadataQuery, path, err))
					return
				}
				continue
			}

			md, err := tag.ReadFrom(bytes.NewReader(raw))
			if err != nil {
				// Not a tagged audio file
				ds.Log.Verbose("no audio metadata in %s: %s", path, err)
				continue
			}

			if !yield(datalad.FileMetadata{Path: path, Record: recordFrom(md)}, nil) {
				return
			}
		}
	}
}

// recordFrom normalizes parsed tag metadata into a file record.
func recordFrom(md tag.Metadata) datalad.FileRecord {
	fields := map[string]any{}
	putString := func(field, value string) {
		if value != "" {
			fields[field] = value
		}
	}

	putString("title", md.Title())
	putString("album", md.Album())
	putString("artist", md.Artist())
	putString("albumartist", md.AlbumArtist())
	putString("composer", md.Composer())
	putString("genre", md.Genre())
	if year := md.Year(); year != 0 {
		fields["year"] = year
	}
	if number, total := md.Track(); number != 0 {
		fields["tracknumber"] = number
		if total != 0 {
			fields["tracktotal"] = total
		}
	}
	if number, total := md.Disc(); number != 0 {
		fields["discnumber"] = number
		if total != 0 {
			fields["disctotal"] = total
		}
	}

	record := make(datalad.FileRecord, len(fields)+1)
	for field, value := range fields {
		key, ok := vocabMap[field]
		if !ok {
			key = fmt.Sprintf("comment<%s>", field)
		}
		record[key] = value
	}

	if mime, ok := fileTypeMIME[md.FileType()]; ok {
		record["format"] = fmt.Sprintf("mime:%s", mime)
	}

	return record
}
