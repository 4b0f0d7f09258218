package audio

import (
	"fmt"
	"sync"
	"testing"

	"github.com/dhowden/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmgolembiowski/datalad/internal/extract"
	"github.com/dmgolembiowski/datalad/internal/files/filesystem"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// Verify Extractor satisfies the extractor contract at compile time
var _ extract.Extractor = (*Extractor)(nil)

const testRoot = "/data/music"

// fakeMetadata implements tag.Metadata with canned values.
type fakeMetadata struct {
	fileType    tag.FileType
	title       string
	album       string
	artist      string
	albumArtist string
	composer    string
	genre       string
	year        int
	track       [2]int
	disc        [2]int
}

func (f *fakeMetadata) Format() tag.Format          { return tag.ID3v2_3 }
func (f *fakeMetadata) FileType() tag.FileType      { return f.fileType }
func (f *fakeMetadata) Title() string               { return f.title }
func (f *fakeMetadata) Album() string               { return f.album }
func (f *fakeMetadata) Artist() string              { return f.artist }
func (f *fakeMetadata) AlbumArtist() string         { return f.albumArtist }
func (f *fakeMetadata) Composer() string            { return f.composer }
func (f *fakeMetadata) Genre() string               { return f.genre }
func (f *fakeMetadata) Year() int                   { return f.year }
func (f *fakeMetadata) Track() (int, int)           { return f.track[0], f.track[1] }
func (f *fakeMetadata) Disc() (int, int)            { return f.disc[0], f.disc[1] }
func (f *fakeMetadata) Picture() *tag.Picture       { return nil }
func (f *fakeMetadata) Lyrics() string              { return "" }
func (f *fakeMetadata) Comment() string             { return "" }
func (f *fakeMetadata) Raw() map[string]interface{} { return nil }

type recordingLogger struct {
	mu      sync.Mutex
	verbose []string
}

func (l *recordingLogger) Verbose(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = append(l.verbose, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Info(format string, args ...interface{})  {}
func (l *recordingLogger) Warn(format string, args ...interface{})  {}
func (l *recordingLogger) Error(format string, args ...interface{}) {}

func newTestDataset(files map[string]string, log datalad.Logger) *extract.Dataset {
	fs := filesystem.NewMemoryFileSystem(testRoot)
	for name, content := range files {
		fs.AddFile(name, content)
	}
	return extract.NewDataset(testRoot, fs, nil, log)
}

func TestRecordFromMapsVocabularyKeys(t *testing.T) {
	md := &fakeMetadata{
		fileType:    tag.MP3,
		title:       "doors",
		album:       "nine",
		artist:      "dtail",
		albumArtist: "various",
		composer:    "bernd",
		genre:       "eurodance",
		year:        1996,
		track:       [2]int{7, 12},
	}

	record := recordFrom(md)

	assert.Equal(t, datalad.FileRecord{
		"name":                 "doors",
		"music:album":          "nine",
		"music:artist":         "dtail",
		"music:Composer":       "bernd",
		"music:Genre":          "eurodance",
		"comment<albumartist>": "various",
		"comment<year>":        1996,
		"comment<tracknumber>": 7,
		"comment<tracktotal>":  12,
		"format":               "mime:audio/mpeg",
	}, record)
}

func TestRecordFromSkipsEmptyFields(t *testing.T) {
	record := recordFrom(&fakeMetadata{fileType: tag.FLAC, title: "solo"})

	assert.Equal(t, datalad.FileRecord{
		"name":   "solo",
		"format": "mime:audio/flac",
	}, record)
}

func TestRecordFromUnknownFileTypeOmitsFormat(t *testing.T) {
	record := recordFrom(&fakeMetadata{title: "solo"})

	assert.NotContains(t, record, "format")
}

func TestDatasetMetadataReportsContext(t *testing.T) {
	ds := newTestDataset(nil, nil)

	meta, err := New().DatasetMetadata(ds)
	require.NoError(t, err)

	context, ok := meta["@context"].(map[string]any)
	require.True(t, ok, "@context must be a mapping")

	music, ok := context["music"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http://purl.org/ontology/mo/", music["@id"])

	duration, ok := context["duration(s)"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "uo:0000010", duration["unit"])
}

func TestContentMetadataSkipsUntaggedFiles(t *testing.T) {
	log := &recordingLogger{}
	ds := newTestDataset(map[string]string{
		"notes.txt": "not audio at all",
	}, log)

	var files []datalad.FileMetadata
	for fm, err := range New().ContentMetadata(ds, extract.Options{Paths: []string{"notes.txt"}}) {
		require.NoError(t, err)
		files = append(files, fm)
	}

	assert.Empty(t, files)
	require.Len(t, log.verbose, 1)
	assert.Contains(t, log.verbose[0], "no audio metadata")
}

func TestContentMetadataLenientSkipsUnreadableFiles(t *testing.T) {
	log := &recordingLogger{}
	ds := newTestDataset(nil, log)

	var files []datalad.FileMetadata
	for fm, err := range New().ContentMetadata(ds, extract.Options{Paths: []string{"missing.mp3"}}) {
		require.NoError(t, err)
		files = append(files, fm)
	}

	assert.Empty(t, files)
	require.Len(t, log.verbose, 1)
	assert.Contains(t, log.verbose[0], "cannot read")
}

func TestContentMetadataStrictStopsOnUnreadableFile(t *testing.T) {
	ds := newTestDataset(nil, nil)

	var gotErr error
	for _, err := range New().ContentMetadata(ds, extract.Options{
		Paths:  []string{"missing.mp3"},
		Strict: true,
	}) {
		if err != nil {
			gotErr = err
		}
	}

	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, datalad.ErrMetadataQuery)
}

func TestExtractorName(t *testing.T) {
	assert.Equal(t, "audio", New().Name())
}
