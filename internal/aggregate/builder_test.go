package aggregate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmgolembiowski/datalad/internal/checksum"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

func seqOf(files ...datalad.FileMetadata) datalad.FileSeq {
	return func(yield func(datalad.FileMetadata, error) bool) {
		for _, fm := range files {
			if !yield(fm, nil) {
				return
			}
		}
	}
}

func failingSeq(good datalad.FileMetadata, err error) datalad.FileSeq {
	return func(yield func(datalad.FileMetadata, error) bool) {
		if !yield(good, nil) {
			return
		}
		yield(datalad.FileMetadata{}, err)
	}
}

func testDatasetMeta() datalad.DatasetMetadata {
	return datalad.DatasetMetadata{
		"name":                 "studyforrest",
		"license":              "PDDL",
		"comment<BIDSVersion>": "1.0.2",
		"conformsto":           "http://bids.neuroimaging.io/bids_spec1.0.2.pdf",
	}
}

func parseJSONObject(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	parsed, err := oj.Parse(raw)
	require.NoError(t, err)
	obj, ok := parsed.(map[string]any)
	require.True(t, ok, "%s must hold a JSON object", path)
	return obj
}

func TestBuildWritesAllArtifacts(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "metadata")
	builder := NewBuilder(checksum.New(), nil)

	summary, err := builder.Build(outputDir, "bids", testDatasetMeta(), seqOf(
		datalad.FileMetadata{
			Path:   "sub-01/anat/sub-01_T1w.nii",
			Record: datalad.FileRecord{"bids:participant_id": "sub-01"},
		},
		datalad.FileMetadata{
			Path:   "sub-02/anat/sub-02_T1w.nii",
			Record: datalad.FileRecord{"bids:participant_id": "sub-02"},
		},
	))
	require.NoError(t, err)

	assert.Equal(t, outputDir, summary.OutputDir)
	assert.Equal(t, 2, summary.FileCount)
	assert.NotEmpty(t, summary.DatasetID)
	assert.Equal(t, []string{DatasetArtifact, FilesArtifact, StoreArtifact, ManifestArtifact}, summary.Artifacts)

	for _, name := range summary.Artifacts {
		_, err := os.Stat(filepath.Join(outputDir, name))
		assert.NoError(t, err, "artifact %s must exist", name)
	}
}

func TestBuildDatasetArtifact(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "metadata")
	builder := NewBuilder(checksum.New(), nil)

	_, err := builder.Build(outputDir, "bids", testDatasetMeta(), seqOf())
	require.NoError(t, err)

	dataset := parseJSONObject(t, filepath.Join(outputDir, DatasetArtifact))
	assert.Equal(t, "studyforrest", dataset["name"])
	assert.Equal(t, "PDDL", dataset["license"])
}

func TestBuildFilesArtifactLines(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "metadata")
	builder := NewBuilder(checksum.New(), nil)

	_, err := builder.Build(outputDir, "bids", testDatasetMeta(), seqOf(
		datalad.FileMetadata{Path: "a.nii", Record: datalad.FileRecord{"bids:EchoTime": 0.002}},
		datalad.FileMetadata{Path: "b.nii", Record: datalad.FileRecord{}},
	))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(outputDir, FilesArtifact))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 2)

	parsed, err := oj.ParseString(lines[0])
	require.NoError(t, err)
	entry, ok := parsed.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a.nii", entry["path"])
	assert.Len(t, entry["checksum"], 64)

	record, ok := entry["record"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.002, record["bids:EchoTime"])
}

func TestBuildStoreArtifactQueryable(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "metadata")
	builder := NewBuilder(checksum.New(), nil)

	summary, err := builder.Build(outputDir, "bids", testDatasetMeta(), seqOf(
		datalad.FileMetadata{Path: "a.nii", Record: datalad.FileRecord{"bids:Manufacturer": "Siemens"}},
	))
	require.NoError(t, err)

	store, err := NewStore(filepath.Join(outputDir, StoreArtifact))
	require.NoError(t, err)
	defer store.Close()

	record, err := store.File("a.nii")
	require.NoError(t, err)
	assert.Equal(t, "Siemens", record["bids:Manufacturer"])

	id, dataset, err := store.Dataset()
	require.NoError(t, err)
	assert.Equal(t, summary.DatasetID, id)
	assert.Equal(t, "studyforrest", dataset["name"])
}

func TestBuildManifest(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "metadata")
	builder := NewBuilder(checksum.New(), nil)

	summary, err := builder.Build(outputDir, "bids", testDatasetMeta(), seqOf(
		datalad.FileMetadata{Path: "a.nii", Record: datalad.FileRecord{}},
	))
	require.NoError(t, err)

	manifest := parseJSONObject(t, filepath.Join(outputDir, ManifestArtifact))
	assert.Equal(t, summary.DatasetID, manifest["dataset_id"])
	assert.Equal(t, "bids", manifest["extractor"])
	assert.Equal(t, int64(1), manifest["file_count"])
	assert.NotEmpty(t, manifest["created"])

	artifacts, ok := manifest["artifacts"].([]any)
	require.True(t, ok)
	require.Len(t, artifacts, 3)
	for _, a := range artifacts {
		entry, ok := a.(map[string]any)
		require.True(t, ok)
		assert.NotEmpty(t, entry["name"])
		assert.Len(t, entry["sha256"], 64)
	}
}

func TestBuildDeterministicIdentity(t *testing.T) {
	builder := NewBuilder(checksum.New(), nil)

	first, err := builder.Build(filepath.Join(t.TempDir(), "m1"), "bids", testDatasetMeta(), seqOf())
	require.NoError(t, err)
	second, err := builder.Build(filepath.Join(t.TempDir(), "m2"), "bids", testDatasetMeta(), seqOf())
	require.NoError(t, err)

	assert.Equal(t, first.DatasetID, second.DatasetID)
}

func TestBuildAbortsOnSequenceError(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "metadata")
	builder := NewBuilder(checksum.New(), nil)

	boom := fmt.Errorf("%w for b.nii: unreadable", datalad.ErrMetadataQuery)
	_, err := builder.Build(outputDir, "bids", testDatasetMeta(), failingSeq(
		datalad.FileMetadata{Path: "a.nii", Record: datalad.FileRecord{}},
		boom,
	))

	require.Error(t, err)
	assert.ErrorIs(t, err, datalad.ErrMetadataQuery)

	// No manifest means no complete store
	assert.False(t, Exists(outputDir))
}

func TestExistsAndRemove(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "metadata")
	builder := NewBuilder(checksum.New(), nil)

	assert.False(t, Exists(outputDir))

	_, err := builder.Build(outputDir, "bids", testDatasetMeta(), seqOf())
	require.NoError(t, err)
	assert.True(t, Exists(outputDir))

	require.NoError(t, Remove(outputDir))
	assert.False(t, Exists(outputDir))
}

func TestNewBuilderPanicsOnNilCalculator(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil calculator")
		}
	}()
	NewBuilder(nil, nil)
}
