package filesystem

import (
	"embed"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed all:testdata/dataset
var embeddedDataset embed.FS

func TestEmbedFileSystemReadFile(t *testing.T) {
	fs := NewEmbedFileSystem(embeddedDataset, "testdata/dataset")

	content, err := fs.ReadFile("dataset_description.json")
	require.NoError(t, err)
	assert.Contains(t, string(content), "Embedded Test Dataset")

	_, err = fs.ReadFile("missing.json")
	assert.Error(t, err)
}

func TestEmbedFileSystemStat(t *testing.T) {
	fs := NewEmbedFileSystem(embeddedDataset, "testdata/dataset")

	info, err := fs.Stat("README")
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	info, err = fs.Stat("sub-01")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEmbedFileSystemWalk(t *testing.T) {
	fs := NewEmbedFileSystem(embeddedDataset, "testdata/dataset")

	dir, err := fs.Open(".")
	require.NoError(t, err)

	var files []string
	err = dir.Walk(func(f File, err error) error {
		require.NoError(t, err)
		if !f.Info().IsDir() {
			files = append(files, f.RelativePath())
		}
		return nil
	})
	require.NoError(t, err)

	sort.Strings(files)
	assert.Equal(t, []string{
		"README",
		"dataset_description.json",
		"participants.tsv",
		"sub-01/anat/sub-01_T1w.nii",
	}, files)
}

func TestEmbedFileSystemReadDir(t *testing.T) {
	fs := NewEmbedFileSystem(embeddedDataset, "testdata/dataset")

	entries, err := fs.ReadDir(".")
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	_, err = fs.ReadDir("nope")
	assert.Error(t, err)
}

func TestEmbedFileSystemContentMatchesMemoryEquivalent(t *testing.T) {
	efs := NewEmbedFileSystem(embeddedDataset, "testdata/dataset")

	embedded, err := efs.ReadFile("participants.tsv")
	require.NoError(t, err)

	mfs := NewMemoryFileSystem("/ds")
	mfs.AddFile("participants.tsv", string(embedded))

	inMemory, err := mfs.ReadFile("participants.tsv")
	require.NoError(t, err)
	assert.Equal(t, embedded, inMemory)
}
