package fixtures

import (
	"fmt"

	"github.com/dmgolembiowski/datalad/internal/files/filesystem"
)

// DatasetRoot is the in-memory root every built fixture lives under.
const DatasetRoot = "/data/study"

// DatasetFixtureBuilder provides a fluent API for building in-memory
// dataset trees used in extraction tests. It generates descriptor files,
// subject tables, and per-subject directory structures.
//
// Example usage:
//
//	fs := NewDatasetFixtureBuilder().
//	    AddSubjectTable("participant_id\tage\nsub-01\t30\n").
//	    AddSubject("sub-01", func(s *SubjectBuilder) {
//	        s.AddFile("anat/sub-01_T1w.nii", "voxels")
//	    }).
//	    Build()
type DatasetFixtureBuilder struct {
	files map[string]string // path -> content
}

// NewDatasetFixtureBuilder creates a new fixture builder with a minimal
// descriptor file pre-populated.
func NewDatasetFixtureBuilder() *DatasetFixtureBuilder {
	return &DatasetFixtureBuilder{
		files: map[string]string{
			"dataset_description.json": `{"Name": "studyforrest", "BIDSVersion": "1.0.2"}`,
		},
	}
}

// AddFile adds an arbitrary file at the specified path.
func (b *DatasetFixtureBuilder) AddFile(path, content string) *DatasetFixtureBuilder {
	b.files[path] = content
	return b
}

// WithDescriptor replaces the pre-populated descriptor content.
func (b *DatasetFixtureBuilder) WithDescriptor(content string) *DatasetFixtureBuilder {
	b.files["dataset_description.json"] = content
	return b
}

// WithoutDescriptor removes the descriptor, producing a tree that is not a
// dataset.
func (b *DatasetFixtureBuilder) WithoutDescriptor() *DatasetFixtureBuilder {
	delete(b.files, "dataset_description.json")
	return b
}

// AddReadme adds a README at the dataset root.
func (b *DatasetFixtureBuilder) AddReadme(content string) *DatasetFixtureBuilder {
	b.files["README"] = content
	return b
}

// AddSubjectTable adds the participants.tsv subject table.
func (b *DatasetFixtureBuilder) AddSubjectTable(content string) *DatasetFixtureBuilder {
	b.files["participants.tsv"] = content
	return b
}

// AddSubject adds a subject directory with nested structure.
// The builder function receives a SubjectBuilder for the subject directory.
//
// Example:
//
//	builder.AddSubject("sub-01", func(s *SubjectBuilder) {
//	    s.AddFile("anat/sub-01_T1w.nii", "voxels")
//	    s.AddSession("ses-02", func(ses *SubjectBuilder) {
//	        ses.AddFile("func/bold.nii", "voxels")
//	    })
//	})
func (b *DatasetFixtureBuilder) AddSubject(id string, builderFunc func(*SubjectBuilder)) *DatasetFixtureBuilder {
	subjectBuilder := &SubjectBuilder{
		basePath: id,
		files:    b.files,
	}
	builderFunc(subjectBuilder)
	return b
}

// Build generates the filesystem.FileSystemProvider from the accumulated
// files, rooted at DatasetRoot.
func (b *DatasetFixtureBuilder) Build() *filesystem.MemoryFileSystem {
	fs := filesystem.NewMemoryFileSystem(DatasetRoot)

	for path, content := range b.files {
		fs.AddFile(path, content)
	}

	return fs
}

// SubjectBuilder builds subject directory structures with support for
// nested session directories.
type SubjectBuilder struct {
	basePath string
	files    map[string]string
}

// AddFile adds a file below the subject directory.
func (s *SubjectBuilder) AddFile(name, content string) *SubjectBuilder {
	path := fmt.Sprintf("%s/%s", s.basePath, name)
	s.files[path] = content
	return s
}

// AddSidecar adds a JSON sidecar below the subject directory.
func (s *SubjectBuilder) AddSidecar(name, content string) *SubjectBuilder {
	return s.AddFile(name, content)
}

// AddSession adds a nested session directory.
func (s *SubjectBuilder) AddSession(name string, builderFunc func(*SubjectBuilder)) *SubjectBuilder {
	subPath := fmt.Sprintf("%s/%s", s.basePath, name)
	subBuilder := &SubjectBuilder{
		basePath: subPath,
		files:    s.files,
	}
	builderFunc(subBuilder)
	return s
}

// ============================================================================
// Pre-built Fixtures
// ============================================================================

// StandardDataset creates a standard two-subject fixture with:
// - descriptor and README
// - subject table covering both subjects
// - anatomical and functional files, one with a JSON sidecar
func StandardDataset() *filesystem.MemoryFileSystem {
	return NewDatasetFixtureBuilder().
		AddReadme("A longitudinal study of everyday memory.").
		AddSubjectTable("participant_id\tage\tsex\nsub-01\t30\tF\nsub-02\t25\tM\n").
		AddSubject("sub-01", func(s *SubjectBuilder) {
			s.AddFile("anat/sub-01_T1w.nii", "voxels")
			s.AddFile("func/sub-01_task-rest_bold.nii", "voxels")
			s.AddSidecar("func/sub-01_task-rest_bold.json", `{"RepetitionTime": 2.0}`)
		}).
		AddSubject("sub-02", func(s *SubjectBuilder) {
			s.AddFile("anat/sub-02_T1w.nii", "voxels")
		}).
		Build()
}

// NoDescriptor creates a tree without a descriptor file.
func NoDescriptor() *filesystem.MemoryFileSystem {
	return NewDatasetFixtureBuilder().
		WithoutDescriptor().
		AddReadme("not a dataset").
		Build()
}

// WithDerivatives creates a single-subject fixture plus a derivatives/
// subtree holding processed results.
func WithDerivatives() *filesystem.MemoryFileSystem {
	return NewDatasetFixtureBuilder().
		AddSubject("sub-01", func(s *SubjectBuilder) {
			s.AddFile("anat/sub-01_T1w.nii", "voxels")
		}).
		AddFile("derivatives/fmriprep/sub-01_desc-preproc_T1w.nii", "voxels").
		Build()
}
