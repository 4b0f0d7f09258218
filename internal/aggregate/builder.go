package aggregate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ohler55/ojg/oj"

	"github.com/dmgolembiowski/datalad/internal/checksum"
	"github.com/dmgolembiowski/datalad/internal/logging"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// Artifact file names within the aggregate store directory.
const (
	DatasetArtifact  = "dataset.json"
	FilesArtifact    = "files.jsonl"
	StoreArtifact    = "metadata.sqlite"
	ManifestArtifact = "manifest.json"
)

// Builder assembles the aggregate store artifacts from extraction results.
type Builder struct {
	calc checksum.Calculator
	log  datalad.Logger
}

// NewBuilder creates an aggregate builder.
// Panics if calc is nil. A nil log defaults to the null logger.
func NewBuilder(calc checksum.Calculator, log datalad.Logger) *Builder {
	if calc == nil {
		panic("calc cannot be nil")
	}
	if log == nil {
		log = logging.NewNullLogger()
	}
	return &Builder{calc: calc, log: log}
}

// Build writes the aggregate artifacts into outputDir and returns a
// summary. The file sequence is consumed exactly once; an error element
// (strict-mode extraction failure) aborts the build and may leave partial
// artifacts behind, which the next successful run replaces.
func (b *Builder) Build(outputDir, extractor string, dataset datalad.DatasetMetadata, files datalad.FileSeq) (*datalad.AggregateSummary, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create aggregate directory: %w", err)
	}

	name, _ := dataset["name"].(string)
	version, _ := dataset["comment<BIDSVersion>"].(string)
	id := DatasetID(name, version)

	datasetJSON := oj.JSON(map[string]any(dataset), &oj.Options{Sort: true, Indent: 2}) + "\n"
	if err := os.WriteFile(filepath.Join(outputDir, DatasetArtifact), []byte(datasetJSON), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", DatasetArtifact, err)
	}

	count, err := b.writeFileArtifacts(outputDir, id.String(), dataset, files)
	if err != nil {
		return nil, err
	}

	manifest := map[string]any{
		"dataset_id": id.String(),
		"extractor":  extractor,
		"file_count": count,
		"created":    time.Now().UTC().Format(time.RFC3339),
	}
	artifacts, err := b.artifactChecksums(outputDir)
	if err != nil {
		return nil, err
	}
	manifest["artifacts"] = artifacts

	manifestJSON := oj.JSON(manifest, &oj.Options{Sort: true, Indent: 2}) + "\n"
	if err := os.WriteFile(filepath.Join(outputDir, ManifestArtifact), []byte(manifestJSON), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", ManifestArtifact, err)
	}

	b.log.Verbose("aggregate store written to %s (%d file records)", outputDir, count)

	return &datalad.AggregateSummary{
		OutputDir: outputDir,
		DatasetID: id.String(),
		FileCount: count,
		Artifacts: []string{DatasetArtifact, FilesArtifact, StoreArtifact, ManifestArtifact},
	}, nil
}

// writeFileArtifacts streams the file sequence into files.jsonl and the
// SQLite store in one pass.
func (b *Builder) writeFileArtifacts(outputDir, datasetID string, dataset datalad.DatasetMetadata, files datalad.FileSeq) (int, error) {
	storePath := filepath.Join(outputDir, StoreArtifact)
	// Stale rows from a previous run must not survive the rebuild
	if err := os.Remove(storePath); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("failed to replace %s: %w", StoreArtifact, err)
	}

	store, err := NewStore(storePath)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	jsonlFile, err := os.Create(filepath.Join(outputDir, FilesArtifact))
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", FilesArtifact, err)
	}
	defer jsonlFile.Close()
	w := bufio.NewWriter(jsonlFile)

	count := 0
	for fm, ferr := range files {
		if ferr != nil {
			return count, fmt.Errorf("aggregation aborted: %w", ferr)
		}

		recordChecksum := b.calc.CalculateRecord(fm.Record)
		line := oj.JSON(map[string]any{
			"path":     fm.Path,
			"checksum": recordChecksum,
			"record":   map[string]any(fm.Record),
		}, &oj.Options{Sort: true})
		if _, err := w.WriteString(line + "\n"); err != nil {
			return count, fmt.Errorf("failed to write %s: %w", FilesArtifact, err)
		}

		if err := store.PutFile(fm.Path, recordChecksum, fm.Record); err != nil {
			return count, err
		}

		count++
		b.log.Verbose("aggregated %s", fm.Path)
	}

	if err := w.Flush(); err != nil {
		return count, fmt.Errorf("failed to flush %s: %w", FilesArtifact, err)
	}
	if err := store.PutDataset(datasetID, dataset); err != nil {
		return count, err
	}
	return count, nil
}

// artifactChecksums hashes the written artifacts for the manifest.
func (b *Builder) artifactChecksums(outputDir string) ([]any, error) {
	names := []string{DatasetArtifact, FilesArtifact, StoreArtifact}
	artifacts := make([]any, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s for checksumming: %w", name, err)
		}
		artifacts = append(artifacts, map[string]any{
			"name":   name,
			"sha256": b.calc.CalculateRaw(content),
		})
	}
	return artifacts, nil
}

// Exists reports whether outputDir already holds a complete aggregate
// store. Presence is judged by the manifest, the last artifact written.
func Exists(outputDir string) bool {
	info, err := os.Stat(filepath.Join(outputDir, ManifestArtifact))
	return err == nil && !info.IsDir()
}

// Remove deletes a previously written aggregate store directory.
func Remove(outputDir string) error {
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to remove aggregate store: %w", err)
	}
	return nil
}
