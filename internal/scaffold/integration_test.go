package scaffold_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmgolembiowski/datalad/internal/aggregate"
	"github.com/dmgolembiowski/datalad/internal/checksum"
	"github.com/dmgolembiowski/datalad/internal/extract"
	"github.com/dmgolembiowski/datalad/internal/extract/bids"
	"github.com/dmgolembiowski/datalad/internal/files/filesystem"
	"github.com/dmgolembiowski/datalad/internal/files/scanner"
	"github.com/dmgolembiowski/datalad/internal/logging"
	"github.com/dmgolembiowski/datalad/internal/scaffold"
	"github.com/dmgolembiowski/datalad/internal/services"
	"github.com/dmgolembiowski/datalad/internal/testing/fixtures"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// TestTemplatePipeline tests all templates by scaffolding them and running
// extraction plus aggregation over the result using the service interfaces
// (not CLI).
func TestTemplatePipeline(t *testing.T) {
	templates := []string{"basic", "longitudinal"}

	for _, templateName := range templates {
		t.Run(templateName, func(t *testing.T) {
			testTemplatePipeline(t, templateName)
		})
	}
}

func testTemplatePipeline(t *testing.T, templateName string) {
	ctx := context.Background()
	targetDir := filepath.Join(t.TempDir(), templateName)

	// Step 1: Scaffold the template into a fresh directory
	scaffolder := scaffold.NewScaffolder(nil)
	require.NoError(t, scaffolder.CreateDataset(datalad.InitConfig{
		TargetPath: targetDir,
		Name:       "demo",
		License:    "PD",
		Authors:    []string{"A. Author"},
		Template:   templateName,
	}))

	t.Logf("Extracting scaffolded %s template from %s...", templateName, targetDir)

	fs := filesystem.NewOSFileSystem()
	registry := extract.NewRegistry()
	registry.Register(bids.New())
	svc := services.NewExtractionService(
		registry,
		fs,
		scanner.NewScannerWithFS(fs),
		&fixtures.StaticApprover{},
		aggregate.NewBuilder(checksum.New(), nil),
		logging.NewNullLogger(),
	)

	// Step 2: Extract and verify the substituted values come back out
	result, err := svc.Extract(ctx, datalad.ExtractionConfig{
		SourcePath: targetDir,
		Content:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "demo", result.Dataset["name"])
	assert.Equal(t, "PD", result.Dataset["license"])
	assert.Equal(t, []any{"A. Author"}, result.Dataset["author"])
	assert.Equal(t, "http://bids.neuroimaging.io/bids_spec1.0.2.pdf", result.Dataset["conformsto"])

	description, ok := result.Dataset["description"].(string)
	require.True(t, ok, "README should back the dataset description")
	assert.True(t, strings.HasPrefix(description, "demo"),
		"description should open with the substituted dataset name")

	paths := make(map[string]bool)
	fileCount := 0
	for fm, ferr := range result.Files {
		require.NoError(t, ferr)
		paths[fm.Path] = true
		fileCount++
	}
	assert.True(t, paths["README"], "README should be reported")
	assert.True(t, paths["participants.tsv"], "subject table should be reported")
	assert.False(t, paths["dataset_description.json"], "sidecar-suffixed files should not be reported")

	t.Logf("Aggregating %d file records...", fileCount)

	// Step 3: Aggregate and verify the store lands next to the data
	summary, err := svc.Aggregate(ctx, datalad.AggregateConfig{
		SourcePath: targetDir,
	})
	require.NoError(t, err)
	assert.Equal(t, fileCount, summary.FileCount)
	assert.True(t, aggregate.Exists(summary.OutputDir))
	assert.Equal(t, filepath.Join(targetDir, ".datalad", "metadata"), summary.OutputDir)
}
