package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// resetFlagState clears cobra's changed markers so precedence logic sees
// pristine flags. Needed because commands are package-level globals that
// persist across tests.
func resetFlagState(cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		f.Changed = false
	})
}

func TestInitCmd_ArgsValidation(t *testing.T) {
	resetInitFlags()
	err := initCmd.Args(initCmd, []string{})
	if err == nil {
		t.Fatal("Expected error for missing args")
	}
	exitCode := datalad.ExitCodeForError(err)
	if exitCode != datalad.ExitUsageError {
		t.Errorf("Expected exit code %d (usage), got %d for: %v", datalad.ExitUsageError, exitCode, err)
	}
}

func TestInitCmd_ArgsValidation_TooMany(t *testing.T) {
	resetInitFlags()
	err := initCmd.Args(initCmd, []string{"a", "b"})
	if err == nil {
		t.Fatal("Expected error for too many args")
	}
	exitCode := datalad.ExitCodeForError(err)
	if exitCode != datalad.ExitUsageError {
		t.Errorf("Expected exit code %d (usage), got %d for: %v", datalad.ExitUsageError, exitCode, err)
	}
}

func TestInitCmd_ArgsValidation_ListNeedsNoPath(t *testing.T) {
	resetInitFlags()
	initFlags.list = true

	if err := initCmd.Args(initCmd, []string{}); err != nil {
		t.Errorf("--list should not require a target path, got: %v", err)
	}
}

func TestExtractCmd_ArgsValidation_TooMany(t *testing.T) {
	err := extractCmd.Args(extractCmd, []string{"a", "b"})
	if err == nil {
		t.Fatal("Expected error for too many args")
	}
	exitCode := datalad.ExitCodeForError(err)
	if exitCode != datalad.ExitUsageError {
		t.Errorf("Expected exit code %d (usage), got %d for: %v", datalad.ExitUsageError, exitCode, err)
	}
}

func TestAggregateCmd_ArgsValidation_TooMany(t *testing.T) {
	err := aggregateCmd.Args(aggregateCmd, []string{"a", "b"})
	if err == nil {
		t.Fatal("Expected error for too many args")
	}
}

func TestRunExtract_UnknownFormat(t *testing.T) {
	resetExtractFlags()
	extractFlags.format = "xml"

	err := runExtract(extractCmd, []string{t.TempDir()})
	if err == nil {
		t.Fatal("Expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("Expected 'unknown format' error, got: %v", err)
	}
}

func TestRunExtract_QueryRequiresJSONFormat(t *testing.T) {
	resetExtractFlags()
	extractFlags.format = "jsonl"
	extractFlags.query = "$.dataset.name"

	err := runExtract(extractCmd, []string{t.TempDir()})
	if err == nil {
		t.Fatal("Expected error for --query with non-json format")
	}
	if !strings.Contains(err.Error(), "--format json") {
		t.Errorf("Expected format hint in error, got: %v", err)
	}
}

func TestRunExtract_UnknownExtractor(t *testing.T) {
	resetExtractFlags()
	clearExtractionEnv(t)
	extractFlags.extractor = "nonexistent"

	err := runExtract(extractCmd, []string{t.TempDir()})
	if err == nil {
		t.Fatal("Expected error for unknown extractor")
	}
	exitCode := datalad.ExitCodeForError(err)
	if exitCode != datalad.ExitConfigError {
		t.Errorf("Expected exit code %d (config), got %d for: %v", datalad.ExitConfigError, exitCode, err)
	}
}

func TestRunExtractors_ListsBuiltins(t *testing.T) {
	names := newExtractorRegistry().Names()

	found := map[string]bool{}
	for _, name := range names {
		found[name] = true
	}
	if !found["bids"] || !found["audio"] {
		t.Errorf("Expected bids and audio to be registered, got: %v", names)
	}
}
