package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// datasetPathFromArgs returns the positional dataset path, defaulting to
// the current directory when none was given.
func datasetPathFromArgs(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// RequireTargetPath validates that exactly one target path argument was
// provided, with a usage-oriented error message.
func RequireTargetPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`target path required

Usage: datalad-meta init <target_path> [flags]

Examples:
  datalad-meta init .          # Initialize in the current directory
  datalad-meta init ./study    # Initialize in ./study

Use 'datalad-meta init --list' to see available templates`)
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts at most 1 arg(s), received %d", len(args))
	}
	return nil
}
