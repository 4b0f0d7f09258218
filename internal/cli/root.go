package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "datalad-meta",
	Short: "Dataset metadata extraction tool",
	Long: asciiLogo + `

datalad-meta reads structured research datasets and produces portable
metadata: one record for the dataset as a whole and, on request, one
flattened record per content file with subject-table properties overlaid
on matching paths.

Extraction is read-only and lenient by default: an unreadable metadata
source degrades to an empty record. Strict mode stops at the first
failed metadata query instead.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or unknown extractor
  11 - Metadata extraction failed in strict mode
  12 - User denied replacement approval
  13 - Aggregate store already exists
  14 - Init target directory not empty`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	// Support --version as a flag shortcut
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for datalad-meta")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM,
// letting long extractions shut down cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
