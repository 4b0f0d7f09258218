// Package ui provides console approvers for destructive operations.
package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// confirmWord is what the user must type to approve a replacement.
const confirmWord = "replace"

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type a confirmation
// word before an existing aggregate store is replaced.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover reading from
// stdin and prompting on stderr.
func NewInteractiveApprover(verbose bool) datalad.Approver {
	return &InteractiveApprover{
		verbose: verbose,
		input:   os.Stdin,
		output:  os.Stderr,
	}
}

// RequestApproval prompts the user to type the confirmation word.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, target string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: You are about to REPLACE the aggregate store at '%s'\n", target)
	fmt.Fprintln(a.output, "Its current records will be permanently deleted and rebuilt from the dataset!")
	if a.verbose {
		fmt.Fprintln(a.output, "The store holds dataset.json, files.jsonl, metadata.sqlite and manifest.json.")
	}
	fmt.Fprintf(a.output, "\nTo confirm, type '%s' and press Enter: ", confirmWord)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		if errors.Is(err, io.EOF) {
			// A closed stdin (CI pipeline, Ctrl+D) can never confirm
			return false, fmt.Errorf("%w: input stream closed before confirmation", datalad.ErrApprovalDenied)
		}
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == confirmWord {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with store replacement...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match '%s'. Operation cancelled.\n", input, confirmWord)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ datalad.Approver = (*InteractiveApprover)(nil)
