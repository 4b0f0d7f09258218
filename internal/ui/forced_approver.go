package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

const dangerBanner = `======================== DANGER ========================
 The aggregate store at
   '%s'
 is about to be REPLACED. Its existing metadata records
 will be lost and rebuilt from the dataset.
========================================================
`

// ForcedApprover implements the Approver interface for forced
// (non-interactive) approval. It displays a countdown and automatically
// approves afterwards, used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover writing to stderr.
func NewForcedApprover(verbose bool) datalad.Approver {
	return &ForcedApprover{
		verbose: verbose,
		output:  os.Stderr,
		sleepFn: time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after it.
func (a *ForcedApprover) RequestApproval(ctx context.Context, target string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintf(a.output, dangerBanner, target)
	fmt.Fprintln(a.output)

	countdownSeconds := int(datalad.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rReplacing in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(1 * time.Second)
		}
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with store replacement...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ datalad.Approver = (*ForcedApprover)(nil)
