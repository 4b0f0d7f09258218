package datalad

import "context"

// Approver handles user approval for destructive operations, such as
// replacing an existing aggregate store.
//
// Implementations may prompt interactively, enforce a countdown, or decide
// programmatically. Returning false without an error means the user declined.
type Approver interface {
	// RequestApproval asks for confirmation to overwrite the named target.
	// The target is a human-readable identifier (a dataset name or path).
	RequestApproval(ctx context.Context, target string) (bool, error)
}
