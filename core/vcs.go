package core

import "context"

// VersionControl is the contract of the version-control backend used around
// code and document changes.
type VersionControl interface {
	// EnsureCleanState stashes uncommitted changes. Failures are non-fatal and
	// implementations should only return errors they consider worth logging.
	EnsureCleanState(ctx context.Context) error

	// CommitAll stages every change and commits it with a timestamp-prefixed message,
	// then discards the temporary stash.
	CommitAll(ctx context.Context, message string) error

	// RevertWorkingCopy hard-resets and cleans the working copy, then discards the
	// temporary stash.
	RevertWorkingCopy(ctx context.Context) error

	// ChangedFiles lists new or modified files whose name ends with ext.
	ChangedFiles(ctx context.Context, ext string) ([]string, error)
}
