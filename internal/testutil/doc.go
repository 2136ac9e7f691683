// Package testutil holds test doubles for the collaborator contracts in core
// (search, version control, reference storage) and helpers that set up
// throwaway git repositories. Not for production use.
package testutil
