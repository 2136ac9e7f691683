// Package vcs implements core.VersionControl for git working copies.
//
// Staging, committing, hard resets, cleaning and status queries go through
// go-git. go-git has no stash support, so the temporary stash taken before
// each task (and dropped after commit or revert) is managed with the git
// command line tool. Stash failures are reported but never fatal.
//
// Commit messages are prefixed with a local ISO-8601 timestamp:
//
//	2025-01-02T15:04:05  docs: getting started
package vcs
