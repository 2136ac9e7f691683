package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/logging"
)

// TimestampLayout is the commit message prefix layout.
const TimestampLayout = "2006-01-02T15:04:05"

// Options configure Git.
type Options struct {
	AuthorName  string
	AuthorEmail string
	// GitBinary is used for stash operations.
	GitBinary string
	Now       func() time.Time
	Logger    logging.Logger
}

// Git is a core.VersionControl backed by a git working copy.
type Git struct {
	dir  string
	repo *git.Repository
	opts Options
}

// Open opens the repository containing dir.
func Open(dir string, optFns ...func(o *Options)) (*Git, error) {
	opts := Options{
		AuthorName:  "agentcrew",
		AuthorEmail: "agentcrew@localhost",
		GitBinary:   "git",
		Now:         time.Now,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.Logger = logging.OrNoOp(opts.Logger)

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	return &Git{dir: wt.Filesystem.Root(), repo: repo, opts: opts}, nil
}

// Dir returns the worktree root.
func (g *Git) Dir() string { return g.dir }

// EnsureCleanState stashes uncommitted and untracked changes so the next task
// starts from HEAD.
func (g *Git) EnsureCleanState(ctx context.Context) error {
	if err := g.run(ctx, "stash", "--include-untracked", "--quiet"); err != nil {
		return fmt.Errorf("stash: %w", err)
	}
	return nil
}

// CommitAll stages every change (including deletions) and commits it with a
// timestamp-prefixed message. An empty change set is not an error.
func (g *Git) CommitAll(ctx context.Context, message string) error {
	wt, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("stage changes: %w", err)
	}

	now := g.opts.Now()
	msg := fmt.Sprintf("%s  %s", now.Format(TimestampLayout), message)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: g.opts.AuthorName, Email: g.opts.AuthorEmail, When: now},
	})
	switch {
	case errors.Is(err, git.ErrEmptyCommit):
		g.opts.Logger.Debug("nothing to commit", "message", message)
	case err != nil:
		return fmt.Errorf("commit: %w", err)
	default:
		g.opts.Logger.Info("committed", "hash", hash.String()[:7], "message", message)
	}

	g.dropStash(ctx)
	return nil
}

// RevertWorkingCopy discards every uncommitted edit and untracked file.
func (g *Git) RevertWorkingCopy(ctx context.Context) error {
	wt, err := g.repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.Reset(&git.ResetOptions{Mode: git.HardReset}); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := wt.Clean(&git.CleanOptions{Dir: true}); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	g.dropStash(ctx)
	return nil
}

// ChangedFiles lists untracked or modified files (relative, slash separated)
// whose name ends with ext. Ignored files are excluded. An empty ext matches
// every file.
func (g *Git) ChangedFiles(_ context.Context, ext string) ([]string, error) {
	wt, err := g.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	var files []string
	for path, st := range status {
		if st.Worktree != git.Untracked && st.Worktree != git.Modified &&
			st.Staging != git.Added && st.Staging != git.Modified {
			continue
		}
		if st.Worktree == git.Deleted {
			continue
		}
		if ext != "" && !strings.HasSuffix(path, ext) {
			continue
		}
		files = append(files, filepath.ToSlash(path))
	}
	sort.Strings(files)
	return files, nil
}

func (g *Git) dropStash(ctx context.Context) {
	if err := g.run(ctx, "stash", "drop", "--quiet"); err != nil {
		g.opts.Logger.Debug("no stash dropped", "error", err)
	}
}

func (g *Git) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, g.opts.GitBinary, args...) //nolint:gosec // fixed git subcommands
	cmd.Dir = g.dir
	// Stash creates commits, so the CLI needs an identity even on unconfigured hosts.
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME="+g.opts.AuthorName,
		"GIT_AUTHOR_EMAIL="+g.opts.AuthorEmail,
		"GIT_COMMITTER_NAME="+g.opts.AuthorName,
		"GIT_COMMITTER_EMAIL="+g.opts.AuthorEmail,
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(out.String()); msg != "" {
			return fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, msg)
		}
		return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

var _ core.VersionControl = (*Git)(nil)
