package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/hupe1980/agentcrew/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local) }

func openTest(t *testing.T, dir string) *Git {
	t.Helper()
	g, err := Open(dir, func(o *Options) { o.Now = fixedNow })
	require.NoError(t, err)
	return g
}

func headMessage(t *testing.T, dir string) string {
	t.Helper()
	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	c, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	return c.Message
}

func TestCommitAll(t *testing.T) {
	dir := testutil.InitRepo(t)
	g := openTest(t, dir)

	testutil.WriteFile(t, dir, "docs/intro.md", "# Intro\n")
	require.NoError(t, g.CommitAll(context.Background(), "docs: intro"))

	assert.Equal(t, "2025-03-04T05:06:07  docs: intro", headMessage(t, dir))

	files, err := g.ChangedFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCommitAll_NothingToCommit(t *testing.T) {
	dir := testutil.InitRepo(t)
	g := openTest(t, dir)

	require.NoError(t, g.CommitAll(context.Background(), "noop"))
	assert.Equal(t, "initial", strings.TrimSpace(headMessage(t, dir)))
}

func TestRevertWorkingCopy(t *testing.T) {
	dir := testutil.InitRepo(t)
	g := openTest(t, dir)

	testutil.WriteFile(t, dir, "README.md", "changed\n")
	testutil.WriteFile(t, dir, "pkg/new.py", "print(1)\n")

	require.NoError(t, g.RevertWorkingCopy(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# test\n", string(data))
	_, err = os.Stat(filepath.Join(dir, "pkg", "new.py"))
	assert.True(t, os.IsNotExist(err))
}

func TestChangedFiles(t *testing.T) {
	dir := testutil.InitRepo(t)
	g := openTest(t, dir)

	testutil.WriteFile(t, dir, ".gitignore", "build/\n")
	testutil.WriteFile(t, dir, "app.py", "x = 1\n")
	testutil.WriteFile(t, dir, "lib/util.py", "y = 2\n")
	testutil.WriteFile(t, dir, "notes.txt", "n\n")
	testutil.WriteFile(t, dir, "build/gen.py", "z = 3\n")

	files, err := g.ChangedFiles(context.Background(), ".py")
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py", "lib/util.py"}, files)
}

func TestEnsureCleanState(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := testutil.InitRepo(t)
	g := openTest(t, dir)

	testutil.WriteFile(t, dir, "README.md", "dirty\n")
	testutil.WriteFile(t, dir, "scratch.py", "pass\n")

	require.NoError(t, g.EnsureCleanState(context.Background()))

	files, err := g.ChangedFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, files)

	// The stash is consumed by the following revert.
	require.NoError(t, g.RevertWorkingCopy(context.Background()))
	err = exec.Command("git", "-C", dir, "stash", "show").Run()
	assert.Error(t, err, "stash should have been dropped")
}

func TestEnsureCleanState_MissingBinary(t *testing.T) {
	dir := testutil.InitRepo(t)
	g, err := Open(dir, func(o *Options) { o.GitBinary = filepath.Join(t.TempDir(), "nogit") })
	require.NoError(t, err)

	assert.Error(t, g.EnsureCleanState(context.Background()))
	require.NoError(t, g.RevertWorkingCopy(context.Background()))
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}
