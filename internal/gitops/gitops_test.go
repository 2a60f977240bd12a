package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func lastCommit(t *testing.T, dir, format string) string {
	t.Helper()
	log := exec.Command("git", "log", "--format="+format, "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	return string(out)
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestSnapshot(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "output"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "output", "bilant.csv"), []byte("x"), 0o644))

	hash, err := Snapshot(dir, "generate: F10L", testAuthor, "output")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.Contains(t, lastCommit(t, dir, "%s"), "generate: F10L")
	assert.Contains(t, lastCommit(t, dir, "%an <%ae>"), "Test Author <test@example.com>")
}

func TestSnapshot_OnlyGivenPaths(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))

	_, err := Snapshot(dir, "only a", testAuthor, "a.txt")
	require.NoError(t, err)

	files := exec.Command("git", "show", "--name-only", "--format=", "HEAD")
	files.Dir = dir
	out, err := files.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "a.txt")
	assert.NotContains(t, string(out), "b.txt")
}

func TestSnapshot_NothingToCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	_, err := Snapshot(dir, "first", testAuthor)
	require.NoError(t, err)

	hash, err := Snapshot(dir, "second", testAuthor)
	require.NoError(t, err)
	assert.Empty(t, hash)
}
