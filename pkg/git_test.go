package fvupgrader

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gitEnv keeps the tests independent of the user's global git configuration.
var gitEnv = []string{
	"GIT_AUTHOR_NAME=Test User",
	"GIT_AUTHOR_EMAIL=test@example.com",
	"GIT_COMMITTER_NAME=Test User",
	"GIT_COMMITTER_EMAIL=test@example.com",
	"GIT_CONFIG_NOSYSTEM=1",
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), gitEnv...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// newGitProject creates a repository with one commit and a bare "origin" remote.
func newGitProject(t *testing.T) (dir, remote string) {
	t.Helper()
	if err := CheckGit(); err != nil {
		t.Skip("git is not available on system")
	}
	for _, kv := range gitEnv {
		k, v, _ := strings.Cut(kv, "=")
		t.Setenv(k, v)
	}

	root := t.TempDir()
	remote = filepath.Join(root, "origin.git")
	dir = filepath.Join(root, "app")
	require.NoError(t, os.MkdirAll(dir, 0755))

	runGit(t, root, "init", "--bare", remote)
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	writePubspec(t, dir, samplePubspec)
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial commit")
	runGit(t, dir, "remote", "add", "origin", remote)
	return dir, remote
}

func TestExecGitIsCheckout(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, NewExecGit(dir).IsCheckout())

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	assert.True(t, NewExecGit(dir).IsCheckout())

	worktree := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(worktree, ".git"), []byte("gitdir: /elsewhere\n"), 0644))
	assert.True(t, NewExecGit(worktree).IsCheckout())
}

func TestExecGitFailureIsExternalCommandError(t *testing.T) {
	if err := CheckGit(); err != nil {
		t.Skip("git is not available on system")
	}
	g := NewExecGit(t.TempDir())
	err := g.Commit(context.Background(), "nothing here")
	require.Error(t, err)
	assert.Equal(t, ErrCodeExternalCommand, CodeOf(err))
	assert.Contains(t, err.Error(), "git commit failed")
}

func TestExecGitMissingBinary(t *testing.T) {
	g := &ExecGit{Dir: t.TempDir(), Binary: "definitely-not-git-binary"}
	err := g.Add(context.Background(), "pubspec.yaml")
	assert.Equal(t, ErrCodeExternalCommand, CodeOf(err))
}

// TestGitIntegration runs a full release against a real repository and bare remote.
func TestGitIntegration(t *testing.T) {
	dir, remote := newGitProject(t)

	meta, err := Run(context.Background(), Options{Dir: dir, Minor: true, Logger: discardLogger()})
	require.NoError(t, err)
	assert.True(t, meta.Committed)
	assert.True(t, meta.Tagged)
	assert.True(t, meta.Pushed)

	assert.Equal(t, "Bump version to 1.3.0+45", runGit(t, dir, "log", "-1", "--pretty=%s"))
	assert.Equal(t, "v1.3.0+45", runGit(t, dir, "tag", "--list"))
	assert.Equal(t, "tag", runGit(t, dir, "cat-file", "-t", "v1.3.0+45"), "tag must be annotated")
	assert.Empty(t, runGit(t, dir, "status", "--porcelain"))

	assert.Equal(t, "v1.3.0+45", runGit(t, remote, "tag", "--list"))
	assert.Equal(t, runGit(t, dir, "rev-parse", "HEAD"), runGit(t, remote, "rev-parse", "v1.3.0+45^{commit}"))
}

func TestGitIntegrationPushFailureKeepsCommit(t *testing.T) {
	dir, _ := newGitProject(t)
	runGit(t, dir, "remote", "set-url", "origin", filepath.Join(t.TempDir(), "missing.git"))

	meta, err := Run(context.Background(), Options{Dir: dir, Patch: true, Logger: discardLogger()})
	assert.Equal(t, ErrCodeExternalCommand, CodeOf(err))
	assert.True(t, meta.Committed)
	assert.True(t, meta.Tagged)
	assert.False(t, meta.Pushed)

	data, err := os.ReadFile(filepath.Join(dir, DefaultVersionFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1.2.4+45")
}
