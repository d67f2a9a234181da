package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireGit skips the test when the git binary is not available.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// SetGitIdentity sets author and committer identity for git child processes.
func SetGitIdentity(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_AUTHOR_NAME", "test")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@test")
	t.Setenv("GIT_COMMITTER_NAME", "test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@test")
}

// Git runs a git command in dir and fails the test on error.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...) //nolint:gosec // test helper
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return string(out)
}

// InitRepo creates a git repository in dir on branch main with one commit
// containing files.
func InitRepo(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	RequireGit(t)
	WriteTree(t, dir, files)
	Git(t, dir, "init", "-q")
	Git(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	Git(t, dir, "add", ".")
	Git(t, dir, "commit", "-q", "-m", "init")
	return dir
}

// InitBareRemote creates a bare repository whose main branch holds files,
// returning the bare repository path.
func InitBareRemote(t *testing.T, base string, files map[string]string) string {
	t.Helper()
	RequireGit(t)
	bare := filepath.Join(base, "remote.git")
	require.NoError(t, os.MkdirAll(bare, 0o755))
	Git(t, bare, "init", "-q", "--bare")
	Git(t, bare, "symbolic-ref", "HEAD", "refs/heads/main")

	seed := InitRepo(t, filepath.Join(base, "seed"), files)
	Git(t, seed, "remote", "add", "origin", bare)
	Git(t, seed, "push", "-q", "origin", "HEAD:refs/heads/main")
	return bare
}
