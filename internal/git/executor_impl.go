package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/zjrosen/templater/internal/log"
)

// Git-specific errors.
var (
	// ErrNotGitRepo indicates the directory is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrPathAlreadyExists indicates the clone destination already exists and is not empty.
	ErrPathAlreadyExists = errors.New("destination path already exists")

	// ErrRepositoryNotFound indicates the remote repository does not exist or is unreachable.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrAuthentication indicates the remote rejected or requested credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNothingToCommit indicates there were no staged changes.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrPushRejected indicates the remote refused the push.
	ErrPushRejected = errors.New("push rejected")
)

// Compile-time checks that RealExecutor implements GitExecutor and Cloner.
var (
	_ GitExecutor = (*RealExecutor)(nil)
	_ Cloner      = (*RealExecutor)(nil)
)

// RealExecutor implements GitExecutor by executing actual git commands.
// Pushes use the user's own git configuration and credential helpers.
type RealExecutor struct {
	workDir string
	depth   int
	branch  string
}

// ExecOption configures a RealExecutor.
type ExecOption func(*RealExecutor)

// WithExecDepth sets the clone depth. 0 clones full history.
func WithExecDepth(depth int) ExecOption {
	return func(e *RealExecutor) { e.depth = depth }
}

// WithExecBranch sets the branch to clone. Empty clones the remote HEAD.
func WithExecBranch(branch string) ExecOption {
	return func(e *RealExecutor) { e.branch = branch }
}

// NewRealExecutor creates a new RealExecutor. workDir is used when an
// operation is not given a directory.
func NewRealExecutor(workDir string, opts ...ExecOption) *RealExecutor {
	e := &RealExecutor{workDir: workDir}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// runGit executes a git command and returns an error if it fails.
func (e *RealExecutor) runGit(ctx context.Context, dir string, args ...string) error {
	_, err := e.runGitOutput(ctx, dir, args...)
	return err
}

// runGitOutput executes a git command and returns stdout and any error.
func (e *RealExecutor) runGitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	//nolint:gosec // G204: args come from controlled sources
	cmd := exec.CommandContext(ctx, "git", args...)
	switch {
	case dir != "":
		cmd.Dir = dir
	case e.workDir != "":
		cmd.Dir = e.workDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug(log.CatGit, "running git", "args", strings.Join(args, " "), "dir", cmd.Dir)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("git %s: %w", args[0], ctxErr)
		}
		// git commit reports "nothing to commit" on stdout
		combined := strings.TrimSpace(stderr.String() + "\n" + stdout.String())
		if combined != "" {
			return "", parseGitError(combined, err)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// parseGitError converts git output to specific error types.
func parseGitError(output string, originalErr error) error {
	lower := strings.ToLower(output)

	switch {
	case strings.Contains(lower, "not a git repository"):
		return fmt.Errorf("%w: %s", ErrNotGitRepo, output)
	case strings.Contains(lower, "already exists and is not an empty directory"):
		return fmt.Errorf("%w: %s", ErrPathAlreadyExists, output)
	case strings.Contains(lower, "authentication failed"),
		strings.Contains(lower, "could not read username"),
		strings.Contains(lower, "permission denied (publickey)"):
		return fmt.Errorf("%w: %s", ErrAuthentication, output)
	case strings.Contains(lower, "repository not found"),
		strings.Contains(lower, "does not appear to be a git repository"),
		strings.Contains(lower, "does not exist"):
		return fmt.Errorf("%w: %s", ErrRepositoryNotFound, output)
	case strings.Contains(lower, "nothing to commit"):
		return fmt.Errorf("%w: %s", ErrNothingToCommit, output)
	case strings.Contains(lower, "[rejected]"),
		strings.Contains(lower, "failed to push"):
		return fmt.Errorf("%w: %s", ErrPushRejected, output)
	}

	return fmt.Errorf("git error: %s: %w", output, originalErr)
}

// Clone runs git clone url dest.
func (e *RealExecutor) Clone(ctx context.Context, url, dest string) error {
	args := []string{"clone", "--quiet"}
	if e.depth > 0 {
		args = append(args, "--depth", strconv.Itoa(e.depth))
	}
	if e.branch != "" {
		args = append(args, "--branch", e.branch)
	}
	args = append(args, "--", url, dest)

	if err := e.runGit(ctx, "", args...); err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}
	log.Info(log.CatGit, "cloned repository", "url", url, "dest", dest, "backend", "exec")
	return nil
}

// Add stages paths in the repository at dir.
func (e *RealExecutor) Add(ctx context.Context, dir string, paths ...string) error {
	args := append([]string{"add", "--"}, paths...)
	return e.runGit(ctx, dir, args...)
}

// Commit records staged changes with message.
func (e *RealExecutor) Commit(ctx context.Context, dir, message string) error {
	return e.runGit(ctx, dir, "commit", "--quiet", "-m", message)
}

// Push pushes HEAD to the upstream of the current branch.
func (e *RealExecutor) Push(ctx context.Context, dir string) error {
	return e.runGit(ctx, dir, "push", "--quiet")
}

// IsGitRepo checks if dir is a git repository.
func (e *RealExecutor) IsGitRepo(ctx context.Context, dir string) bool {
	return e.runGit(ctx, dir, "rev-parse", "--git-dir") == nil
}
