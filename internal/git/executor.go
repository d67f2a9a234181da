package git

import "context"

// Cloner clones a repository into a local directory.
type Cloner interface {
	// Clone clones url into dest. dest must not exist or be empty.
	Clone(ctx context.Context, url, dest string) error
}

// GitExecutor defines the git operations used to publish templates to a
// catalogue repository. This abstraction allows for easy testing with mock
// implementations.
type GitExecutor interface {
	Cloner
	// Add stages paths (relative to dir) in the repository at dir.
	Add(ctx context.Context, dir string, paths ...string) error
	// Commit records staged changes in the repository at dir.
	// Returns ErrNothingToCommit when nothing is staged.
	Commit(ctx context.Context, dir, message string) error
	// Push pushes the current branch of the repository at dir to its upstream.
	Push(ctx context.Context, dir string) error
	// IsGitRepo reports whether dir is inside a git work tree.
	IsGitRepo(ctx context.Context, dir string) bool
}
