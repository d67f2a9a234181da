// Package git provides the version-control collaborators: an in-process
// cloner built on go-git and an executor that shells out to the git binary.
package git

import (
	"context"
	"fmt"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/zjrosen/templater/internal/log"
)

// Compile-time check that GoGitCloner implements Cloner.
var _ Cloner = (*GoGitCloner)(nil)

// GoGitCloner clones repositories in-process with go-git.
type GoGitCloner struct {
	branch    string
	depth     int
	authToken string
}

// Option configures a GoGitCloner.
type Option func(*GoGitCloner)

// WithBranch sets the branch to clone. Empty clones the remote HEAD.
func WithBranch(branch string) Option {
	return func(c *GoGitCloner) { c.branch = branch }
}

// WithDepth sets the clone depth (number of commits). 0 clones full history.
func WithDepth(depth int) Option {
	return func(c *GoGitCloner) { c.depth = depth }
}

// WithAuth sets the token for HTTPS auth (e.g. a GitHub personal access token).
// Used as BasicAuth username "x-access-token" with password token.
func WithAuth(token string) Option {
	return func(c *GoGitCloner) { c.authToken = token }
}

// NewGoGitCloner creates a GoGitCloner with a shallow (depth 1) default.
func NewGoGitCloner(opts ...Option) *GoGitCloner {
	c := &GoGitCloner{depth: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clone clones url into dest. Partially written clones are left for the caller to clean up.
func (c *GoGitCloner) Clone(ctx context.Context, url, dest string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("clone: repository URL must not be empty")
	}

	opts := &gogit.CloneOptions{
		URL:      url,
		Progress: nil,
	}
	if c.branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(c.branch)
		opts.SingleBranch = true
	}
	if c.depth > 0 {
		opts.Depth = c.depth
	}
	if c.authToken != "" {
		opts.Auth = &http.BasicAuth{
			Username: "x-access-token",
			Password: c.authToken,
		}
	}

	if _, err := gogit.PlainCloneContext(ctx, dest, false, opts); err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}

	log.Info(log.CatGit, "cloned repository", "url", url, "dest", dest, "backend", "go-git")
	return nil
}
