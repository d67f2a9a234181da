package templates

import (
	"context"
	"fmt"
	"os"

	"github.com/zjrosen/templater/internal/git"
	"github.com/zjrosen/templater/internal/log"
	"github.com/zjrosen/templater/internal/registry"
)

// Provider saves and loads templates from some source.
type Provider interface {
	// Save imports the template name from source, which is a directory for
	// local providers and a repository URL for git providers.
	Save(ctx context.Context, name, source string, overwrite bool) error
	// Load copies the template name into dest.
	Load(ctx context.Context, name, dest string) error
}

// LocalProvider saves templates from directories on the local filesystem.
type LocalProvider struct {
	store *Store
}

// NewLocalProvider creates a LocalProvider.
func NewLocalProvider(store *Store) *LocalProvider {
	return &LocalProvider{store: store}
}

// Save copies the directory source into the registry as name.
func (p *LocalProvider) Save(ctx context.Context, name, source string, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.store.Save(SaveRequest{Name: name, Source: source, Overwrite: overwrite, Kind: registry.KindLocal})
}

// Load copies the template name into dest.
func (p *LocalProvider) Load(ctx context.Context, name, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.store.Load(name, dest)
}

// GitProvider saves templates from git repositories. The repository is cloned
// into the registry's scratch directory, its working tree is saved without the
// .git directory, and the scratch directory is removed afterwards.
type GitProvider struct {
	store  *Store
	cloner git.Cloner
}

// NewGitProvider creates a GitProvider.
func NewGitProvider(store *Store, cloner git.Cloner) *GitProvider {
	return &GitProvider{store: store, cloner: cloner}
}

// Save clones url and saves its working tree as name.
func (p *GitProvider) Save(ctx context.Context, name, url string, overwrite bool) (err error) {
	rec, err := registry.Guard(p.store.Records())
	if err != nil {
		return err
	}
	if err := registry.ValidateName(name); err != nil {
		return fmt.Errorf("template %q: %w", name, err)
	}

	scratch := rec.ScratchDir()
	if err := os.RemoveAll(scratch); err != nil {
		return fmt.Errorf("clearing %s: %w", scratch, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil && err == nil {
			err = fmt.Errorf("removing %s: %w", scratch, rmErr)
		}
	}()

	log.Debug(log.CatGit, "cloning template", "name", name, "url", url)
	if err := p.cloner.Clone(ctx, url, scratch); err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}

	return p.store.Save(SaveRequest{
		Name:      name,
		Source:    scratch,
		Overwrite: overwrite,
		Kind:      registry.KindRemote,
		Skip:      []string{".git"},
	})
}

// Load copies the template name into dest. Git templates are stored locally
// once saved, so this is the same as a local load.
func (p *GitProvider) Load(ctx context.Context, name, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.store.Load(name, dest)
}
