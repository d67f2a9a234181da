package remote

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/zjrosen/templater/internal/fscopy"
	"github.com/zjrosen/templater/internal/git"
	"github.com/zjrosen/templater/internal/log"
	"github.com/zjrosen/templater/internal/registry"
)

// PublishRequest describes a publish.
type PublishRequest struct {
	Name string
	URL  string
}

// Publisher adds a saved template to a catalogue repository: it clones the
// catalogue, copies the template in, lists it in the manifest and pushes a
// commit. Pushing uses the user's git credentials.
type Publisher struct {
	records registry.Store
	git     git.GitExecutor
	fs      billy.Filesystem
	out     io.Writer
}

// NewPublisher creates a Publisher.
func NewPublisher(records registry.Store, executor git.GitExecutor, out io.Writer) *Publisher {
	if out == nil {
		out = io.Discard
	}
	return &Publisher{records: records, git: executor, fs: fscopy.OS(), out: out}
}

// Publish pushes the template req.Name to the catalogue at req.URL. The
// catalogue must not already list the template. The scratch clone is removed
// on every path.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (err error) {
	rawURL, err := ParseURL(req.URL)
	if err != nil {
		return err
	}

	rec, err := registry.Guard(p.records)
	if err != nil {
		return err
	}
	if _, ok := rec.Find(req.Name); !ok {
		return fmt.Errorf("template %q: %w", req.Name, registry.ErrTemplateDoesNotExist)
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

	fmt.Fprintf(p.out, "Cloning template to %s\n", scratch)
	if err := p.git.Clone(ctx, rawURL, scratch); err != nil {
		return fmt.Errorf("cloning %s: %w", rawURL, err)
	}
	if !p.git.IsGitRepo(ctx, scratch) {
		return fmt.Errorf("clone of %s at %s: %w", rawURL, scratch, git.ErrNotGitRepo)
	}

	manifest, err := ReadManifest(scratch)
	if err != nil {
		return err
	}
	if manifest.Contains(req.Name) {
		return fmt.Errorf("template %q in %s: %w", req.Name, rawURL, registry.ErrTemplateAlreadyExists)
	}

	if err := fscopy.CopyTree(p.fs, rec.TemplateDir(req.Name), p.fs.Join(scratch, req.Name)); err != nil {
		return fmt.Errorf("copying template %q: %w", req.Name, err)
	}
	manifest.Add(req.Name)
	if err := WriteManifest(scratch, manifest); err != nil {
		return err
	}

	if err := p.git.Add(ctx, scratch, req.Name, ManifestName); err != nil {
		return fmt.Errorf("staging template %q: %w", req.Name, err)
	}
	if err := p.git.Commit(ctx, scratch, "Add template "+req.Name); err != nil {
		return fmt.Errorf("committing template %q: %w", req.Name, err)
	}
	if err := p.git.Push(ctx, scratch); err != nil {
		return fmt.Errorf("pushing template %q: %w", req.Name, err)
	}

	fmt.Fprintf(p.out, "Template %s added successfully\n", req.Name)
	log.Info(log.CatRemote, "template published", "name", req.Name, "url", rawURL)
	return nil
}
