package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/zjrosen/templater/internal/git"
	"github.com/zjrosen/templater/internal/log"
	"github.com/zjrosen/templater/internal/paths"
	"github.com/zjrosen/templater/internal/registry"
	"github.com/zjrosen/templater/internal/templates"
)

// scpURL matches scp-style git addresses such as git@github.com:owner/repo.git.
var scpURL = regexp.MustCompile(`^[\w.-]+@[\w.-]+:[^/].*$`)

// ParseURL checks that raw is a usable repository address. URLs need a scheme
// and, except for file URLs, a host. scp-style addresses are accepted as is.
func ParseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty URL", registry.ErrInvalidRemoteURL)
	}
	if scpURL.MatchString(raw) {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", registry.ErrInvalidRemoteURL, err)
	}
	switch {
	case u.Scheme == "":
		return "", fmt.Errorf("%w: %q has no scheme", registry.ErrInvalidRemoteURL, raw)
	case u.Scheme != "file" && u.Host == "":
		return "", fmt.Errorf("%w: %q has no host", registry.ErrInvalidRemoteURL, raw)
	}
	return u.String(), nil
}

// SyncRequest describes a catalogue import.
type SyncRequest struct {
	URL string
	// SkipMissing soft-skips manifest entries with no directory in the
	// catalogue instead of aborting.
	SkipMissing bool
}

// Report lists what a sync did.
type Report struct {
	Imported []string
	Skipped  []string
}

// Syncer imports every template listed by a catalogue's manifest.
type Syncer struct {
	store  *templates.Store
	cloner git.Cloner
	out    io.Writer
}

// NewSyncer creates a Syncer. Progress lines are written to out.
func NewSyncer(store *templates.Store, cloner git.Cloner, out io.Writer) *Syncer {
	if out == nil {
		out = io.Discard
	}
	return &Syncer{store: store, cloner: cloner, out: out}
}

// Sync clones req.URL into the scratch directory and saves each template the
// manifest lists as a remote template. Templates that already exist are
// skipped.
//
// Sync is not atomic. Templates saved before an error stay registered, and
// the scratch directory is only removed on success; callers clean it up with
// CleanupScratch.
func (s *Syncer) Sync(ctx context.Context, req SyncRequest) (Report, error) {
	var report Report

	rawURL, err := ParseURL(req.URL)
	if err != nil {
		return report, err
	}

	rec, err := registry.Guard(s.store.Records())
	if err != nil {
		return report, err
	}

	scratch := rec.ScratchDir()
	fmt.Fprintf(s.out, "Cloning template to %s\n", scratch)
	if err := s.cloner.Clone(ctx, rawURL, scratch); err != nil {
		return report, fmt.Errorf("cloning %s: %w", rawURL, err)
	}

	manifest, err := ReadManifest(scratch)
	if err != nil {
		return report, err
	}
	log.Debug(log.CatRemote, "manifest read", "url", rawURL, "templates", len(manifest.Templates))

	for _, name := range manifest.Templates {
		source := filepath.Join(scratch, name)
		if !paths.IsDir(source) {
			if !req.SkipMissing {
				return report, fmt.Errorf("template %q listed in %s: %w", name, ManifestName, registry.ErrTemplateDoesNotExist)
			}
			fmt.Fprintf(s.out, "Template %s from config doesn't exist. Skipping...\n", name)
			log.Warn(log.CatRemote, "manifest entry missing", "name", name)
			report.Skipped = append(report.Skipped, name)
			continue
		}

		err := s.store.Save(templates.SaveRequest{Name: name, Source: source, Kind: registry.KindRemote})
		switch {
		case errors.Is(err, registry.ErrTemplateAlreadyExists):
			fmt.Fprintf(s.out, "Template %s already exists. Skipping...\n", name)
			report.Skipped = append(report.Skipped, name)
		case err != nil:
			return report, err
		default:
			report.Imported = append(report.Imported, name)
		}
	}

	if err := os.RemoveAll(scratch); err != nil {
		return report, fmt.Errorf("removing %s: %w", scratch, err)
	}

	log.Info(log.CatRemote, "sync complete", "url", rawURL, "imported", len(report.Imported), "skipped", len(report.Skipped))
	return report, nil
}

// CleanupScratch removes the scratch directory left behind by a failed sync
// and returns cause. A missing scratch directory or an unreadable record is
// not an error; cleanup failures are logged and cause is still returned.
func CleanupScratch(records registry.Store, cause error) error {
	rec, err := records.Load()
	if err != nil || rec.TemplateRoot == "" {
		return cause
	}

	scratch := rec.ScratchDir()
	if err := os.RemoveAll(scratch); err != nil {
		log.ErrorErr(log.CatRemote, "scratch cleanup failed", err, "dir", scratch)
		return cause
	}
	log.Debug(log.CatRemote, "scratch cleaned up", "dir", scratch)
	return cause
}
