package registry

import (
	"errors"
	"fmt"
	"os"

	"github.com/zjrosen/templater/internal/log"
)

// Guard loads the record and runs Check on it. Every operation that touches
// the registry goes through Guard first.
func Guard(store Store) (*Record, error) {
	rec, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	if err := Check(store, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Check validates rec. An uninitialized record, or one whose template root is
// gone, is corrupt: the persisted record is rolled back and ErrNotInitialized
// returned so that the next init starts clean.
func Check(store Store, rec *Record) error {
	reason := ""
	switch {
	case !rec.Initialized:
		reason = "record not initialized"
	case rec.TemplateRoot == "":
		reason = "template root not set"
	default:
		info, err := os.Stat(rec.TemplateRoot)
		if err != nil || !info.IsDir() {
			reason = "template root missing"
		}
	}
	if reason == "" {
		return nil
	}

	log.Warn(log.CatRegistry, "registry inconsistent, rolling back", "reason", reason, "root", rec.TemplateRoot)
	if err := Rollback(store); err != nil {
		return err
	}
	return ErrNotInitialized
}

// Rollback deletes the record's backing directory if it exists. Failures are
// reported as ErrConfigLocation wrapping the cause.
func Rollback(store Store) error {
	if err := store.Remove(); err != nil {
		log.ErrorErr(log.CatRegistry, "rollback failed", err)
		if errors.Is(err, ErrConfigLocation) {
			return fmt.Errorf("rolling back registry: %w", err)
		}
		return fmt.Errorf("rolling back registry: %w: %w", ErrConfigLocation, err)
	}
	return nil
}
