// Package janitor removes stored blobs that no metadata row references
// anymore. Orphans appear when a process dies between storing files and
// saving metadata, or when a post-delete file cleanup fails.
package janitor

import (
	"context"
	"time"

	"github.com/qolzam/newsroom/internal/pkg/log"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
)

// ReferenceSource yields every blob reference currently reachable from
// metadata for one kind (e.g. news image lists, profile avatars).
type ReferenceSource interface {
	ListBlobRefs(ctx context.Context) ([]string, error)
}

// BlobStore is the subset of the disk provider the janitor needs.
type BlobStore interface {
	List(ctx context.Context, kind string) ([]string, error)
	Delete(ctx context.Context, key string) error
	ModTime(ctx context.Context, key string) (time.Time, error)
}

// Janitor periodically sweeps one blob kind against its reference source.
type Janitor struct {
	store    BlobStore
	kind     string
	source   ReferenceSource
	graceAge time.Duration
	interval time.Duration
}

// New creates a janitor for the given kind.
func New(store BlobStore, kind string, source ReferenceSource, config *platformconfig.JanitorConfig) *Janitor {
	return &Janitor{
		store:    store,
		kind:     kind,
		source:   source,
		graceAge: config.GraceAge,
		interval: config.Interval,
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				log.Error("Janitor sweep failed for kind %s: %v", j.kind, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep deletes unreferenced blobs older than the grace age and returns
// how many were removed. Blobs younger than the grace age are skipped
// because their metadata save may still be in flight. Individual delete
// failures are logged and do not abort the sweep.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	refs, err := j.source.ListBlobRefs(ctx)
	if err != nil {
		return 0, err
	}

	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		referenced[ref] = struct{}{}
	}

	keys, err := j.store.List(ctx, j.kind)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-j.graceAge)
	removed := 0

	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}

		modTime, err := j.store.ModTime(ctx, key)
		if err != nil {
			log.Warn("Janitor could not stat %s: %v", key, err)
			continue
		}
		if modTime.After(cutoff) {
			continue
		}

		if err := j.store.Delete(ctx, key); err != nil {
			log.Error("Janitor failed to delete orphan %s: %v", key, err)
			continue
		}
		log.Info("Janitor removed orphan blob %s", key)
		removed++
	}

	return removed, nil
}
