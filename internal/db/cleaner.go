package db

import (
	"context"
	"database/sql"
	"net/url"
	"path"
	"time"

	"github.com/atinyakov/portfolio/internal/storage"
	"go.uber.org/zap"
)

// ImageStore is the part of storage.ImageStore the cleaner needs.
type ImageStore interface {
	List(ctx context.Context) ([]storage.ImageInfo, error)
	Remove(ctx context.Context, name string) error
}

// StartOrphanImageCleaner periodically removes stored images that no project
// references. images must not be shared with anything else: every
// unreferenced entry is eligible. Images younger than retention are kept so an upload whose
// project row is still being written is never removed.
func StartOrphanImageCleaner(
	ctx context.Context,
	db *sql.DB,
	images ImageStore,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := cleanOrphanImages(ctx, db, images, time.Now().Add(-retention))
				if err != nil {
					log.Error("failed to clean orphan images", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("cleaned orphan images", zap.Int("removed", removed))
				}
			}
		}
	}()
}

func cleanOrphanImages(ctx context.Context, db *sql.DB, images ImageStore, cutoff time.Time) (int, error) {
	referenced, err := referencedImages(ctx, db)
	if err != nil {
		return 0, err
	}

	stored, err := images.List(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, img := range stored {
		if _, ok := referenced[img.Name]; ok || img.ModTime.After(cutoff) {
			continue
		}
		if err := images.Remove(ctx, img.Name); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// referencedImages returns the file names behind every project image URL.
func referencedImages(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `SELECT image FROM projects WHERE image <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var image string
		if err := rows.Scan(&image); err != nil {
			return nil, err
		}
		names[imageName(image)] = struct{}{}
	}
	return names, rows.Err()
}

func imageName(image string) string {
	if u, err := url.Parse(image); err == nil && u.Path != "" {
		image = u.Path
	}
	name := path.Base(image)
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
