package media

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
)

// Cache materializes stored media blobs into files, named after their sighting.
// Files are written once, on the first miss, and never invalidated: should a blob ever change for the same id, the
// stale file is served indefinitely.
type Cache struct {
	store     Store
	urlPrefix string
}

func NewCache(store Store, urlPrefix string) *Cache {
	return &Cache{store: store, urlPrefix: urlPrefix}
}

// FileName returns the deterministic name of the file holding the media for the given sighting.
func FileName(id int64, content []byte) string {
	return fmt.Sprintf("%d_uploaded%s", id, Extension(content))
}

// Materialize ensures a file exists for the sighting's media and returns its public path.
// Concurrent first views of the same id may both write; the content is identical so the last write wins harmlessly.
func (c *Cache) Materialize(ctx context.Context, id int64, content []byte) (string, error) {
	var name = FileName(id, content)

	exists, err := c.store.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if !exists {
		if err = c.store.Put(ctx, name, content); err != nil {
			return "", fmt.Errorf("materializing media for sighting %d: %w", id, err)
		}
	}

	if c.urlPrefix == "" {
		return name, nil
	}
	return strings.TrimSuffix(c.urlPrefix, "/") + "/" + name, nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
