// Package storage keeps uploaded project images, either on the local disk or
// in a MinIO/S3 bucket, and serves them back under /images/.
package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"time"
)

// ErrNotFound is returned by Open and Remove when no image has the given name.
var ErrNotFound = errors.New("image not found")

// ImageInfo describes one stored image.
type ImageInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Object is an opened image. Content may also implement io.Seeker.
type Object struct {
	Content     io.ReadCloser
	ContentType string
	Info        ImageInfo
}

// ImageStore persists images by file name. Saving an existing name replaces it.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (*Object, error)
	List(ctx context.Context) ([]ImageInfo, error)
	Remove(ctx context.Context, name string) error
}

// CleanName reduces an uploaded file name to its base name. An empty or
// directory-like name yields "".
func CleanName(name string) string {
	name = filepath.Base(filepath.FromSlash(path.Clean("/" + filepath.ToSlash(name))))
	switch name {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	return name
}

// Handler serves GET /images/{name} from store. The router strips the prefix.
func Handler(store ImageStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := CleanName(r.URL.Path)
		if name == "" {
			http.NotFound(w, r)
			return
		}

		obj, err := store.Open(r.Context(), name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, "failed to read image", http.StatusInternalServerError)
			return
		}
		defer obj.Content.Close()

		if obj.ContentType != "" {
			w.Header().Set("Content-Type", obj.ContentType)
		}
		if rs, ok := obj.Content.(io.ReadSeeker); ok {
			http.ServeContent(w, r, obj.Info.Name, obj.Info.ModTime, rs)
			return
		}
		_, _ = io.Copy(w, obj.Content)
	})
}
