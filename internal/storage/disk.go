package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// DiskStore keeps images as plain files in one directory.
type DiskStore struct {
	Dir string
}

// NewDiskStore creates dir if needed and returns a store rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &DiskStore{Dir: dir}, nil
}

func (s *DiskStore) path(name string) (string, error) {
	clean := CleanName(name)
	if clean == "" {
		return "", fmt.Errorf("invalid image name %q", name)
	}
	return filepath.Join(s.Dir, clean), nil
}

// Save writes r to Dir/name, truncating any file already there.
func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close image: %w", err)
	}
	return nil
}

// Open returns the file; the content type is guessed from the extension.
func (s *DiskStore) Open(ctx context.Context, name string) (*Object, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, ErrNotFound
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, ErrNotFound
	}

	return &Object{
		Content:     f,
		ContentType: mime.TypeByExtension(filepath.Ext(p)),
		Info:        ImageInfo{Name: st.Name(), Size: st.Size(), ModTime: st.ModTime()},
	}, nil
}

// List returns every regular file in Dir.
func (s *DiskStore) List(ctx context.Context) ([]ImageInfo, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read image dir: %w", err)
	}

	images := make([]ImageInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		images = append(images, ImageInfo{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return images, nil
}

// Remove deletes Dir/name.
func (s *DiskStore) Remove(ctx context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}
