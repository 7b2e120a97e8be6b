package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps images as objects in a single bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// normaliseEndpoint accepts either "minio:9000" or "http(s)://minio:9000".
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	return raw, false, nil
}

// NewMinioStore connects to endpoint and checks that bucket exists.
func NewMinioStore(ctx context.Context, rawEndpoint, accessKey, secretKey, bucket string) (*MinioStore, error) {
	endpoint, secure, err := normaliseEndpoint(rawEndpoint)
	if err != nil {
		return nil, fmt.Errorf("minio endpoint: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("minio bucket does not exist: %s", bucket)
	}

	return &MinioStore{client: client, bucket: bucket}, nil
}

// Save uploads r as object name. size may be -1 when unknown.
func (s *MinioStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	key := CleanName(name)
	if key == "" {
		return fmt.Errorf("invalid image name %q", name)
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// Open streams object name. The returned content is seekable.
func (s *MinioStore) Open(ctx context.Context, name string) (*Object, error) {
	key := CleanName(name)
	if key == "" {
		return nil, ErrNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat object: %w", err)
	}

	return &Object{
		Content:     obj,
		ContentType: st.ContentType,
		Info:        ImageInfo{Name: st.Key, Size: st.Size, ModTime: st.LastModified},
	}, nil
}

// List returns every object in the bucket.
func (s *MinioStore) List(ctx context.Context) ([]ImageInfo, error) {
	var images []ImageInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		images = append(images, ImageInfo{Name: obj.Key, Size: obj.Size, ModTime: obj.LastModified})
	}
	return images, nil
}

// Remove deletes object name. Removing a missing object is not an error in S3.
func (s *MinioStore) Remove(ctx context.Context, name string) error {
	key := CleanName(name)
	if key == "" {
		return fmt.Errorf("invalid image name %q", name)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
