package middleware

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/atinyakov/portfolio/internal/storage"
)

const uploadKey ctxKey = "upload"

type ctxKey string

// UploadedImage is the image part of a multipart request. Nothing has been
// written to the image store yet; Open streams the buffered part.
type UploadedImage struct {
	header *multipart.FileHeader
	url    string
}

// Filename is the client file name reduced to its base name.
func (u *UploadedImage) Filename() string { return storage.CleanName(u.header.Filename) }

// ContentType is the part's declared content type.
func (u *UploadedImage) ContentType() string { return u.header.Header.Get("Content-Type") }

// Size is the part size in bytes.
func (u *UploadedImage) Size() int64 { return u.header.Size }

// URL is the public address the image is served from once saved.
func (u *UploadedImage) URL() string { return u.url }

// Open returns the part content.
func (u *UploadedImage) Open() (io.ReadCloser, error) { return u.header.Open() }

// ImageURL derives the public URL of an image called name served by host.
func ImageURL(scheme, host, name string) string {
	return scheme + "://" + host + "/images/" + url.PathEscape(name)
}

// ImageUpload parses multipart requests and, when a file is present under
// field, puts an *UploadedImage into the request context. Only the first file
// of field is used. Requests that are not multipart pass through untouched.
func ImageUpload(field, scheme string, maxMemory int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(maxMemory); err != nil {
				next.ServeHTTP(w, r)
				return
			}
			defer func() { _ = r.MultipartForm.RemoveAll() }()

			files := r.MultipartForm.File[field]
			if len(files) == 0 || storage.CleanName(files[0].Filename) == "" {
				next.ServeHTTP(w, r)
				return
			}

			img := &UploadedImage{header: files[0]}
			img.url = ImageURL(scheme, r.Host, img.Filename())
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), uploadKey, img)))
		})
	}
}

// UploadFromContext returns the image stored by ImageUpload, if any.
func UploadFromContext(ctx context.Context) (*UploadedImage, bool) {
	img, ok := ctx.Value(uploadKey).(*UploadedImage)
	return img, ok
}
