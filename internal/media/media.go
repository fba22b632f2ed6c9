// Package media uploads post images to the configured host and releases them again.
//
// Exactly one backend is active per deployment: Cloudinary when credentials are
// configured, otherwise the local uploads directory.
package media

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
)

// MaxUploadSize bounds a single image upload.
const MaxUploadSize = 10 << 20 // 10MB

// AllowedFormats are the image extensions accepted for upload.
var AllowedFormats = []string{"jpg", "jpeg", "png", "gif", "webp"}

// File is an image received from a client.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Asset is a stored image: its public URL and the handle needed to delete it.
type Asset struct {
	URL    string
	Handle string
}

// Store is an image host.
type Store interface {
	// Name identifies the backend in logs.
	Name() string
	Upload(ctx context.Context, f File) (Asset, error)
	// Delete releases handle. Deleting an unknown handle is not an error.
	Delete(ctx context.Context, handle string) error
}

// ValidateImage rejects files whose extension or declared type is not an allowed image format.
func ValidateImage(name, contentType string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if !allowedFormat(ext) {
		return apperror.Validation("unsupported image format; allowed: " + strings.Join(AllowedFormats, ", "))
	}
	if contentType != "" && contentType != "application/octet-stream" && !strings.HasPrefix(contentType, "image/") {
		return apperror.Validation("uploaded file is not an image")
	}
	return nil
}

func allowedFormat(ext string) bool {
	for _, f := range AllowedFormats {
		if ext == f {
			return true
		}
	}
	return false
}
