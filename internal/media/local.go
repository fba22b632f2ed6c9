package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 85
)

// Local stores images in a directory served under urlPrefix.
type Local struct {
	dir       string
	urlPrefix string
}

// NewLocal ensures dir exists and returns a Local backend.
func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Local{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (l *Local) Name() string { return "local" }

// Dir is the directory images are written to.
func (l *Local) Dir() string { return l.dir }

func (l *Local) Upload(ctx context.Context, f File) (Asset, error) {
	if err := ctx.Err(); err != nil {
		return Asset{}, err
	}
	data, err := io.ReadAll(io.LimitReader(f.Body, MaxUploadSize+1))
	if err != nil {
		return Asset{}, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxUploadSize {
		return Asset{}, errors.New("image too large (max 10MB)")
	}

	ext := strings.ToLower(filepath.Ext(f.Name))
	data, ext, err = processImage(data, ext)
	if err != nil {
		return Asset{}, err
	}

	filename := uniqueFilename(f.Name, ext)
	if err := os.WriteFile(filepath.Join(l.dir, filename), data, 0o644); err != nil {
		return Asset{}, fmt.Errorf("write image: %w", err)
	}
	return Asset{URL: l.urlPrefix + "/" + filename, Handle: filename}, nil
}

func (l *Local) Delete(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := filepath.Base(handle)
	if name == "." || name == string(filepath.Separator) {
		return nil
	}
	err := os.Remove(filepath.Join(l.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// formatExt maps the decoder names registered above to stored extensions.
var formatExt = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// processImage checks that data is a decodable image and downscales anything
// wider than maxImageWidth to a JPEG. Narrow images are kept byte-for-byte
// under the extension of their decoded format.
func processImage(data []byte, ext string) ([]byte, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= maxImageWidth {
		if e, ok := formatExt[format]; ok {
			ext = e
		}
		return data, ext, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	newH := bounds.Dy() * maxImageWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), ".jpg", nil
}

func uniqueFilename(original, ext string) string {
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	if base == "" {
		base = "image"
	}
	return base + "-" + uuid.NewString()[:8] + ext
}
