package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores images on the Cloudinary media host.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	cld.Config.URL.Secure = true
	if folder == "" {
		folder = "blog_images"
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Name() string { return "cloudinary" }

func (c *Cloudinary) Upload(ctx context.Context, f File) (Asset, error) {
	resp, err := c.cld.Upload.Upload(ctx, f.Body, uploader.UploadParams{
		Folder:         c.folder,
		ResourceType:   "image",
		AllowedFormats: api.CldAPIArray(AllowedFormats),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return Asset{}, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" || resp.PublicID == "" {
		return Asset{}, errors.New("cloudinary upload: empty response")
	}
	return Asset{URL: resp.SecureURL, Handle: resp.PublicID}, nil
}

// Delete destroys the asset. Cloudinary answers "not found" for unknown ids,
// which counts as success.
func (c *Cloudinary) Delete(ctx context.Context, handle string) error {
	resp, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: handle})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}
	return nil
}
