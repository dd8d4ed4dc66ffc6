package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// CloudinaryStore uploads media to Cloudinary
type CloudinaryStore struct {
	uploader *uploader.API
	folder   string
}

// NewCloudinaryStore creates a Cloudinary store
func NewCloudinaryStore(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStore, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary uploader: %w", err)
	}
	return &CloudinaryStore{uploader: up, folder: folder}, nil
}

// Upload implements Store. Audio is stored as a video resource, which is how
// Cloudinary handles sound files.
func (c *CloudinaryStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	resourceType := "image"
	if !strings.HasPrefix(contentType, "image/") {
		resourceType = "video"
	}

	dir, file := path.Split(key)
	publicID := strings.TrimSuffix(file, path.Ext(file))

	result, err := c.uploader.Upload(ctx, body, uploader.UploadParams{
		Folder:       path.Join(c.folder, dir),
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload %s: %s", key, result.Error.Message)
	}
	return result.SecureURL, nil
}
