// Package storage implements the document upload collaborator consumed by the
// signup wizard: upload a file under a category, get back an opaque URL.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StorageService is the upload contract. The wizard only cares that required
// uploads come back as non-empty URLs.
type StorageService interface {
	Upload(ctx context.Context, file io.Reader, category string) (string, error)
}

// CloudinaryStorageService implements StorageService on Cloudinary.
type CloudinaryStorageService struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryStorageService builds the service from a CLOUDINARY_URL-style
// connection string.
func NewCloudinaryStorageService(cloudinaryURL string) (*CloudinaryStorageService, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary url not configured")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorageService{client: cld}, nil
}

func (s *CloudinaryStorageService) Upload(ctx context.Context, file io.Reader, category string) (string, error) {
	resp, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: category,
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	return resp.SecureURL, nil
}
