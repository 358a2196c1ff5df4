// Package storage wraps the binary object store for uploaded files (visit
// photos, scanned PDFs). Callers treat returned URLs as opaque strings.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("storage: object store not configured")

// ObjectStore is the minimal surface the console needs.
type ObjectStore interface {
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryStore uploads under a fixed folder namespace and returns public
// HTTPS URLs.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("storage: init cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	publicID := fmt.Sprintf("%s/%s_%s", s.folder, base, uuid.NewString())
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: publicID,
		Folder:   s.folder,
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload: %w", err)
	}
	url := res.SecureURL
	if url == "" {
		url = strings.Replace(res.URL, "http://", "https://", 1)
	}
	return url, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("storage: delete: %w", err)
	}
	return nil
}
