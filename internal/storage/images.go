// Package storage saves uploaded product images on local disk and
// derives thumbnails for listing views.
package storage

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/Arzion032/binhi-fms-backend/internal/config"
)

var (
	ErrTooLarge        = errors.New("image exceeds the size limit")
	ErrUnsupportedType = errors.New("unsupported image type")
)

const thumbsSubdir = "thumbs"

type ImageStore struct {
	dir         string
	baseURL     string
	maxSize     int64
	thumbnailPx int
}

func NewImageStore(cfg config.UploadsConfig) (*ImageStore, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Dir, thumbsSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &ImageStore{
		dir:         cfg.Dir,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		maxSize:     cfg.MaxSizeBytes,
		thumbnailPx: cfg.ThumbnailPx,
	}, nil
}

// Dir is the on-disk root, exposed so the router can serve it statically.
func (s *ImageStore) Dir() string { return s.dir }

// BaseURL is the public path prefix images are served under.
func (s *ImageStore) BaseURL() string { return s.baseURL }

// Save writes the uploaded image and a thumbnail, returning their public
// URLs. Only JPEG and PNG are accepted.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (imageURL, thumbnailURL string, err error) {
	if s.maxSize > 0 && header.Size > s.maxSize {
		return "", "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		return "", "", ErrUnsupportedType
	}

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}

	name := uuid.NewString() + ext
	fullPath := filepath.Join(s.dir, name)
	thumbPath := filepath.Join(s.dir, thumbsSubdir, name)

	if err := imaging.Save(img, fullPath); err != nil {
		return "", "", fmt.Errorf("save image: %w", err)
	}

	thumb := imaging.Thumbnail(img, s.thumbnailPx, s.thumbnailPx, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath); err != nil {
		os.Remove(fullPath)
		return "", "", fmt.Errorf("save thumbnail: %w", err)
	}

	return s.baseURL + "/" + name, s.baseURL + "/" + thumbsSubdir + "/" + name, nil
}

// Remove deletes an image and its thumbnail given either public URL. A
// missing file is not an error.
func (s *ImageStore) Remove(imageURL string) error {
	name := filepath.Base(imageURL)
	if name == "." || name == "/" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, thumbsSubdir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
