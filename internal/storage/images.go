// Package storage keeps worker gallery images in object storage (MinIO) or on local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxImageSize = 5 * 1024 * 1024

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Backend persists an object under key and returns its public URL.
type Backend interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type ImageStore struct {
	backend Backend
}

func NewImageStore(backend Backend) *ImageStore {
	return &ImageStore{backend: backend}
}

// Upload validates the file by size and sniffed content type, then stores it under the owner's prefix.
func (s *ImageStore) Upload(ctx context.Context, ownerID string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}
	if fileHeader.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	mimeType, ext, ok := allowedImageType(detected)
	if !ok {
		return "", ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	key := fmt.Sprintf("workers/%s/%s_%s%s", ownerID, uuid.NewString(), sanitizeName(fileHeader.Filename), ext)
	url, err := s.backend.Put(ctx, key, file, fileHeader.Size, mimeType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

func allowedImageType(m *mimetype.MIME) (string, string, bool) {
	for mimeType, ext := range allowedImageTypes {
		if m.Is(mimeType) {
			return mimeType, ext, true
		}
	}
	return "", "", false
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" || name == "." {
		return "image"
	}
	return name
}
