package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultDiskDir    = "./uploads"
	DefaultStaticBase = "/static/uploads"
)

// DiskBackend writes objects below baseDir; the router serves them under staticBase.
type DiskBackend struct {
	baseDir    string
	staticBase string
}

func NewDiskBackend(baseDir, staticBase string) *DiskBackend {
	if baseDir == "" {
		baseDir = DefaultDiskDir
	}
	if staticBase == "" {
		staticBase = DefaultStaticBase
	}
	return &DiskBackend{baseDir: baseDir, staticBase: staticBase}
}

func (b *DiskBackend) Dir() string        { return b.baseDir }
func (b *DiskBackend) StaticBase() string { return b.staticBase }

func (b *DiskBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	absPath := filepath.Join(b.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write file: %w", err)
	}

	return strings.TrimRight(b.staticBase, "/") + "/" + key, nil
}
