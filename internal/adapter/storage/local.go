package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nwakalordivine/AgriEase-AI/internal/domain/service"
)

// LocalStorage writes uploads to a directory served by the API itself
type LocalStorage struct {
	dir           string
	publicBaseURL string
}

// NewLocalStorage creates a local storage backend rooted at dir. Files are
// reachable at publicBaseURL/<name>.
func NewLocalStorage(dir, publicBaseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, publicBaseURL: publicBaseURL}, nil
}

var _ service.ObjectStorage = (*LocalStorage)(nil)

// Dir returns the directory uploads are written to
func (s *LocalStorage) Dir() string { return s.dir }

// SaveFile implements service.ObjectStorage
func (s *LocalStorage) SaveFile(ctx context.Context, upload *service.Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := objectName(upload.Filename, upload.ContentType)
	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, upload.Body); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return joinURL(s.publicBaseURL, name), nil
}
