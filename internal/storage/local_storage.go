package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localStorage writes objects under a base directory on disk. The
// returned paths are relative keys like "properties/<uuid>.jpg" which
// the router serves under the configured upload base URL.
type localStorage struct {
	baseDir string
}

// NewLocalStorage creates the base directory if needed and returns a
// disk-backed storage.
func NewLocalStorage(baseDir string) (IStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", baseDir, err)
	}
	return &localStorage{baseDir: baseDir}, nil
}

func (s *localStorage) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	key := objectKey(folder, filename)
	full := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create dir for %s: %w", key, err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("failed to write file %s: %w", key, err)
	}
	return key, nil
}

func (s *localStorage) Put(ctx context.Context, storedPath string, r io.Reader) error {
	clean := filepath.Clean(filepath.FromSlash(storedPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid stored path %q", storedPath)
	}
	full := filepath.Join(s.baseDir, clean)

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", storedPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write file %s: %w", storedPath, err)
	}
	return nil
}

func (s *localStorage) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	clean := filepath.Clean(filepath.FromSlash(storedPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid stored path %q", storedPath)
	}
	f, err := os.Open(filepath.Join(s.baseDir, clean))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", storedPath, err)
	}
	return f, nil
}

func (s *localStorage) Delete(ctx context.Context, storedPath string) error {
	clean := filepath.Clean(filepath.FromSlash(storedPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid stored path %q", storedPath)
	}
	if err := os.Remove(filepath.Join(s.baseDir, clean)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", storedPath, err)
	}
	return nil
}
