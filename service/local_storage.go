package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const localRefPrefix = "local:"

// LocalStorage keeps templates as files under a base directory
type LocalStorage struct {
	basePath string
}

// Ensure LocalStorage implements AssetStorageInterface
var _ AssetStorageInterface = (*LocalStorage)(nil)

// NewLocalStorage creates basePath when missing
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Upload writes data to <basePath>/<name>
func (s *LocalStorage) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Printf("💾 Stored template %s (%d bytes)", path, len(data))
	return localRefPrefix + name, nil
}

// Download reads the file behind ref
func (s *LocalStorage) Download(ctx context.Context, ref string) ([]byte, error) {
	path, err := s.path(strings.TrimPrefix(ref, localRefPrefix))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", path, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Delete removes the file behind ref; a missing file is not an error
func (s *LocalStorage) Delete(ctx context.Context, ref string) error {
	path, err := s.path(strings.TrimPrefix(ref, localRefPrefix))
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// path rejects names that would escape the base directory
func (s *LocalStorage) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	return filepath.Join(s.basePath, name), nil
}
