package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"twibbon-campaign/config"
)

// ErrAssetNotFound is returned when a stored template does not exist
var ErrAssetNotFound = errors.New("asset not found")

// AssetStorageInterface defines the contract for template file storage.
// Upload returns a reference that is saved as the campaign template URL and
// later passed back to Download and Delete.
type AssetStorageInterface interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
	Download(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// NewAssetStorage selects the storage backend named by STORAGE_TYPE
func NewAssetStorage(ctx context.Context, cfg *config.Config) (AssetStorageInterface, error) {
	var (
		storage AssetStorageInterface
		err     error
	)
	switch cfg.StorageType {
	case config.StorageDrive:
		storage, err = NewDriveService(ctx, cfg.CredentialsPath, cfg.DriveFolderID)
	case config.StorageS3:
		storage, err = NewS3Storage(ctx, cfg.S3BucketName)
	case config.StorageLocal:
		storage, err = NewLocalStorage(cfg.LocalStoragePath)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.StorageType)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("✓ Using %s storage for templates", cfg.StorageType)
	return storage, nil
}
