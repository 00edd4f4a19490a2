package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const driveURLPrefix = "https://drive.google.com/uc?id="

// DriveService stores templates in a Google Drive folder
type DriveService struct {
	client   *drive.Service
	folderID string
}

// Ensure DriveService implements AssetStorageInterface
var _ AssetStorageInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath, folderID string) (*DriveService, error) {
	// option.WithCredentialsFile automatically handles Service Account authentication
	driveService, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client:   driveService,
		folderID: folderID,
	}, nil
}

// Upload creates the file, shares it read-only with anyone and returns its public URL
func (ds *DriveService) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	log.Printf("📤 Uploading %s to Drive (%d bytes)", name, len(data))

	file := &drive.File{Name: name, MimeType: contentType}
	if ds.folderID != "" {
		file.Parents = []string{ds.folderID}
	}

	created, err := ds.client.Files.Create(file).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if _, err := ds.client.Permissions.Create(created.Id, perm).Context(ctx).Do(); err != nil {
		log.Printf("⚠️  Could not share %s publicly: %v", created.Id, err)
	}

	log.Printf("✓ Uploaded %s as %s", name, created.Id)
	return driveURLPrefix + created.Id, nil
}

// Download fetches the file content behind ref
func (ds *DriveService) Download(ctx context.Context, ref string) ([]byte, error) {
	fileID, err := driveFileID(ref)
	if err != nil {
		return nil, err
	}

	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("drive file %s: %w", fileID, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

// Delete removes the file behind ref
func (ds *DriveService) Delete(ctx context.Context, ref string) error {
	fileID, err := driveFileID(ref)
	if err != nil {
		return err
	}
	if err := ds.client.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	log.Printf("🗑️  Deleted Drive file %s", fileID)
	return nil
}

// driveFileID accepts a bare file id or a drive.google.com URL with an id parameter
func driveFileID(ref string) (string, error) {
	if !strings.Contains(ref, "://") {
		if ref == "" {
			return "", fmt.Errorf("empty drive file id")
		}
		return ref, nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid drive url %q: %w", ref, err)
	}
	id := u.Query().Get("id")
	if id == "" {
		return "", fmt.Errorf("drive url %q has no file id", ref)
	}
	return id, nil
}
