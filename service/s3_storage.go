package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Storage keeps templates as objects in one bucket.
// References have the form s3://<bucket>/<key>.
type S3Storage struct {
	client *s3.Client
	bucket string
}

// Ensure S3Storage implements AssetStorageInterface
var _ AssetStorageInterface = (*S3Storage)(nil)

// NewS3Storage loads the default AWS config and creates a bucket client
func NewS3Storage(ctx context.Context, bucket string) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &S3Storage{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Upload puts the object under templates/<name>
func (s *S3Storage) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := "templates/" + name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	log.Printf("✓ Uploaded s3://%s/%s (%d bytes)", s.bucket, key, len(data))
	return "s3://" + s.bucket + "/" + key, nil
}

// Download reads the object behind ref
func (s *S3Storage) Download(ctx context.Context, ref string) ([]byte, error) {
	key, err := s.key(ref)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("object %s: %w", key, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}

// Delete removes the object behind ref
func (s *S3Storage) Delete(ctx context.Context, ref string) error {
	key, err := s.key(ref)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) key(ref string) (string, error) {
	prefix := "s3://" + s.bucket + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", fmt.Errorf("reference %q does not belong to bucket %s", ref, s.bucket)
	}
	return strings.TrimPrefix(ref, prefix), nil
}
