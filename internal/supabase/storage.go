package supabase

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewStorageClient(supabaseURL, serviceKey, bucket string) (*StorageClient, error) {
	// Ensure URL doesn't have trailing slash
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
		now:     time.Now,
	}, nil
}

// Upload pushes the file bytes to the bucket under a unique object name and
// returns the public URL of the stored object. The URL is the durable
// reference the rest of the system treats as opaque.
func (s *StorageClient) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	objectKey := "orders/" + UniqueObjectName(s.now().UTC(), filename)

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upsert := false
	_, err := s.client.UploadFile(s.bucket, objectKey, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.GetPublicURL(objectKey), nil
}

func (s *StorageClient) GetPublicURL(objectKey string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, objectKey)
}

// UniqueObjectName derives a collision-free object name from the upload time
// and the original file name.
func UniqueObjectName(t time.Time, filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d_%s", t.UnixNano(), base)
}
