package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meeting-archive/pkg/config"
)

const rawPrefix = "raw/"

// MinIOClient keeps raw source documents in an S3-compatible bucket so an
// archival run can be replayed or audited.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

// NewMinIOClient creates a new MinIO client and ensures the bucket exists
func NewMinIOClient(ctx context.Context, cfg config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// DocumentKey returns the object key a raw document is stored under
func DocumentKey(documentID string) string {
	return rawPrefix + path.Clean("/" + documentID)[1:] + ".json"
}

// PutDocument stores doc as JSON, tagged with the archival run that fetched it
func (m *MinIOClient) PutDocument(ctx context.Context, runID, documentID string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", documentID, err)
	}

	_, err = m.client.PutObject(ctx, m.bucket, DocumentKey(documentID), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{"run-id": runID},
	})
	if err != nil {
		return fmt.Errorf("failed to upload document %s: %w", documentID, err)
	}
	return nil
}

// GetDocument reads back a stored raw document
func (m *MinIOClient) GetDocument(ctx context.Context, documentID string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, DocumentKey(documentID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", documentID, err)
	}
	return body, nil
}

// ListDocuments lists the IDs of every stored raw document
func (m *MinIOClient) ListDocuments(ctx context.Context) ([]string, error) {
	var ids []string

	objectCh := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    rawPrefix,
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(object.Key, rawPrefix), ".json"))
	}

	return ids, nil
}

// Ping checks the bucket is reachable
func (m *MinIOClient) Ping(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}
