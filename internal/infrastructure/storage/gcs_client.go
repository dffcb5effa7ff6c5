package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

type CloudStorageClient struct {
	client     *storage.Client
	bucketName string
}

func NewCloudStorageClient(ctx context.Context, bucketName, credentialsPath string) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &CloudStorageClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadFile stores the file under folder/ and returns its public URL and
// object path.
func (c *CloudStorageClient) UploadFile(ctx context.Context, file io.Reader, filename, contentType, folder string) (string, string, error) {
	safeName := strings.ReplaceAll(filename, " ", "_")
	objectPath := fmt.Sprintf("%s/%s_%s", folder, uuid.New().String(), safeName)

	obj := c.client.Bucket(c.bucketName).Object(objectPath)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	writer.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return "", "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", "", fmt.Errorf("failed to finalize object: %w", err)
	}

	publicURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectPath)
	return publicURL, objectPath, nil
}

func (c *CloudStorageClient) Delete(ctx context.Context, objectPath string) error {
	return c.client.Bucket(c.bucketName).Object(objectPath).Delete(ctx)
}

func (c *CloudStorageClient) Close() error {
	return c.client.Close()
}
