package media

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"path/filepath"

	"socialapi/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/policy"
)

const objectPrefix = "posts/"

type MinioStore struct {
	client     *minio.Client
	bucketName string
}

func NewMinioStore(ctx context.Context, cfg config.MinIO) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinioStore{client: client, bucketName: cfg.BucketName}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	// Object URLs are handed to browsers as-is, so uploads must be anonymously readable.
	// Buckets that already exist keep whatever policy the operator gave them.
	doc, err := publicReadPolicy(s.bucketName, objectPrefix)
	if err != nil {
		return err
	}
	if err := s.client.SetBucketPolicy(ctx, s.bucketName, doc); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// publicReadPolicy returns a bucket policy document granting anonymous
// read on objects under prefix.
func publicReadPolicy(bucket, prefix string) (string, error) {
	doc := policy.BucketAccessPolicy{
		Version:    "2012-10-17",
		Statements: policy.SetPolicy(nil, policy.BucketPolicyReadOnly, bucket, prefix),
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode bucket policy: %w", err)
	}
	return string(raw), nil
}

func (s *MinioStore) Put(ctx context.Context, localPath string) (string, error) {
	ext := filepath.Ext(localPath)
	objectKey := objectPrefix + uuid.NewString() + ext

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.FPutObject(ctx, s.bucketName, objectKey, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.objectURL(objectKey), nil
}

// objectURL relies on the read policy set by ensureBucket.
func (s *MinioStore) objectURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucketName, objectKey)
}
