package storage

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// MinioStore stores media objects in per-media-type buckets. Bucket
// existence checks are cached so steady-state uploads cost one round trip.
type MinioStore struct {
	client *minio.Client
	logger *logrus.Logger

	mu      sync.Mutex
	buckets map[string]struct{}
}

func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool, logger *logrus.Logger) (*MinioStore, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &MinioStore{
		client:  client,
		logger:  logger,
		buckets: make(map[string]struct{}),
	}, nil
}

func (s *MinioStore) EnsureBucket(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[bucket]; ok {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		s.logger.WithField("bucket", bucket).Info("Created storage bucket")
	}

	s.buckets[bucket] = struct{}{}
	return nil
}

func (s *MinioStore) PutObject(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %s/%s: %w", bucket, object, err)
	}

	s.logger.WithFields(logrus.Fields{
		"bucket": bucket,
		"object": object,
		"size":   len(data),
	}).Debug("Stored object")

	return nil
}
