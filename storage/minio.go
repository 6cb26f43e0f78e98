package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"spherify/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStorage struct {
	client     *minio.Client
	bucket     string
	linkExpire time.Duration
	retry      RetryPolicy
}

func NewMinioStorage(cfg *config.RemoteConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}

	return &MinioStorage{
		client:     client,
		bucket:     cfg.Bucket,
		linkExpire: time.Duration(cfg.LinkExpireMinutes) * time.Minute,
		retry: RetryPolicy{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		},
	}, nil
}

// classify maps backend errors onto the gateway sentinels so callers can
// tell divergence apart from transient failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
		return fmt.Errorf("%w: %v", ErrRemoteNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}

// Put is not retried: the source reader cannot be rewound once consumed.
func (s *MinioStorage) Put(ctx context.Context, key string, reader io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{})
	return classify(err)
}

func (s *MinioStorage) PublicLink(ctx context.Context, key string) (string, error) {
	var link string
	err := s.retry.Do(ctx, func() error {
		u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.linkExpire, nil)
		if err != nil {
			return classify(err)
		}
		link = u.String()
		return nil
	})
	return link, err
}

func (s *MinioStorage) Move(ctx context.Context, oldKey string, newKey string) error {
	return s.retry.Do(ctx, func() error {
		return s.copyAndRemove(ctx, oldKey, newKey)
	})
}

func (s *MinioStorage) MovePrefix(ctx context.Context, oldPrefix string, newPrefix string) error {
	return s.retry.Do(ctx, func() error {
		opts := minio.ListObjectsOptions{Prefix: oldPrefix + "/", Recursive: true}
		for object := range s.client.ListObjects(ctx, s.bucket, opts) {
			if object.Err != nil {
				return classify(object.Err)
			}
			newKey := newPrefix + object.Key[len(oldPrefix):]
			if err := s.copyAndRemove(ctx, object.Key, newKey); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *MinioStorage) copyAndRemove(ctx context.Context, oldKey string, newKey string) error {
	src := minio.CopySrcOptions{Bucket: s.bucket, Object: oldKey}
	dst := minio.CopyDestOptions{Bucket: s.bucket, Object: newKey}
	if _, err := s.client.CopyObject(ctx, dst, src); err != nil {
		return classify(err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, oldKey, minio.RemoveObjectOptions{}); err != nil {
		return classify(err)
	}
	return nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	return s.retry.Do(ctx, func() error {
		// RemoveObject succeeds on missing keys, so probe first: a missing
		// object here is divergence the caller has to know about.
		if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
			return classify(err)
		}
		return classify(s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}))
	})
}

func (s *MinioStorage) DeletePrefix(ctx context.Context, prefix string) error {
	return s.retry.Do(ctx, func() error {
		opts := minio.ListObjectsOptions{Prefix: prefix + "/", Recursive: true}
		for object := range s.client.ListObjects(ctx, s.bucket, opts) {
			if object.Err != nil {
				return classify(object.Err)
			}
			if err := s.client.RemoveObject(ctx, s.bucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
				return classify(err)
			}
		}
		return nil
	})
}

func (s *MinioStorage) RecursiveSize(ctx context.Context, prefix string) (int64, error) {
	var total int64
	err := s.retry.Do(ctx, func() error {
		total = 0
		opts := minio.ListObjectsOptions{Prefix: prefix + "/", Recursive: true}
		for object := range s.client.ListObjects(ctx, s.bucket, opts) {
			if object.Err != nil {
				return classify(object.Err)
			}
			total += object.Size
		}
		return nil
	})
	return total, err
}
