// Package storage downloads uploaded resumes from S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/logger"
)

// ObjectGetter is the subset of the S3 client the downloader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Downloader fetches objects with retries.
type Downloader struct {
	client   ObjectGetter
	bucket   string
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

// NewDownloader returns a Downloader reading from bucket.
func NewDownloader(client ObjectGetter, bucket string, attempts int, log *zap.Logger) *Downloader {
	if attempts < 1 {
		attempts = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Downloader{
		client:   client,
		bucket:   bucket,
		attempts: attempts,
		backoff:  500 * time.Millisecond,
		logger:   logger.ForComponent(log, "storage"),
	}
}

// NewS3Client builds an S3 client from static credentials. A custom endpoint
// points the client at R2, MinIO or another S3-compatible service.
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Bucket returns the default bucket.
func (d *Downloader) Bucket() string {
	return d.bucket
}

// Download reads an object fully. An empty bucket uses the downloader's default.
func (d *Downloader) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	if bucket == "" {
		bucket = d.bucket
	}
	if bucket == "" || key == "" {
		return nil, &DownloadError{Bucket: bucket, Key: key, Message: "bucket and key are required"}
	}

	data, err := retry(ctx, d.attempts, d.backoff, func() ([]byte, error) {
		return d.get(ctx, bucket, key)
	})
	if err != nil {
		d.logger.Warn("object download failed",
			zap.String(logger.FieldDocument, key),
			zap.String("bucket", bucket),
			zap.Error(err),
		)
		return nil, &DownloadError{Bucket: bucket, Key: key, Message: "download failed", Cause: err}
	}

	d.logger.Debug("object downloaded",
		zap.String(logger.FieldDocument, key),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

func (d *Downloader) get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// retry runs fn up to attempts times with linear backoff, stopping early when ctx ends.
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
