package outputstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"stepstore/internal/codec"
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store persists encoded output values in an S3-compatible bucket under
// run-scoped keys (sourceRunID/stepKey/outputName). Writes are not surfaced
// to any external catalog.
type S3Store struct {
	client   *minio.Client
	bucket   string
	region   string
	codec    codec.Codec
	initOnce sync.Once
	initErr  error
}

func NewS3Store(cfg S3Config, c codec.Codec) (*S3Store, error) {
	if c == nil {
		return nil, fmt.Errorf("codec is required")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{
		client: client,
		bucket: bucket,
		region: region,
		codec:  c,
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("s3 store is nil")
	}
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Store) key(sc StoreContext) (string, error) {
	if sc.SourceRunID == "" {
		return "", fmt.Errorf("%w: source run id is required for run-scoped keys", ErrConfig)
	}
	return strings.Join(sc.Identity().PathSegments(), "/"), nil
}

func (s *S3Store) Write(ctx context.Context, sc StoreContext, value any) (*Materialization, error) {
	if s == nil {
		return nil, fmt.Errorf("s3 store is nil")
	}
	key, err := s.key(sc)
	if err != nil {
		return nil, err
	}
	raw, err := s.codec.Encode(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return nil, fmt.Errorf("put %s: %w", key, err)
	}
	return nil, nil
}

func (s *S3Store) Read(ctx context.Context, sc StoreContext) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("s3 store is nil")
	}
	key, err := s.key(sc)
	if err != nil {
		return nil, err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, fmt.Errorf("read %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	v, err := s.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", key, err, ErrDecode)
	}
	return v, nil
}
