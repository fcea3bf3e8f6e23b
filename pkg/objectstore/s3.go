package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	// Prefix is prepended to every key, so several deployments can share
	// a bucket.
	Prefix string
}

type S3Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewS3Store connects to an S3-compatible endpoint. The endpoint may be a
// bare host:port or carry an http:// or https:// scheme, which then decides
// TLS over UseSSL.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	host, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	store := &S3Store{client: client, bucket: cfg.Bucket}
	if p := strings.Trim(cfg.Prefix, "/"); p != "" {
		store.prefix = p + "/"
	}
	return store, nil
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	if host, ok := strings.CutPrefix(endpoint, "https://"); ok {
		return host, true
	}
	if host, ok := strings.CutPrefix(endpoint, "http://"); ok {
		return host, false
	}
	return endpoint, useSSL
}

func (s *S3Store) objectKey(key string) string { return s.prefix + key }

func statInfo(key string, stat minio.ObjectInfo) *ObjectInfo {
	return &ObjectInfo{
		Key:          key,
		Size:         stat.Size,
		ETag:         strings.Trim(stat.ETag, `"`),
		LastModified: stat.LastModified,
		ContentType:  stat.ContentType,
	}
}

func (s *S3Store) Get(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, translateError(err)
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, nil, translateError(err)
	}
	return obj, statInfo(key, stat), nil
}

func (s *S3Store) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, s.objectKey(key), minio.StatObjectOptions{})
	if err != nil {
		return nil, translateError(err)
	}
	return statInfo(key, stat), nil
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, opts *PutOptions) (*ObjectInfo, error) {
	return s.put(ctx, key, body, size, opts, false)
}

func (s *S3Store) PutIfAbsent(ctx context.Context, key string, body io.Reader, size int64, opts *PutOptions) (*ObjectInfo, error) {
	return s.put(ctx, key, body, size, opts, true)
}

func (s *S3Store) put(ctx context.Context, key string, body io.Reader, size int64, opts *PutOptions, ifAbsent bool) (*ObjectInfo, error) {
	putOpts := minio.PutObjectOptions{ContentType: contentType(opts)}
	if opts != nil && opts.Checksum != "" {
		data, checksum, _, err := readVerified(body, opts)
		if err != nil {
			return nil, err
		}
		putOpts.UserMetadata = map[string]string{"X-Amz-Checksum-SHA256": checksum}
		body, size = bytes.NewReader(data), int64(len(data))
	}
	if ifAbsent {
		putOpts.SetMatchETagExcept("*")
	}

	up, err := s.client.PutObject(ctx, s.bucket, s.objectKey(key), body, size, putOpts)
	if err != nil {
		mapped := translateError(err)
		if ifAbsent && errors.Is(mapped, errPrecondition) {
			return nil, ErrAlreadyExists
		}
		return nil, mapped
	}
	return &ObjectInfo{
		Key:          key,
		Size:         up.Size,
		ETag:         strings.Trim(up.ETag, "\""),
		LastModified: up.LastModified,
		ContentType:  putOpts.ContentType,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.objectKey(key), minio.RemoveObjectOptions{}); err != nil {
		return translateError(err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.objectKey(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, translateError(obj.Err)
		}
		out = append(out, *statInfo(strings.TrimPrefix(obj.Key, s.prefix), obj))
	}
	return out, nil
}

// EnsureBucket creates the bucket when it does not exist.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// errPrecondition marks a failed conditional write; PutIfAbsent reports it
// as ErrAlreadyExists.
var errPrecondition = errors.New("precondition failed")

func translateError(err error) error {
	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, resp.Key)
	case resp.Code == "PreconditionFailed" || resp.StatusCode == http.StatusPreconditionFailed:
		return errPrecondition
	case resp.StatusCode == http.StatusConflict:
		return ErrAlreadyExists
	default:
		return err
	}
}
