// Package s3fs implements fsx.FileSystem on an S3 bucket. Paths are object keys.
package s3fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Abraxas-365/ocrspace/fsx"
)

// API is the subset of *s3.Client used here
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// FileSystem reads objects from a single bucket, optionally below a key prefix
type FileSystem struct {
	client API
	bucket string
	prefix string
}

var _ fsx.FileSystem = (*FileSystem)(nil)

// New creates a bucket-backed filesystem from an existing client
func New(client API, bucket, prefix string) *FileSystem {
	return &FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// NewFromDefaultConfig loads the default AWS credential chain and region
func NewFromDefaultConfig(ctx context.Context, bucket, prefix string, optFns ...func(*config.LoadOptions) error) (*FileSystem, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (f *FileSystem) key(p string) string {
	p = strings.TrimLeft(p, "/")
	if f.prefix == "" {
		return p
	}
	return f.prefix + "/" + p
}

func (f *FileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	rc, err := f.ReadFileStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, fmt.Errorf("s3://%s/%s: %w", f.bucket, f.key(p), err)
	}
	return buf.Bytes(), nil
}

func (f *FileSystem) ReadFileStream(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		return nil, f.wrap(p, err)
	}
	return out.Body, nil
}

func (f *FileSystem) Stat(ctx context.Context, p string) (fsx.FileInfo, error) {
	out, err := f.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(p)),
	})
	if err != nil {
		return fsx.FileInfo{}, f.wrap(p, err)
	}
	return fsx.FileInfo{
		Name:        path.Base(f.key(p)),
		Size:        aws.ToInt64(out.ContentLength),
		ModTime:     aws.ToTime(out.LastModified),
		ContentType: aws.ToString(out.ContentType),
		Metadata:    out.Metadata,
	}, nil
}

func (f *FileSystem) Exists(ctx context.Context, p string) (bool, error) {
	_, err := f.Stat(ctx, p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fsx.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func (f *FileSystem) wrap(p string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("s3://%s/%s: %w", f.bucket, f.key(p), fsx.ErrNotExist)
	}
	return fmt.Errorf("s3://%s/%s: %w", f.bucket, f.key(p), err)
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return true
	}
	// HeadObject has no body, so some endpoints only surface the code
	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) {
		switch coded.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
