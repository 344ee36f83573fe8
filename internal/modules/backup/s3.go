package backup

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/moodnotes/core/internal/config"
)

// S3Uploader mirrors backup archives to an S3-compatible bucket.
type S3Uploader struct {
	client       *s3.Client
	bucket       string
	pathTemplate string
}

// NewS3Uploader builds an uploader from config, or returns nil when S3
// mirroring is disabled.
func NewS3Uploader(opts appcfg.S3Options) (*S3Uploader, error) {
	if !opts.Enable {
		return nil, nil
	}
	if opts.Bucket == "" || opts.Region == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
	}

	s3opts := s3.Options{
		Region:      opts.Region,
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
	}
	if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
		s3opts.BaseEndpoint = aws.String(endpoint)
		s3opts.UsePathStyle = true
	}

	return &S3Uploader{
		client:       s3.New(s3opts),
		bucket:       opts.Bucket,
		pathTemplate: opts.PathTemplate,
	}, nil
}

func (u *S3Uploader) PathTemplate() string { return u.pathTemplate }

// Upload puts one archive and returns the object key.
func (u *S3Uploader) Upload(ctx context.Context, key string, payload []byte) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}
