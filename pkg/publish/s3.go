package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// UploadTimeout bounds a single upload
const UploadTimeout = 10 * time.Second

// Publisher stores a finished render somewhere outside the process
type Publisher interface {
	Publish(ctx context.Context, key, contentType string, body []byte) error
}

// S3Config holds connection details for an S3-compatible object store
type S3Config struct {
	Endpoint  string // Empty for AWS, otherwise e.g. http://localhost:9000
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Enabled reports whether a bucket has been configured
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// S3Publisher uploads renders to an S3 bucket
type S3Publisher struct {
	client s3iface.S3API
	bucket string
	logger core.Logger
}

// NewS3Publisher creates a publisher using path-style addressing so MinIO-style endpoints work
func NewS3Publisher(cfg S3Config, logger core.Logger) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, errors.New("S3 bucket is not configured")
	}

	awsConfig := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewS3PublisherWithClient(s3.New(sess), cfg.Bucket, logger), nil
}

// NewS3PublisherWithClient wraps an existing S3 client
func NewS3PublisherWithClient(client s3iface.S3API, bucket string, logger core.Logger) *S3Publisher {
	return &S3Publisher{client: client, bucket: bucket, logger: logger}
}

// Publish uploads body under key
func (p *S3Publisher) Publish(ctx context.Context, key, contentType string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	size := int64(len(body))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if p.logger != nil {
		p.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, p.bucket, size)
	}
	return nil
}
