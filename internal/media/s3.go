package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds the connection parameters for the S3-compatible image
// store (MinIO in development). PublicBaseURL is what gets prefixed onto
// object keys in returned URLs; when empty, endpoint/bucket is used.
type S3Config struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Uploader implements Uploader on top of the AWS SDK.
type S3Uploader struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Uploader builds an S3 client with static credentials pointed at the
// configured endpoint.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "")))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})
	return &S3Uploader{client: client, cfg: cfg}, nil
}

// Upload puts the object under a date-partitioned random key and returns
// its public URL.
func (u *S3Uploader) Upload(ctx context.Context, body io.Reader, size int64, contentType string) (string, error) {
	key := storageKey()
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return u.publicURL(key), nil
}

func (u *S3Uploader) publicURL(key string) string {
	base := u.cfg.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("%s/%s", strings.TrimRight(u.cfg.Endpoint, "/"), u.cfg.Bucket)
	}
	return strings.TrimRight(base, "/") + "/" + key
}

// storageKey partitions objects by upload date so buckets stay listable.
func storageKey() string {
	d := time.Now().UTC()
	return fmt.Sprintf("images/%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.New())
}
