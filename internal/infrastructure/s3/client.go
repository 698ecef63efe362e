package s3infra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-video-drop/internal/config"
	"github.com/go-video-drop/internal/domain"
	"github.com/go-video-drop/internal/infrastructure/metrics"
)

// Store is the object storage gateway. It only issues presigned URLs and
// manages bucket settings; object bytes never pass through it.
type Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set (LocalStack, MinIO),
// it overrides the endpoint and enables path-style addressing.
func NewClient(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config for s3: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// NewStore creates a Store for bucket. A nil client or an empty bucket yields
// a disabled store whose operations fail with domain.ErrStorageConfig.
func NewStore(client *s3.Client, bucket string) *Store {
	s := &Store{client: client, bucket: bucket}
	if client != nil {
		s.presigner = s3.NewPresignClient(client)
	}
	return s
}

// Enabled reports whether the store can sign requests.
func (s *Store) Enabled() bool {
	return s.client != nil && s.bucket != ""
}

func (s *Store) ensureEnabled() error {
	if !s.Enabled() {
		return fmt.Errorf("bucket or credentials are not set: %w", domain.ErrStorageConfig)
	}
	return nil
}

// PresignUpload returns a presigned PUT URL for key. The content type is part
// of the signature, so the uploader must send the same Content-Type header.
func (s *Store) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (domain.PresignedURL, error) {
	if err := s.ensureEnabled(); err != nil {
		return domain.PresignedURL{}, err
	}
	start := time.Now()
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	metrics.RecordPresign("put", err, time.Since(start).Seconds())
	if err != nil {
		return domain.PresignedURL{}, fmt.Errorf("%w: presign put object: %w", domain.ErrStorageSign, err)
	}
	return domain.PresignedURL{URL: req.URL, Method: http.MethodPut, ExpiresAt: start.Add(ttl)}, nil
}

// PresignView returns a time-limited presigned GET URL for key. It does not
// check that the object exists.
func (s *Store) PresignView(ctx context.Context, key string, ttl time.Duration) (domain.PresignedURL, error) {
	if err := s.ensureEnabled(); err != nil {
		return domain.PresignedURL{}, err
	}
	start := time.Now()
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	metrics.RecordPresign("get", err, time.Since(start).Seconds())
	if err != nil {
		return domain.PresignedURL{}, fmt.Errorf("%w: presign get object: %w", domain.ErrStorageSign, err)
	}
	return domain.PresignedURL{URL: req.URL, Method: http.MethodGet, ExpiresAt: start.Add(ttl)}, nil
}

// Health performs a HeadBucket request. A disabled store is reported healthy;
// callers check Enabled to tell the two apart.
func (s *Store) Health(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("s3 head bucket: %w", err)
	}
	return nil
}
