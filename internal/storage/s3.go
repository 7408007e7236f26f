package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// S3Config configures an S3-compatible endpoint, such as the one Supabase
// Storage exposes at <project>/storage/v1/s3
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is the project URL used to build public object URLs
	PublicBaseURL string
}

// S3API is the subset of the S3 client used by S3Store
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Store implements Store over the S3 protocol
type S3Store struct {
	client        S3API
	publicBaseURL string
}

// NewS3Store builds an S3 client with static credentials and path-style addressing
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("S3 endpoint is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	logrus.WithFields(logrus.Fields{
		"endpoint": cfg.Endpoint,
		"region":   cfg.Region,
	}).Info("S3 object store enabled")

	return NewS3StoreWithClient(client, cfg.PublicBaseURL), nil
}

// NewS3StoreWithClient wraps an existing client
func NewS3StoreWithClient(client S3API, publicBaseURL string) *S3Store {
	return &S3Store{client: client, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// Upload stores body at bucket/objectPath
func (s *S3Store) Upload(ctx context.Context, bucket, objectPath string, body []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectPath),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s/%s: %w", bucket, objectPath, err)
	}
	return nil
}

// PublicURL returns the Supabase-style public URL so stored links are backend independent
func (s *S3Store) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1%s%s/%s", s.publicBaseURL, publicMarker, bucket, strings.TrimLeft(objectPath, "/"))
}

// Remove deletes objects from a bucket
func (s *S3Store) Remove(ctx context.Context, bucket string, objectPaths ...string) error {
	if len(objectPaths) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(objectPaths))
	for _, p := range objectPaths {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(p)})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete objects from %s: %w", bucket, err)
	}
	if out != nil && len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("failed to delete %s/%s: %s", bucket, aws.ToString(first.Key), aws.ToString(first.Message))
	}
	return nil
}
