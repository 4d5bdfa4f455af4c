package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for the S3 presigner
type S3Config struct {
	Bucket       string
	Region       string
	AWSAccessKey string
	AWSSecretKey string
	Expires      time.Duration
}

// S3Presigner implements Presigner against AWS S3
type S3Presigner struct {
	presign *s3.PresignClient
	bucket  string
	expires time.Duration
}

// NewS3Presigner creates a new S3 presigner
func NewS3Presigner(cfg S3Config) (*S3Presigner, error) {
	ctx := context.Background()

	var awsCfg aws.Config
	var err error

	if cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "" {
		// Use explicit credentials
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AWSAccessKey,
				cfg.AWSSecretKey,
				"",
			)),
		)
	} else {
		// Use default credentials (from environment, IAM role, etc.)
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &S3Presigner{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expires: cfg.Expires,
	}, nil
}

// PresignUpload mints a short-lived PUT URL for a direct client upload
func (s *S3Presigner) PresignUpload(ctx context.Context, fileName, contentType string) (string, string, error) {
	key := ObjectKey(fileName)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.expires))

	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}

	return req.URL, key, nil
}

// PresignDownload mints a short-lived GET URL for a stored object
func (s *S3Presigner) PresignDownload(ctx context.Context, objectKey string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(s.expires))

	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}

	return req.URL, nil
}
