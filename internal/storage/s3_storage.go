package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Zaid3480/Real-Estate/internal/config"
)

// s3Storage stores objects in an S3 bucket. Keys mirror the local
// backend so documents stay backend-agnostic.
type s3Storage struct {
	bucket   string
	s3Client *s3.Client
}

// NewS3Storage creates an S3-backed storage from static credentials.
func NewS3Storage(cfg *config.Config) (IStorage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"", // session token
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &s3Storage{
		bucket:   cfg.AwsS3Bucket,
		s3Client: s3.NewFromConfig(awsCfg),
	}, nil
}

func (s *s3Storage) Save(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	key := objectKey(folder, filename)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}

func (s *s3Storage) Put(ctx context.Context, storedPath string, r io.Reader) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storedPath),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("failed to overwrite %s: %w", storedPath, err)
	}
	return nil
}

func (s *s3Storage) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	out, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storedPath),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", storedPath, err)
	}
	return out.Body, nil
}

func (s *s3Storage) Delete(ctx context.Context, storedPath string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storedPath),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", storedPath, err)
	}
	return nil
}

// NewStorage selects a backend from config.
func NewStorage(cfg *config.Config) (IStorage, error) {
	if cfg.StorageDriver == "s3" {
		return NewS3Storage(cfg)
	}
	return NewLocalStorage(cfg.UploadDir)
}
