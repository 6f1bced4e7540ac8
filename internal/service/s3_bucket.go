package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// allowed upload types for gallery images
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// S3Service uploads gallery images to a public bucket and hands back the
// URL stored on gallery items.
type S3Service struct {
	BucketName string
	Region     string
	Client     *s3.Client
}

// NewS3Service initializes the S3 client from the default credential chain.
func NewS3Service(bucketName, region string) (*S3Service, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is not configured")
	}
	if region == "" {
		region = "eu-west-3"
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &S3Service{
		BucketName: bucketName,
		Region:     region,
		Client:     s3.NewFromConfig(cfg),
	}, nil
}

// UploadImage uploads one image file and returns its public URL.
func (s *S3Service) UploadImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	buffer := bytes.NewBuffer(nil)
	if _, err := buffer.ReadFrom(file); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("gallery/%d_%s%s", time.Now().Unix(), uuid.NewString()[:8], ext)

	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buffer.Bytes()),
		ContentType: aws.String(fileHeader.Header.Get("Content-Type")),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.BucketName, s.Region, key), nil
}
