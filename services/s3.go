package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AWSServiceProvider stores lookbook manifests in R2.
type AWSServiceProvider interface {
	InitClient(ctx context.Context) error
	PutObject(ctx context.Context, bucketName, key string, body []byte, contentType string) error
	GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error)
}

type AWSService struct {
	S3Client        *s3.Client
	S3PresignClient *s3.PresignClient
}

func (awsService *AWSService) InitClient(ctx context.Context) error {
	var accountId = GetEnv("R2_ACCOUNT_ID", "")
	var accessKeyId = GetEnv("R2_ACCESS_KEY_ID", "")
	var accessKeySecret = GetEnv("R2_ACCESS_KEY_SECRET", "")
	if accountId == "" {
		return fmt.Errorf("R2_ACCOUNT_ID is not set")
	}
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountId),
		}, nil
	})
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyId, accessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	awsService.S3Client = s3.NewFromConfig(cfg)
	awsService.S3PresignClient = s3.NewPresignClient(awsService.S3Client)
	return nil
}

func (awsService *AWSService) PutObject(ctx context.Context, bucketName, key string, body []byte, contentType string) error {
	if awsService.S3Client == nil {
		return fmt.Errorf("s3 client is not initialised")
	}
	_, err := awsService.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (awsService *AWSService) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	if awsService.S3PresignClient == nil {
		return "", fmt.Errorf("s3 presign client is not initialised")
	}
	presignedGetRequest, err := awsService.S3PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %v", err)
	}
	return presignedGetRequest.URL, nil
}

func LookbookManifestKey(ownerID uint, batchKey string) string {
	return fmt.Sprintf("lookbooks/%d/%s.json", ownerID, batchKey)
}

// presigned links live 15 minutes, cached a little less
const urlCacheExpiration = 12 * time.Minute

type URLCacheServiceProvider interface {
	GetReadURL(ctx context.Context, objectKey string) (string, error)
}

// URLCacheService hands out cached presigned read links for lookbook manifests.
type URLCacheService struct {
	load func(ctx context.Context, key any) (string, error)
}

func NewURLCacheService(storage AWSServiceProvider, bucketName string) (*URLCacheService, error) {
	loadable, _, err := newLoadableCache(func(ctx context.Context, objectKey string) (string, error) {
		return storage.GetPresignedR2FileReadURL(ctx, bucketName, objectKey)
	}, urlCacheExpiration)
	if err != nil {
		return nil, err
	}
	return &URLCacheService{load: loadable.Get}, nil
}

func (s *URLCacheService) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return s.load(ctx, objectKey)
}
