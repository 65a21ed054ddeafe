package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config holds the Cloudflare R2 credentials and bucket settings.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	CDNBaseURL      string
}

// R2ConfigFromEnv reads the R2 settings from the environment.
func R2ConfigFromEnv() R2Config {
	cfg := R2Config{
		AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		Bucket:          os.Getenv("R2_BUCKET_NAME"),
		CDNBaseURL:      os.Getenv("CDN_BASE_URL"),
	}
	if cfg.CDNBaseURL == "" {
		cfg.CDNBaseURL = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}
	return cfg
}

// R2BlobStore stores images in a Cloudflare R2 bucket. The object key doubles
// as the deletion handle.
type R2BlobStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewR2BlobStore builds the S3 client for the R2 endpoint.
func NewR2BlobStore(ctx context.Context, rc R2Config) (*R2BlobStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			rc.AccessKeyID, rc.AccessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", rc.AccountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return &R2BlobStore{
		client:  s3.NewFromConfig(cfg),
		bucket:  rc.Bucket,
		baseURL: strings.TrimSuffix(rc.CDNBaseURL, "/"),
	}, nil
}

func (r *R2BlobStore) Upload(ctx context.Context, data []byte, contentType, folder, name string) (string, string, error) {
	key := folder + "/" + name
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return fmt.Sprintf("%s/%s", r.baseURL, key), key, nil
}

// Delete removes the object. S3 DeleteObject succeeds on missing keys, which
// gives us idempotent deletion for free.
func (r *R2BlobStore) Delete(ctx context.Context, handle string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(handle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}
	return nil
}

func (r *R2BlobStore) HandleFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, r.baseURL+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}
