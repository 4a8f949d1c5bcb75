package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	ErrInvalidR2Config = errors.New("invalid Cloudflare R2 configuration: all fields are required")
	ErrForeignKey      = errors.New("object key is outside the tournament logo prefix")
)

// A logo key is reused when a tournament uploads a new logo with the same
// extension, so edge caches must revalidate quickly.
const logoCacheControl = "public, max-age=300"

type CloudflareR2UploaderConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Complete reports whether every field needed to reach the bucket is set.
func (c CloudflareR2UploaderConfig) Complete() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != "" && c.PublicBaseURL != ""
}

func r2Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// r2LogoStore keeps tournament logos in one R2 bucket. It only writes and
// deletes keys under the tournament logo prefix.
type r2LogoStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *slog.Logger
}

func NewCloudflareR2Uploader(ctx context.Context, cfg CloudflareR2UploaderConfig, logger *slog.Logger) (FileUploader, error) {
	if !cfg.Complete() {
		return nil, ErrInvalidR2Config
	}

	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("load R2 SDK config: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r2Endpoint(cfg.AccountID))
	})

	return &r2LogoStore{
		client:        client,
		bucket:        cfg.BucketName,
		publicBaseURL: cfg.PublicBaseURL,
		logger:        logger,
	}, nil
}

func (s *r2LogoStore) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if !IsTournamentLogoKey(key) {
		return nil, fmt.Errorf("upload %q: %w", key, ErrForeignKey)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         reader,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(logoCacheControl),
	})
	if err != nil {
		return nil, fmt.Errorf("put logo %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "logo stored", slog.String("key", key), slog.String("content_type", contentType))

	return &UploadResult{Key: key, Location: s.GetPublicURL(key)}, nil
}

func (s *r2LogoStore) Delete(ctx context.Context, key string) error {
	if !IsTournamentLogoKey(key) {
		return fmt.Errorf("delete %q: %w", key, ErrForeignKey)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete logo %s: %w", key, err)
	}
	return nil
}

func (s *r2LogoStore) GetPublicURL(key string) string {
	return publicURL(s.publicBaseURL, key, s.logger)
}

// publicURL joins the CDN base and an object key. It returns "" when
// either part is missing or the base does not parse.
func publicURL(base, key string, logger *slog.Logger) string {
	if base == "" || key == "" {
		return ""
	}
	joined, err := url.JoinPath(base, strings.TrimPrefix(key, "/"))
	if err != nil {
		logger.Warn("cannot build public URL", slog.String("base", base), slog.String("key", key), slog.Any("error", err))
		return ""
	}
	return joined
}
