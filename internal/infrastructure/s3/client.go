package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

const maxAvatarSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Config holds S3/MinIO configuration
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string // Public URL for accessing uploaded files
}

// Client mirrors channel avatars into a MinIO bucket
type Client struct {
	client     *minio.Client
	httpClient *http.Client
	bucket     string
	publicURL  string
	logger     zerolog.Logger
}

// NewClient creates a new S3/MinIO client
func NewClient(cfg *Config, logger zerolog.Logger) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	return &Client{
		client:     client,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		bucket:     cfg.Bucket,
		publicURL:  publicURL,
		logger:     logger,
	}, nil
}

// EnsureBucket creates bucket if it doesn't exist and sets public read policy
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	c.logger.Info().Str("bucket", c.bucket).Msg("created S3 bucket")

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/avatars/*"]
			}
		]
	}`, c.bucket)

	if err := c.client.SetBucketPolicy(ctx, c.bucket, policy); err != nil {
		c.logger.Warn().Err(err).Msg("failed to set public bucket policy, avatars may not be publicly accessible")
	}

	return nil
}

// Mirror downloads avatarURL and stores it as avatars/<channelKey><ext>, returning its public URL
func (c *Client) Mirror(ctx context.Context, channelKey, avatarURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download avatar: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if len(data) > maxAvatarSize {
		return "", fmt.Errorf("avatar exceeds %d bytes", maxAvatarSize)
	}

	contentType := resp.Header.Get("Content-Type")
	objectKey := ObjectKey(channelKey, avatarURL, contentType)

	_, err = c.client.PutObject(ctx, c.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar to S3: %w", err)
	}

	publicURL := c.GetPublicURL(objectKey)
	c.logger.Debug().
		Str("channel_key", channelKey).
		Str("object_key", objectKey).
		Str("url", publicURL).
		Msg("mirrored avatar to S3")

	return publicURL, nil
}

// GetPublicURL returns public URL for the given object key
func (c *Client) GetPublicURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicURL, c.bucket, objectKey)
}

// ObjectKey builds the avatar object key, taking the extension from the URL path or the content type
func ObjectKey(channelKey, avatarURL, contentType string) string {
	ext := ""
	if u, err := url.Parse(avatarURL); err == nil {
		ext = path.Ext(u.Path)
	}
	if ext == "" && contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			ext = imageExtensions[mediaType]
			if ext == "" {
				if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
					ext = exts[0]
				}
			}
		}
	}
	return "avatars/" + channelKey + strings.ToLower(ext)
}

// NoopMirror keeps the upstream avatar URL when no bucket is configured
type NoopMirror struct{}

// Mirror returns avatarURL unchanged
func (NoopMirror) Mirror(ctx context.Context, channelKey, avatarURL string) (string, error) {
	return avatarURL, nil
}
