package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/JHay0112/raytracing/pkg/log"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

var logger = log.New("publish")

// UploadTimeout bounds a single upload
const UploadTimeout = 30 * time.Second

// ErrNotConfigured is returned when the bucket or credentials are missing
var ErrNotConfigured = errors.New("publish: S3 is not configured")

// Config holds the S3 connection settings
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // Optional, for S3 compatible stores
	AccessKey string
	SecretKey string
	Prefix    string // Key prefix for uploaded frames
	PublicURL string // Optional base URL used to report where a frame can be fetched
}

// Validate reports whether enough settings are present to upload
func (c Config) Validate() error {
	var missing []string
	if c.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if c.Region == "" {
		missing = append(missing, "region")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		missing = append(missing, "credentials")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), ErrNotConfigured)
	}
	return nil
}

// Publisher uploads rendered frames to an S3 bucket
type Publisher struct {
	config Config
	client s3iface.S3API
}

// New creates a publisher backed by a real S3 session
func New(config Config) (*Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, ""),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if config.Endpoint != "" {
		s3Config.Endpoint = aws.String(config.Endpoint)
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewWithClient(config, s3.New(sess)), nil
}

// NewWithClient creates a publisher using an existing S3 client
func NewWithClient(config Config, client s3iface.S3API) *Publisher {
	return &Publisher{config: config, client: client}
}

// Key returns the object key a file name is stored under
func (p *Publisher) Key(name string) string {
	return path.Join(p.config.Prefix, path.Base(name))
}

// URL returns where an uploaded key can be fetched, or the s3:// location without a public URL
func (p *Publisher) URL(key string) string {
	if p.config.PublicURL != "" {
		return strings.TrimSuffix(p.config.PublicURL, "/") + "/" + key
	}
	return fmt.Sprintf("s3://%s/%s", p.config.Bucket, key)
}

// Upload stores data under the key derived from name and returns its URL
func (p *Publisher) Upload(ctx context.Context, name string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := p.Key(name)
	size := int64(len(data))
	_, err := p.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ContentType(name)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	logger.Infof("uploaded %s to bucket %s (%d bytes)", key, p.config.Bucket, size)
	return p.URL(key), nil
}

// ContentType returns the MIME type of a rendered frame file
func ContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".ppm":
		return "image/x-portable-pixmap"
	default:
		return "application/octet-stream"
	}
}
