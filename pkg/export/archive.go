package export

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/lendhub/leaddesk/pkg/domain"
)

// Storage types accepted by NewArchiveStore
const (
	StorageNone  = "none"
	StorageLocal = "local"
	StorageS3    = "s3"
)

// ArchiveConfig selects where generated exports are kept
type ArchiveConfig struct {
	Type               string
	LocalPath          string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	S3Bucket           string
	S3Prefix           string
}

// NewArchiveStore returns the configured store, or nil when archiving is off
func NewArchiveStore(ctx context.Context, cfg ArchiveConfig) (domain.ArchiveStore, error) {
	switch strings.ToLower(cfg.Type) {
	case "", StorageNone:
		return nil, nil
	case StorageLocal:
		store, err := NewLocalStore(cfg.LocalPath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case StorageS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required for s3 storage")
		}
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
		if cfg.AWSAccessKeyID != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AWSAccessKeyID,
				cfg.AWSSecretAccessKey,
				"",
			)))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		return NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// LocalStore writes exports under a directory
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	log.Printf("✅ Export archive: local (%s)", dir)
	return &LocalStore{dir: dir}, nil
}

// Save writes data to dir/name and returns the file path
func (s *LocalStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	p := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return p, nil
}

// S3API is the subset of the S3 client used for archiving
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads exports to a bucket
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates an S3-backed store. Keys are prefix/name.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	if prefix == "" {
		prefix = "exports"
	}
	log.Printf("✅ Export archive: s3://%s/%s", bucket, prefix)
	return &S3Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Save uploads data and returns its s3:// URI
func (s *S3Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := path.Join(s.prefix, path.Base(name))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
