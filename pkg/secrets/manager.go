package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"
)

// Backends
const (
	BackendEnv = "env"
	BackendAWS = "aws"
)

// ErrNotFound is returned when a key has no value in the backend
var ErrNotFound = errors.New("secret not found")

// Manager looks up secrets by key
type Manager interface {
	GetSecret(ctx context.Context, key string) (string, error)
}

// Config holds secrets manager configuration
type Config struct {
	Backend       string        // "env" or "aws"
	AWSRegion     string        // AWS region for Secrets Manager
	SecretID      string        // name or ARN of the JSON secret bundle
	CacheDuration time.Duration // how long a fetched bundle is reused
}

// NewManager creates a secrets manager for the configured backend
func NewManager(cfg Config) (Manager, error) {
	switch cfg.Backend {
	case BackendAWS, "aws-secrets-manager":
		if cfg.SecretID == "" {
			return nil, fmt.Errorf("SECRETS_ID is required for the aws backend")
		}
		sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.AWSRegion)})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		log.Printf("🔐 Using AWS Secrets Manager (region: %s, secret: %s)", cfg.AWSRegion, cfg.SecretID)
		return NewAWSManager(secretsmanager.New(sess), cfg.SecretID, cfg.CacheDuration), nil
	case BackendEnv, "", "environment":
		return EnvManager{}, nil
	default:
		return nil, fmt.Errorf("unsupported secrets backend: %s", cfg.Backend)
	}
}

// EnvManager reads secrets from environment variables
type EnvManager struct{}

// GetSecret returns the environment variable named key
func (EnvManager) GetSecret(_ context.Context, key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}

// SecretsAPI is the part of the Secrets Manager client used here
type SecretsAPI interface {
	GetSecretValueWithContext(ctx aws.Context, input *secretsmanager.GetSecretValueInput, opts ...request.Option) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSManager reads keys from a single JSON object stored in AWS Secrets
// Manager, e.g. {"JWT_SECRET": "...", "SENDGRID_API_KEY": "..."}. The
// bundle is fetched once per cache period.
type AWSManager struct {
	client   SecretsAPI
	secretID string
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	bundle    map[string]string
	fetchedAt time.Time
}

// NewAWSManager creates a manager over client
func NewAWSManager(client SecretsAPI, secretID string, ttl time.Duration) *AWSManager {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AWSManager{client: client, secretID: secretID, ttl: ttl, now: time.Now}
}

// GetSecret returns one key of the bundle
func (m *AWSManager) GetSecret(ctx context.Context, key string) (string, error) {
	bundle, err := m.load(ctx)
	if err != nil {
		return "", err
	}
	value := bundle[key]
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}

// Refresh drops the cached bundle
func (m *AWSManager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bundle = nil
}

func (m *AWSManager) load(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bundle != nil && m.now().Sub(m.fetchedAt) < m.ttl {
		return m.bundle, nil
	}

	result, err := m.client.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(m.secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", m.secretID, err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", m.secretID)
	}

	bundle := map[string]string{}
	if err := json.Unmarshal([]byte(*result.SecretString), &bundle); err != nil {
		return nil, fmt.Errorf("secret %s is not a JSON object of strings: %w", m.secretID, err)
	}

	m.bundle = bundle
	m.fetchedAt = m.now()
	log.Printf("✅ Loaded %d keys from AWS Secrets Manager", len(bundle))
	return bundle, nil
}
