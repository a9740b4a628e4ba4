package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/lendhub/leaddesk/config"
)

// LoadString returns the secret for key, or fallback when it is missing
func LoadString(ctx context.Context, m Manager, key, fallback string) (string, error) {
	value, err := m.GetSecret(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Apply overwrites the credential fields of cfg with values from m. Keys
// missing from the backend keep the value already loaded from the
// environment. Production refuses to start with the default JWT secret.
func Apply(ctx context.Context, m Manager, cfg *config.Config) error {
	targets := []struct {
		key string
		dst *string
	}{
		{"JWT_SECRET", &cfg.JWTSecret},
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"REDIS_URL", &cfg.RedisURL},
		{"SENDGRID_API_KEY", &cfg.SendGridAPIKey},
		{"SLACK_WEBHOOK_URL", &cfg.SlackWebhookURL},
		{"CRM_API_KEY", &cfg.CRMAPIKey},
		{"SENTRY_DSN", &cfg.SentryDSN},
		{"AWS_ACCESS_KEY_ID", &cfg.AWSAccessKeyID},
		{"AWS_SECRET_ACCESS_KEY", &cfg.AWSSecretAccessKey},
	}

	for _, t := range targets {
		value, err := LoadString(ctx, m, t.key, *t.dst)
		if err != nil {
			return fmt.Errorf("loading %s: %w", t.key, err)
		}
		*t.dst = value
	}

	if cfg.APIEnvironment == "production" && cfg.JWTSecret == config.DefaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}
