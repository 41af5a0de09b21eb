// Package secrets resolves the Google service-account key from AWS Secrets
// Manager. The secret is fetched lazily on first use and cached for the
// process lifetime; a failed fetch is not cached, so the next caller
// retries. The provider is an explicit, injected dependency rather than
// ambient process state.
package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/quotedesk/quotebot/internal/config"
)

// secretsManagerAPI is the subset of the Secrets Manager client we use.
type secretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// Provider fetches and caches one named secret.
type Provider struct {
	secretName string
	logger     *slog.Logger
	client     secretsManagerAPI

	mu     sync.Mutex
	cached []byte
}

// NewProvider creates a Provider backed by the real Secrets Manager client
// in the configured region.
func NewProvider(ctx context.Context, cfg config.SecretsConfig, logger *slog.Logger) (*Provider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		secretName: cfg.SecretName,
		logger:     logger.With(slog.String("component", "secrets_provider")),
		client:     secretsmanager.NewFromConfig(awsCfg),
	}, nil
}

// ServiceAccountJSON returns the raw secret value, fetching it on first use.
func (p *Provider) ServiceAccountJSON(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != nil {
		return p.cached, nil
	}

	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &p.secretName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %q: %w", p.secretName, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return nil, fmt.Errorf("secret %q has no string value", p.secretName)
	}

	p.cached = []byte(*out.SecretString)
	p.logger.Info("service-account secret resolved", slog.String("secret_name", p.secretName))
	return p.cached, nil
}
