// Package auth verifies that inbound webhook requests genuinely come from
// Google Chat. Google signs each request with an OpenID Connect ID token;
// the verifier checks the signature against Google's published certificates
// and validates the audience and issuer claims.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
)

// Issuers Google Chat ID tokens are accepted from.
var validIssuers = map[string]bool{
	"chat@system.gserviceaccount.com": true,
	"https://accounts.google.com":     true,
}

// Common verification errors.
var (
	// ErrInvalidToken is returned when the token cannot be parsed, has a bad
	// signature, or carries the wrong audience.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when the token's validity window has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidIssuer is returned when the token was not issued by Google Chat.
	ErrInvalidIssuer = errors.New("invalid token issuer")
)

// KeySource resolves the public key a token's key ID refers to.
type KeySource interface {
	// Key returns the verification key for the given key ID.
	Key(ctx context.Context, kid string) (interface{}, error)
}

// ChatTokenVerifier validates Google Chat bearer tokens.
type ChatTokenVerifier struct {
	audience string
	keys     KeySource
	logger   *slog.Logger
	parser   *jwt.Parser
}

// NewChatTokenVerifier creates a verifier for tokens issued to the given
// audience (the app's configured endpoint or project number).
func NewChatTokenVerifier(audience string, keys KeySource, logger *slog.Logger) (*ChatTokenVerifier, error) {
	if audience == "" {
		return nil, errors.New("audience cannot be empty")
	}
	if keys == nil {
		return nil, errors.New("key source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatTokenVerifier{
		audience: audience,
		keys:     keys,
		logger:   logger.With(slog.String("component", "chat_token_verifier")),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"RS256"}),
			jwt.WithAudience(audience),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Verify checks the raw bearer token. It returns nil when the token is a
// valid Google Chat ID token for the configured audience.
func (v *ChatTokenVerifier) Verify(ctx context.Context, raw string) error {
	keyfunc := func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no key ID")
		}
		return v.keys.Key(ctx, kid)
	}

	token, err := v.parser.Parse(raw, keyfunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	issuer, err := token.Claims.GetIssuer()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !validIssuers[issuer] {
		v.logger.Warn("token from unexpected issuer", slog.String("issuer", issuer))
		return fmt.Errorf("%w: %s", ErrInvalidIssuer, issuer)
	}

	return nil
}
