package auth

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"
)

// googleCertsURL publishes the X.509 certificates Google signs ID tokens
// with, as a JSON object of key ID to PEM certificate.
const googleCertsURL = "https://www.googleapis.com/oauth2/v1/certs"

var maxAgePattern = regexp.MustCompile(`max-age=(\d+)`)

// GoogleCertSource implements KeySource against Google's published
// certificates. The certificate set is cached and refreshed when the
// response's Cache-Control max-age lapses, or immediately when an unknown
// key ID is requested (keys rotate).
type GoogleCertSource struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.Mutex
	keys      map[string]interface{}
	expiresAt time.Time
}

// NewGoogleCertSource creates a key source backed by Google's cert endpoint.
func NewGoogleCertSource(logger *slog.Logger) *GoogleCertSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoogleCertSource{
		url:        googleCertsURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.With(slog.String("component", "google_cert_source")),
		now:        time.Now,
	}
}

var _ KeySource = (*GoogleCertSource)(nil)

// Key implements KeySource.
func (s *GoogleCertSource) Key(ctx context.Context, kid string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keys != nil && s.now().Before(s.expiresAt) {
		if key, ok := s.keys[kid]; ok {
			return key, nil
		}
		// Unknown kid with a fresh cache usually means a rotation; refetch.
	}

	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}

	key, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no certificate for key ID %q", kid)
	}
	return key, nil
}

// refreshLocked refetches and reparses the certificate set. Callers must
// hold s.mu.
func (s *GoogleCertSource) refreshLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to build certs request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch Google certs: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warn("failed to close certs response body", slog.Any("error", err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("certs endpoint returned status %d", resp.StatusCode)
	}

	var pemByKid map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&pemByKid); err != nil {
		return fmt.Errorf("failed to decode certs response: %w", err)
	}

	keys := make(map[string]interface{}, len(pemByKid))
	for kid, certPEM := range pemByKid {
		key, err := publicKeyFromCertPEM(certPEM)
		if err != nil {
			s.logger.Warn("skipping unparseable certificate",
				slog.String("kid", kid), slog.Any("error", err))
			continue
		}
		keys[kid] = key
	}
	if len(keys) == 0 {
		return errors.New("certs response contained no usable certificates")
	}

	s.keys = keys
	s.expiresAt = s.now().Add(cacheTTL(resp.Header.Get("Cache-Control")))
	s.logger.Debug("Google certificates refreshed",
		slog.Int("keys", len(keys)),
		slog.Time("expires_at", s.expiresAt))
	return nil
}

// publicKeyFromCertPEM extracts the public key from a PEM encoded X.509
// certificate.
func publicKeyFromCertPEM(certPEM string) (interface{}, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return cert.PublicKey, nil
}

// cacheTTL extracts max-age from a Cache-Control header, defaulting to one
// hour when absent.
func cacheTTL(cacheControl string) time.Duration {
	if m := maxAgePattern.FindStringSubmatch(cacheControl); m != nil {
		if seconds, err := strconv.Atoi(m[1]); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Hour
}
