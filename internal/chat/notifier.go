package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/quotedesk/quotebot/internal/task"
	"golang.org/x/oauth2/google"
)

// chatBotScope is the OAuth scope for posting messages as a Chat app.
const chatBotScope = "https://www.googleapis.com/auth/chat.bot"

// defaultPace is the delay between consecutive chunks of one logical
// message, respecting the Chat API's rate limits.
const defaultPace = 500 * time.Millisecond

// CredentialsSource resolves the Google service-account key used to
// authenticate against the Chat REST API.
type CredentialsSource interface {
	// ServiceAccountJSON returns the raw service-account key JSON.
	ServiceAccountJSON(ctx context.Context) ([]byte, error)
}

// APINotifier posts messages to Google Chat spaces through the REST API.
// It implements task.Notifier for the background continuation. The
// authenticated HTTP client is built lazily on first use and cached; a
// failed initialization is retried on the next send.
type APINotifier struct {
	source CredentialsSource
	logger *slog.Logger

	baseURL string
	pace    time.Duration

	mu     sync.Mutex
	client *http.Client
}

// NewAPINotifier creates a notifier backed by the given credentials source.
func NewAPINotifier(source CredentialsSource, logger *slog.Logger) *APINotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &APINotifier{
		source:  source,
		logger:  logger.With(slog.String("component", "chat_notifier")),
		baseURL: "https://chat.googleapis.com",
		pace:    defaultPace,
	}
}

var _ task.Notifier = (*APINotifier)(nil)

// Send posts text to the target space, splitting oversized text into
// multiple messages with a small pacing delay between them. Messages are
// posted directly to the space, not as thread replies.
func (n *APINotifier) Send(ctx context.Context, target task.Target, text string) error {
	if target.ChannelID == "" {
		return fmt.Errorf("notification target has no channel")
	}

	client, err := n.httpClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to build chat API client: %w", err)
	}

	parts := SplitMessage(text, MaxMessageLength)
	n.logger.Info("sending message to space",
		slog.String("space", target.ChannelID),
		slog.Int("parts", len(parts)))

	for i, part := range parts {
		if err := n.postMessage(ctx, client, target.ChannelID, part); err != nil {
			return fmt.Errorf("failed to send message part %d/%d: %w", i+1, len(parts), err)
		}
		if i < len(parts)-1 {
			select {
			case <-time.After(n.pace):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// postMessage creates one message in the given space.
func (n *APINotifier) postMessage(ctx context.Context, client *http.Client, space, text string) error {
	body, err := json.Marshal(TextMessage{Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode message body: %w", err)
	}

	url := fmt.Sprintf("%s/v1/%s/messages", n.baseURL, space)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("chat API request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			n.logger.Warn("failed to close response body", slog.Any("error", err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded amount of the error body for the log record.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

// httpClient returns the cached authenticated client, building it from the
// service-account key on first use.
func (n *APINotifier) httpClient(ctx context.Context) (*http.Client, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.client != nil {
		return n.client, nil
	}

	keyJSON, err := n.source.ServiceAccountJSON(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service-account key: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(keyJSON, chatBotScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service-account key: %w", err)
	}

	// The client is shared across requests, so its token source must not be
	// tied to any single request's context.
	n.client = cfg.Client(context.Background())
	n.logger.Info("chat API client initialized")
	return n.client, nil
}
