package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/quotedesk/quotebot/internal/config"
	"github.com/quotedesk/quotebot/internal/domain"
	"github.com/quotedesk/quotebot/internal/generation"
	"google.golang.org/genai"
)

// maxHistoryChars bounds how much of each prior turn is replayed into the
// prompt, keeping long answers from dominating the context window.
const maxHistoryChars = 1500

// Generator implements the generation.Generator interface using Google's
// Gemini API.
type Generator struct {
	logger *slog.Logger
	config config.AgentConfig

	// call performs one GenerateContent request. Kept as a field so tests
	// can exercise retry behavior without a live client.
	call func(ctx context.Context, contents []*genai.Content) (string, error)
}

// NewGenerator creates a Generator with the provided dependencies.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.AgentConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	g := &Generator{
		logger: logger,
		config: cfg,
	}
	g.call = func(ctx context.Context, contents []*genai.Content) (string, error) {
		var genCfg *genai.GenerateContentConfig
		if cfg.Instructions != "" {
			genCfg = &genai.GenerateContentConfig{
				SystemInstruction: genai.NewContentFromText(cfg.Instructions, genai.RoleUser),
			}
		}
		resp, err := client.Models.GenerateContent(ctx, cfg.ModelName, contents, genCfg)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return g, nil
}

var _ generation.Generator = (*Generator)(nil)

// GenerateResponse implements generation.Generator.
func (g *Generator) GenerateResponse(
	ctx context.Context,
	history []domain.Message,
	userMessage string,
) (string, error) {
	if userMessage == "" {
		return "", generation.ErrEmptyUserMessage
	}

	contents := buildContents(history, userMessage)

	text, err := g.callWithRetry(ctx, contents)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", generation.ErrEmptyResponse
	}
	return text, nil
}

// buildContents converts the bounded history plus the current message into
// the alternating-role content list the API expects. Prior turns are
// truncated to maxHistoryChars.
func buildContents(history []domain.Message, userMessage string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		text := truncateTurn(msg.Content, maxHistoryChars)
		role := genai.Role(genai.RoleUser)
		if msg.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(text, role))
	}
	contents = append(contents, genai.NewContentFromText(userMessage, genai.RoleUser))
	return contents
}

// truncateTurn cuts text to at most max bytes without splitting a UTF-8
// rune.
func truncateTurn(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// callWithRetry calls the API with exponential backoff and jitter for
// transient errors. Context cancellation aborts immediately.
func (g *Generator) callWithRetry(ctx context.Context, contents []*genai.Content) (string, error) {
	maxRetries := g.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelay := time.Duration(g.config.RetryDelaySeconds) * time.Second
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		g.logger.InfoContext(ctx, "calling Gemini API",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", maxRetries+1))

		text, err := g.call(ctx, contents)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		g.logger.WarnContext(ctx, "Gemini API call failed",
			slog.Int("attempt", attempt+1),
			slog.Any("error", err))

		if attempt == maxRetries {
			break
		}

		// Exponential backoff with up to 50% jitter.
		backoff := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt)))
		backoff += time.Duration(rng.Int63n(int64(backoff)/2 + 1))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, lastErr)
}
