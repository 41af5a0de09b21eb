package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quotedesk/quotebot/internal/api/shared"
	"github.com/quotedesk/quotebot/internal/chat"
	"github.com/quotedesk/quotebot/internal/platform/logger"
	"github.com/quotedesk/quotebot/internal/service"
)

// Canned replies for events that never reach the assistant.
const (
	greetingText      = "Hi! I’m your assistant. How can I help you?"
	noMessageText     = "I didn’t receive any message. How can I help you?"
	noSpaceText       = "Internal error: I couldn't identify the chat."
	notAllowedText    = "Service not allowed"
	malformedBodyText = "Invalid request body"
)

// MessageHandler answers a user chat message, synchronously or by handing
// the work to a background continuation. It always has a reply to return.
type MessageHandler interface {
	HandleMessage(ctx context.Context, req service.ChatRequest) string
}

// WebhookHandler receives Google Chat events and turns them into
// synchronous webhook responses.
type WebhookHandler struct {
	assistant     MessageHandler
	allowedDomain string
}

// NewWebhookHandler creates a WebhookHandler. allowedDomain restricts
// which sender email domains may talk to the assistant; empty allows all.
func NewWebhookHandler(assistant MessageHandler, allowedDomain string) *WebhookHandler {
	return &WebhookHandler{
		assistant:     assistant,
		allowedDomain: allowedDomain,
	}
}

// HandleEvent is the POST handler for the Chat webhook.
func (h *WebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())

	var event chat.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, malformedBodyText, err)
		return
	}
	if event.Chat == nil {
		h.respondText(w, r, noMessageText)
		return
	}

	switch {
	case event.Chat.AddedToSpacePayload != nil:
		log.Info("added to space",
			slog.String("space", event.Chat.AddedToSpacePayload.Space.Name))
		h.respondText(w, r, greetingText)

	case event.Chat.RemovedFromSpacePayload != nil:
		log.Info("removed from space",
			slog.String("space", event.Chat.RemovedFromSpacePayload.Space.Name))
		shared.RespondWithJSON(w, r, http.StatusOK, struct{}{})

	case event.Chat.MessagePayload != nil:
		h.handleMessage(w, r, event.Chat.MessagePayload)

	default:
		h.respondText(w, r, noMessageText)
	}
}

func (h *WebhookHandler) handleMessage(w http.ResponseWriter, r *http.Request, payload *chat.MessagePayload) {
	log := logger.FromContextOrDefault(r.Context(), slog.Default())
	sender := payload.Message.Sender

	if !h.senderAllowed(sender.Email) {
		log.Warn("rejected sender outside allowed domain",
			slog.String("email", sender.Email))
		h.respondText(w, r, notAllowedText)
		return
	}

	userMessage := strings.TrimSpace(payload.Message.Text)
	if userMessage == "" {
		h.respondText(w, r, noMessageText)
		return
	}

	if payload.SpaceName() == "" {
		log.Error("message event carries no space name",
			slog.String("email", sender.Email))
		h.respondText(w, r, noSpaceText)
		return
	}

	reply := h.assistant.HandleMessage(r.Context(), service.ChatRequest{
		UserEmail:   sender.Email,
		UserMessage: userMessage,
		Target:      payload.Target(),
	})
	h.respondText(w, r, reply)
}

func (h *WebhookHandler) senderAllowed(email string) bool {
	if h.allowedDomain == "" {
		return true
	}
	return strings.HasSuffix(email, "@"+h.allowedDomain)
}

func (h *WebhookHandler) respondText(w http.ResponseWriter, r *http.Request, text string) {
	shared.RespondWithJSON(w, r, http.StatusOK, chat.NewTextResponse(text))
}
