package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotedesk/quotebot/internal/service"
)

type stubAssistant struct {
	mu    sync.Mutex
	reply string
	calls []service.ChatRequest
}

func (s *stubAssistant) HandleMessage(ctx context.Context, req service.ChatRequest) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	return s.reply
}

func (s *stubAssistant) requests() []service.ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.ChatRequest(nil), s.calls...)
}

func postEvent(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleEvent(rec, req)
	return rec
}

func responseText(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		HostAppDataAction struct {
			ChatDataAction struct {
				CreateMessageAction struct {
					Message struct {
						Text string `json:"text"`
					} `json:"message"`
				} `json:"createMessageAction"`
			} `json:"chatDataAction"`
		} `json:"hostAppDataAction"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.HostAppDataAction.ChatDataAction.CreateMessageAction.Message.Text
}

func messageEvent(email, text, space string) string {
	event := map[string]any{
		"chat": map[string]any{
			"messagePayload": map[string]any{
				"message": map[string]any{
					"text": text,
					"sender": map[string]any{
						"displayName": "Alice",
						"email":       email,
					},
					"thread": map[string]any{"name": space + "/threads/T1"},
				},
				"space": map[string]any{"name": space},
			},
		},
	}
	raw, _ := json.Marshal(event)
	return string(raw)
}

func TestHandleEvent_MessageDelegatesToAssistant(t *testing.T) {
	assistant := &stubAssistant{reply: "Here is your quote."}
	h := NewWebhookHandler(assistant, "example.com")

	rec := postEvent(t, h, messageEvent("alice@example.com", "price please", "spaces/AAA"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Here is your quote.", responseText(t, rec))

	reqs := assistant.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "alice@example.com", reqs[0].UserEmail)
	assert.Equal(t, "price please", reqs[0].UserMessage)
	assert.Equal(t, "spaces/AAA", reqs[0].Target.ChannelID)
	assert.Equal(t, "spaces/AAA/threads/T1", reqs[0].Target.ThreadID)
}

func TestHandleEvent_AddedToSpaceGreets(t *testing.T) {
	assistant := &stubAssistant{}
	h := NewWebhookHandler(assistant, "example.com")

	rec := postEvent(t, h, `{"chat":{"addedToSpacePayload":{"space":{"name":"spaces/AAA"}}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, greetingText, responseText(t, rec))
	assert.Empty(t, assistant.requests())
}

func TestHandleEvent_RemovedFromSpaceReturnsEmptyBody(t *testing.T) {
	h := NewWebhookHandler(&stubAssistant{}, "example.com")

	rec := postEvent(t, h, `{"chat":{"removedFromSpacePayload":{"space":{"name":"spaces/AAA"}}}}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestHandleEvent_DisallowedDomainRejected(t *testing.T) {
	assistant := &stubAssistant{}
	h := NewWebhookHandler(assistant, "example.com")

	rec := postEvent(t, h, messageEvent("mallory@evil.org", "hi", "spaces/AAA"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, notAllowedText, responseText(t, rec))
	assert.Empty(t, assistant.requests())
}

func TestHandleEvent_EmptyDomainAllowsAnySender(t *testing.T) {
	assistant := &stubAssistant{reply: "ok"}
	h := NewWebhookHandler(assistant, "")

	rec := postEvent(t, h, messageEvent("anyone@anywhere.net", "hi", "spaces/AAA"))

	assert.Equal(t, "ok", responseText(t, rec))
	assert.Len(t, assistant.requests(), 1)
}

func TestHandleEvent_EmptyMessageText(t *testing.T) {
	assistant := &stubAssistant{}
	h := NewWebhookHandler(assistant, "example.com")

	rec := postEvent(t, h, messageEvent("alice@example.com", "   ", "spaces/AAA"))

	assert.Equal(t, noMessageText, responseText(t, rec))
	assert.Empty(t, assistant.requests())
}

func TestHandleEvent_MissingSpaceName(t *testing.T) {
	assistant := &stubAssistant{}
	h := NewWebhookHandler(assistant, "example.com")

	rec := postEvent(t, h, messageEvent("alice@example.com", "hi", ""))

	assert.Equal(t, noSpaceText, responseText(t, rec))
	assert.Empty(t, assistant.requests())
}

func TestHandleEvent_MalformedJSON(t *testing.T) {
	h := NewWebhookHandler(&stubAssistant{}, "example.com")

	rec := postEvent(t, h, `{"chat": not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleEvent_EmptyEventBody(t *testing.T) {
	h := NewWebhookHandler(&stubAssistant{}, "example.com")

	rec := postEvent(t, h, `{}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, noMessageText, responseText(t, rec))
}
