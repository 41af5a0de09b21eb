package chat

// WebhookResponse is the envelope Google Chat expects from a synchronous
// webhook reply. The nesting mirrors the Chat apps data-action schema.
type WebhookResponse struct {
	HostAppDataAction *HostAppDataAction `json:"hostAppDataAction,omitempty"`
}

// HostAppDataAction wraps the chat-specific action.
type HostAppDataAction struct {
	ChatDataAction ChatDataAction `json:"chatDataAction"`
}

// ChatDataAction wraps the message-creation action.
type ChatDataAction struct {
	CreateMessageAction CreateMessageAction `json:"createMessageAction"`
}

// CreateMessageAction carries the message to post in the space.
type CreateMessageAction struct {
	Message TextMessage `json:"message"`
}

// TextMessage is a plain-text Chat message body.
type TextMessage struct {
	Text string `json:"text"`
}

// NewTextResponse builds a synchronous webhook response carrying text,
// truncated to the single-message limit.
func NewTextResponse(text string) WebhookResponse {
	return WebhookResponse{
		HostAppDataAction: &HostAppDataAction{
			ChatDataAction: ChatDataAction{
				CreateMessageAction: CreateMessageAction{
					Message: TextMessage{Text: TruncateForInline(text)},
				},
			},
		},
	}
}
