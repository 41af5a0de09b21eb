package chat

import "github.com/quotedesk/quotebot/internal/task"

// WebhookEvent is the body Google Chat posts to the webhook endpoint.
type WebhookEvent struct {
	Chat *EventPayload `json:"chat,omitempty"`
}

// EventPayload carries exactly one of the event-specific payloads.
type EventPayload struct {
	MessagePayload          *MessagePayload    `json:"messagePayload,omitempty"`
	AddedToSpacePayload     *SpaceEventPayload `json:"addedToSpacePayload,omitempty"`
	RemovedFromSpacePayload *SpaceEventPayload `json:"removedFromSpacePayload,omitempty"`
}

// MessagePayload wraps a user message event.
type MessagePayload struct {
	Message Message `json:"message"`
	Space   Space   `json:"space"`
}

// SpaceEventPayload wraps added-to-space and removed-from-space events.
type SpaceEventPayload struct {
	Space Space `json:"space"`
}

// Message is a single chat message as delivered by Google Chat.
type Message struct {
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
	Thread Thread `json:"thread"`
	Space  Space  `json:"space"`
}

// Sender identifies the user who wrote a message.
type Sender struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Thread identifies a thread within a space.
type Thread struct {
	Name string `json:"name"`
}

// Space identifies a Google Chat space (resource name like "spaces/AAA").
type Space struct {
	Name string `json:"name"`
}

// SpaceName returns the space resource name, preferring the payload-level
// space and falling back to the one embedded in the message. Either may be
// absent depending on the event shape.
func (p *MessagePayload) SpaceName() string {
	if p.Space.Name != "" {
		return p.Space.Name
	}
	return p.Message.Space.Name
}

// Target builds the notification target for background messages about this
// request.
func (p *MessagePayload) Target() task.Target {
	return task.Target{
		ChannelID: p.SpaceName(),
		ThreadID:  p.Message.Thread.Name,
	}
}
