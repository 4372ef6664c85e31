// Event payload contracts for the broadcast channel.
//
// Two event kinds cross the wire:
//   - "document_update": relayed verbatim from one client to all others;
//     the hub validates only the envelope (type + chatId) and never
//     inspects the edit payload.
//   - "message": emitted by the orchestrator after a successful completion
//     so connected clients refresh the chat's message list.
//
// Receivers filter on chatId against whatever they currently display and
// treat both kinds as re-fetch hints, not state snapshots.
package hub

import (
	"encoding/json"
	"errors"

	"github.com/g8d3/ai-chat-dev/internal/domain"
)

// Recognized event type discriminators.
const (
	EventTypeDocumentUpdate = "document_update"
	EventTypeMessage        = "message"
)

// ErrBadEnvelope is returned for inbound frames that do not decode to a
// recognizable event envelope.
var ErrBadEnvelope = errors.New("malformed event envelope")

// Envelope is the minimal shape shared by all events; inbound frames are
// validated against it before being relayed.
type Envelope struct {
	Type   string `json:"type"`
	ChatID string `json:"chatId"`
}

// MessageEvent notifies subscribers that a chat's message list changed.
type MessageEvent struct {
	Type    string          `json:"type"`
	ChatID  string          `json:"chatId"`
	Message *domain.Message `json:"message"`
}

// NewMessageEvent builds a message event for the given chat and message.
func NewMessageEvent(chatID string, m *domain.Message) MessageEvent {
	return MessageEvent{Type: EventTypeMessage, ChatID: chatID, Message: m}
}

// DocumentEvent mirrors the document_update envelope for server-initiated
// broadcasts (REST saves of a document chat's content). Live client edits
// are relayed raw via HandleInbound and never pass through this type.
type DocumentEvent struct {
	Type    string `json:"type"`
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

// NewDocumentEvent builds a document_update event carrying the full saved
// content.
func NewDocumentEvent(chatID, content string) DocumentEvent {
	return DocumentEvent{Type: EventTypeDocumentUpdate, ChatID: chatID, Content: content}
}

// HandleInbound processes one raw frame received from a connection. The
// only recognized inbound payload is a document_update envelope, which is
// relayed verbatim to every other open connection. Frames with other type
// discriminators are dropped silently; frames that do not parse, or that
// lack a chatId, return ErrBadEnvelope so the transport loop can log them.
func (h *Hub) HandleInbound(from *Connection, raw []byte) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ErrBadEnvelope
	}
	if env.Type != EventTypeDocumentUpdate {
		return nil
	}
	if env.ChatID == "" {
		return ErrBadEnvelope
	}
	h.Publish(json.RawMessage(raw), from)
	return nil
}
