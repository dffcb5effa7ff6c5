package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"campusx/pkg/logger"
)

// Inbound event types
const (
	EventJoinChat           = "joinChat"
	EventLeaveChat          = "leaveChat"
	EventChatMessage        = "chatMessage"
	EventNegotiationMessage = "negotiationMessage"
	EventTyping             = "typing"
	EventStopTyping         = "stopTyping"
)

// Outbound event types
const (
	EventUserTyping     = "userTyping"
	EventUserStopTyping = "userStopTyping"
	EventError          = "error"
)

// Frame is the wire envelope for both directions.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type roomPayload struct {
	ChatID string `json:"chatId"`
}

type chatMessagePayload struct {
	Text   string `json:"text"`
	ChatID string `json:"chatId,omitempty"`
}

type negotiationMessagePayload struct {
	Text   string          `json:"text"`
	ChatID string          `json:"chatId"`
	Offer  json.RawMessage `json:"offer"`
}

// MessageEnvelope is the shape broadcast to clients, distinct from the
// persisted record.
type MessageEnvelope struct {
	ID         string          `json:"id"`
	SenderID   string          `json:"senderId"`
	SenderName string          `json:"senderName"`
	Text       string          `json:"text"`
	Type       string          `json:"type,omitempty"`
	Offer      json.RawMessage `json:"offer,omitempty"`
	Timestamp  string          `json:"timestamp"`
	ChatID     string          `json:"chatId,omitempty"`
}

type typingEnvelope struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	ChatID   string `json:"chatId"`
}

// ChatService is the persistence path for realtime messages. Implemented by
// the chat usecase: persist first, then broadcast to the room, so a message
// accepted on the socket is never lost.
type ChatService interface {
	SendChatMessage(ctx context.Context, senderID, chatID, text string) error
	SendNegotiationMessage(ctx context.Context, senderID, chatID, text string, offer json.RawMessage) error
}

// Encode marshals an outbound frame. Marshal failures are programmer errors;
// they are logged and produce an empty payload.
func Encode(eventType string, data interface{}) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		logger.Error("Failed to marshal %s payload: %v", eventType, err)
		return nil
	}
	frame, err := json.Marshal(Frame{Type: eventType, Data: raw})
	if err != nil {
		logger.Error("Failed to marshal %s frame: %v", eventType, err)
		return nil
	}
	return frame
}

// HandleClientMessage dispatches one inbound frame. Malformed payloads fail
// closed: logged, optionally answered with an error frame, never fatal to the
// connection.
func (m *Manager) HandleClientMessage(client *Client, payload []byte) {
	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		logger.Warn("Invalid frame from user %s: %v", client.UserID, err)
		m.sendError(client, "invalid message format")
		return
	}

	switch frame.Type {
	case EventJoinChat:
		m.handleJoinChat(client, frame.Data)
	case EventLeaveChat:
		m.handleLeaveChat(client, frame.Data)
	case EventChatMessage:
		m.handleChatMessage(client, frame.Data)
	case EventNegotiationMessage:
		m.handleNegotiationMessage(client, frame.Data)
	case EventTyping:
		m.handleTyping(client, frame.Data, EventUserTyping)
	case EventStopTyping:
		m.handleTyping(client, frame.Data, EventUserStopTyping)
	default:
		logger.Warn("Unknown event type %q from user %s", frame.Type, client.UserID)
		m.sendError(client, "unknown event type")
	}
}

func (m *Manager) handleJoinChat(client *Client, data json.RawMessage) {
	chatID, ok := m.parseRoomPayload(client, data)
	if !ok {
		return
	}
	m.JoinRoom(client, ChatRoom(chatID))
	logger.Debug("User %s joined chat %s", client.UserID, chatID)
}

func (m *Manager) handleLeaveChat(client *Client, data json.RawMessage) {
	chatID, ok := m.parseRoomPayload(client, data)
	if !ok {
		return
	}
	m.LeaveRoom(client, ChatRoom(chatID))
	logger.Debug("User %s left chat %s", client.UserID, chatID)
}

func (m *Manager) parseRoomPayload(client *Client, data json.RawMessage) (string, bool) {
	var p roomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == "" {
		logger.Warn("Invalid room payload from user %s", client.UserID)
		m.sendError(client, "missing chatId")
		return "", false
	}
	return p.ChatID, true
}

func (m *Manager) handleChatMessage(client *Client, data json.RawMessage) {
	var p chatMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Text == "" {
		logger.Warn("Invalid chatMessage payload from user %s", client.UserID)
		m.sendError(client, "missing text")
		return
	}

	if p.ChatID == "" {
		// Legacy "general chat": no chat record exists, so there is nothing
		// to persist. Ephemeral fan-out to every connection, config-gated.
		if !m.globalBroadcast {
			logger.Warn("Dropping chatMessage without chatId from user %s (global broadcast disabled)", client.UserID)
			return
		}
		envelope := MessageEnvelope{
			ID:         uuid.New().String(),
			SenderID:   client.UserID,
			SenderName: client.DisplayName,
			Text:       p.Text,
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}
		m.BroadcastAll(Encode(EventChatMessage, envelope))
		return
	}

	// Persist-then-broadcast: the usecase writes the message and fans out to
	// the chat room on success.
	if err := m.chatService.SendChatMessage(context.Background(), client.UserID, p.ChatID, p.Text); err != nil {
		logger.Warn("Failed to send realtime message from user %s to chat %s: %v", client.UserID, p.ChatID, err)
		m.sendError(client, "failed to send message")
	}
}

func (m *Manager) handleNegotiationMessage(client *Client, data json.RawMessage) {
	var p negotiationMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.ChatID == "" {
		logger.Warn("Invalid negotiationMessage payload from user %s", client.UserID)
		m.sendError(client, "missing chatId")
		return
	}

	if err := m.chatService.SendNegotiationMessage(context.Background(), client.UserID, p.ChatID, p.Text, p.Offer); err != nil {
		logger.Warn("Failed to send negotiation message from user %s to chat %s: %v", client.UserID, p.ChatID, err)
		m.sendError(client, "failed to send negotiation message")
	}
}

func (m *Manager) handleTyping(client *Client, data json.RawMessage, outEvent string) {
	chatID, ok := m.parseRoomPayload(client, data)
	if !ok {
		return
	}

	if m.typingLimiter != nil {
		if allowed, _ := m.typingLimiter.Allow(client.UserID, "typing"); !allowed {
			return
		}
	}

	envelope := typingEnvelope{
		UserID: client.UserID,
		ChatID: chatID,
	}
	if outEvent == EventUserTyping {
		envelope.UserName = client.DisplayName
	}

	// Ephemeral: no persistence, no ack, never echoed back to the sender.
	m.BroadcastToRoomExcept(ChatRoom(chatID), client, Encode(outEvent, envelope))
}

func (m *Manager) sendError(client *Client, message string) {
	payload := Encode(EventError, map[string]string{"message": message})
	select {
	case client.Send <- payload:
	default:
	}
}
