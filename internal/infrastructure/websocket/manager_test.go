package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChatService struct {
	senderID string
	chatID   string
	text     string
	offer    json.RawMessage
	calls    int
}

func (s *recordingChatService) SendChatMessage(ctx context.Context, senderID, chatID, text string) error {
	s.senderID, s.chatID, s.text = senderID, chatID, text
	s.calls++
	return nil
}

func (s *recordingChatService) SendNegotiationMessage(ctx context.Context, senderID, chatID, text string, offer json.RawMessage) error {
	s.senderID, s.chatID, s.text, s.offer = senderID, chatID, text, offer
	s.calls++
	return nil
}

func frame(t *testing.T, eventType string, data interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	payload, err := json.Marshal(Frame{Type: eventType, Data: raw})
	require.NoError(t, err)
	return payload
}

func receive(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case payload := <-c.Send:
		var f Frame
		require.NoError(t, json.Unmarshal(payload, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("expected a frame, got none")
		return Frame{}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.Send:
		t.Fatalf("expected no frame, got %s", payload)
	default:
	}
}

func TestJoinAndLeaveRoomIdempotent(t *testing.T) {
	m := NewManager(false)
	client := NewClient("u1", "Asha", nil)

	room := ChatRoom("42")
	m.JoinRoom(client, room)
	m.JoinRoom(client, room)
	assert.Equal(t, 1, m.RoomSize(room))

	m.LeaveRoom(client, room)
	m.LeaveRoom(client, room)
	assert.Equal(t, 0, m.RoomSize(room))

	// Leaving a room never joined is a no-op.
	m.LeaveRoom(client, ChatRoom("99"))
}

func TestDisconnectDiscardsAllMemberships(t *testing.T) {
	m := NewManager(false)
	client := NewClient("u1", "Asha", nil)

	m.addClient(client)
	m.JoinRoom(client, ChatRoom("42"))
	m.JoinRoom(client, ChatRoom("43"))

	assert.Equal(t, 1, m.RoomSize("u1"), "connect joins the personal room")
	assert.Equal(t, 1, m.RoomSize(ChatRoom("42")))

	m.removeClient(client)

	assert.Equal(t, 0, m.RoomSize("u1"))
	assert.Equal(t, 0, m.RoomSize(ChatRoom("42")))
	assert.Equal(t, 0, m.RoomSize(ChatRoom("43")))

	_, open := <-client.Send
	assert.False(t, open, "send channel should be closed on disconnect")
}

func TestTypingReachesOthersNotSender(t *testing.T) {
	m := NewManager(false)
	asha := NewClient("u1", "Asha", nil)
	ben := NewClient("u2", "Ben", nil)

	m.addClient(asha)
	m.addClient(ben)
	m.JoinRoom(asha, ChatRoom("42"))
	m.JoinRoom(ben, ChatRoom("42"))

	m.HandleClientMessage(asha, frame(t, EventTyping, map[string]string{"chatId": "42"}))

	got := receive(t, ben)
	assert.Equal(t, EventUserTyping, got.Type)

	var env typingEnvelope
	require.NoError(t, json.Unmarshal(got.Data, &env))
	assert.Equal(t, "u1", env.UserID)
	assert.Equal(t, "Asha", env.UserName)
	assert.Equal(t, "42", env.ChatID)

	assertNoFrame(t, asha)

	m.HandleClientMessage(asha, frame(t, EventStopTyping, map[string]string{"chatId": "42"}))
	got = receive(t, ben)
	assert.Equal(t, EventUserStopTyping, got.Type)
	assertNoFrame(t, asha)
}

func TestChatMessagePersistsThroughService(t *testing.T) {
	m := NewManager(false)
	svc := &recordingChatService{}
	m.SetChatService(svc)

	asha := NewClient("u1", "Asha", nil)
	m.addClient(asha)

	m.HandleClientMessage(asha, frame(t, EventChatMessage, map[string]string{
		"chatId": "42",
		"text":   "is this still available?",
	}))

	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "u1", svc.senderID)
	assert.Equal(t, "42", svc.chatID)
	assert.Equal(t, "is this still available?", svc.text)
}

func TestNegotiationMessagePersistsThroughService(t *testing.T) {
	m := NewManager(false)
	svc := &recordingChatService{}
	m.SetChatService(svc)

	asha := NewClient("u1", "Asha", nil)
	m.addClient(asha)

	m.HandleClientMessage(asha, frame(t, EventNegotiationMessage, map[string]interface{}{
		"chatId": "42",
		"text":   "how about 400?",
		"offer":  map[string]interface{}{"id": "o1", "amount": 400},
	}))

	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "42", svc.chatID)
	assert.Contains(t, string(svc.offer), `"o1"`)
}

func TestGlobalBroadcastGatedByConfig(t *testing.T) {
	svc := &recordingChatService{}

	// Disabled: a message without chatId is dropped.
	m := NewManager(false)
	m.SetChatService(svc)
	asha := NewClient("u1", "Asha", nil)
	ben := NewClient("u2", "Ben", nil)
	m.addClient(asha)
	m.addClient(ben)

	m.HandleClientMessage(asha, frame(t, EventChatMessage, map[string]string{"text": "hello all"}))
	assert.Equal(t, 0, svc.calls)
	assertNoFrame(t, ben)

	// Enabled: everyone receives the ephemeral envelope, sender included.
	m = NewManager(true)
	m.SetChatService(svc)
	m.addClient(asha)
	m.addClient(ben)

	m.HandleClientMessage(asha, frame(t, EventChatMessage, map[string]string{"text": "hello all"}))
	assert.Equal(t, 0, svc.calls, "nothing is persisted on the global path")

	got := receive(t, ben)
	assert.Equal(t, EventChatMessage, got.Type)

	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(got.Data, &env))
	assert.Equal(t, "u1", env.SenderID)
	assert.Equal(t, "hello all", env.Text)
	assert.Empty(t, env.ChatID)
}

func TestMalformedFramesFailClosed(t *testing.T) {
	m := NewManager(false)
	asha := NewClient("u1", "Asha", nil)
	m.addClient(asha)

	m.HandleClientMessage(asha, []byte("not json"))
	got := receive(t, asha)
	assert.Equal(t, EventError, got.Type)

	m.HandleClientMessage(asha, frame(t, "dance", map[string]string{}))
	got = receive(t, asha)
	assert.Equal(t, EventError, got.Type)

	m.HandleClientMessage(asha, frame(t, EventJoinChat, map[string]string{}))
	got = receive(t, asha)
	assert.Equal(t, EventError, got.Type)
}
