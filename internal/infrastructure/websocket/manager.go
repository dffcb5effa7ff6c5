package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"campusx/pkg/logger"
)

// Client represents one live WebSocket connection. A user may hold several
// connections; room membership is tracked per connection and fully discarded
// on disconnect.
type Client struct {
	UserID      string
	DisplayName string
	Conn        *websocket.Conn
	Send        chan []byte

	rooms map[string]struct{}
}

func NewClient(userID, displayName string, conn *websocket.Conn) *Client {
	return &Client{
		UserID:      userID,
		DisplayName: displayName,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		rooms:       make(map[string]struct{}),
	}
}

// ChatRoom returns the room name for a chat id.
func ChatRoom(chatID string) string {
	return "chat_" + chatID
}

// Manager owns the connection set and the ephemeral room registry. It is the
// only shared mutable structure in the process; everything durable lives in
// the stores.
type Manager struct {
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	Register   chan *Client
	Unregister chan *Client

	mutex sync.RWMutex

	chatService     ChatService
	typingLimiter   TypingLimiter
	globalBroadcast bool
}

// TypingLimiter throttles typing indicator events per user. Satisfied by
// ratelimit.RateLimiter.
type TypingLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

func NewManager(globalBroadcast bool) *Manager {
	return &Manager{
		clients:         make(map[*Client]struct{}),
		rooms:           make(map[string]map[*Client]struct{}),
		Register:        make(chan *Client),
		Unregister:      make(chan *Client),
		globalBroadcast: globalBroadcast,
	}
}

// SetChatService wires the persistence path for realtime messages. Must be
// called before Start; kept as a setter because the chat usecase also needs
// the manager for broadcasting.
func (m *Manager) SetChatService(svc ChatService) {
	m.chatService = svc
}

func (m *Manager) SetTypingLimiter(limiter TypingLimiter) {
	m.typingLimiter = limiter
}

// Start runs the manager's main loop in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.addClient(client)
				logger.Info("Client connected: user=%s", client.UserID)

			case client := <-m.Unregister:
				m.removeClient(client)
				logger.Info("Client disconnected: user=%s", client.UserID)

			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *Manager) addClient(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.clients[client] = struct{}{}
	// Every connection joins the user's personal room for direct notifications.
	m.joinLocked(client, client.UserID)
}

func (m *Manager) removeClient(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client]; !ok {
		return
	}
	delete(m.clients, client)
	for room := range client.rooms {
		m.leaveLocked(client, room)
	}
	close(client.Send)
}

// JoinRoom adds the connection to a room. Idempotent.
func (m *Manager) JoinRoom(client *Client, room string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.joinLocked(client, room)
}

func (m *Manager) joinLocked(client *Client, room string) {
	members, ok := m.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		m.rooms[room] = members
	}
	members[client] = struct{}{}
	client.rooms[room] = struct{}{}
}

// LeaveRoom removes the connection from a room. Idempotent even if the
// connection never joined.
func (m *Manager) LeaveRoom(client *Client, room string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.leaveLocked(client, room)
}

func (m *Manager) leaveLocked(client *Client, room string) {
	delete(client.rooms, room)
	members, ok := m.rooms[room]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(m.rooms, room)
	}
}

// RoomSize returns the current number of connections in a room.
func (m *Manager) RoomSize(room string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms[room])
}

// BroadcastToRoom sends payload to every connection in the room.
func (m *Manager) BroadcastToRoom(room string, payload []byte) {
	m.broadcastRoom(room, nil, payload)
}

// BroadcastToRoomExcept sends payload to every connection in the room except
// the given one.
func (m *Manager) BroadcastToRoomExcept(room string, except *Client, payload []byte) {
	m.broadcastRoom(room, except, payload)
}

func (m *Manager) broadcastRoom(room string, except *Client, payload []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for client := range m.rooms[room] {
		if client == except {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			// Drop for slow consumers; the client reconciles via history.
			logger.Warn("Dropping broadcast for slow client: user=%s room=%s", client.UserID, room)
		}
	}
}

// BroadcastAll sends payload to every connection. Legacy general-chat path.
func (m *Manager) BroadcastAll(payload []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for client := range m.clients {
		select {
		case client.Send <- payload:
		default:
			logger.Warn("Dropping global broadcast for slow client: user=%s", client.UserID)
		}
	}
}

// SendToUser sends payload to every connection in the user's personal room.
func (m *Manager) SendToUser(userID string, payload []byte) {
	m.BroadcastToRoom(userID, payload)
}

// ReadPump reads frames from the connection and dispatches them until the
// connection drops.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read error for user %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientMessage(c, payload)
	}
}

// WritePump drains the send channel to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Error("WebSocket write error for user %s: %v", c.UserID, err)
			return
		}
	}
}
