package websocket

import (
	"context"
	"sync"
	"time"

	"wellnest/models"

	"github.com/sirupsen/logrus"
)

// UserRoom and GroupRoom name the two room families clients occupy.
func UserRoom(userID string) string   { return "user:" + userID }
func GroupRoom(groupID string) string { return "group:" + groupID }

type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Active rooms by ID
	rooms map[string]*Room

	// User to clients mapping for direct delivery; a user may hold
	// several connections (multiple devices)
	userClients map[string]map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Broadcast messages to rooms
	broadcast chan BroadcastMessage

	// Direct messages to a user
	sendToUser chan UserMessage

	// CanJoinGroup validates a dynamic group-room join request. Set at
	// wiring time; a nil checker rejects all dynamic joins.
	CanJoinGroup func(ctx context.Context, userID, groupID string) bool

	stats HubStats

	mutex sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

type BroadcastMessage struct {
	RoomID  string
	Message models.WSMessage

	// ExcludeUsers suppresses delivery to these user IDs
	ExcludeUsers []string
}

type UserMessage struct {
	UserID  string
	Message models.WSMessage
}

type HubStats struct {
	TotalConnections  int64
	ActiveConnections int
	ActiveRooms       int
	MessagesSent      int64
	StartTime         time.Time

	mutex sync.RWMutex
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:     make(map[*Client]bool),
		rooms:       make(map[string]*Room),
		userClients: make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan BroadcastMessage, 64),
		sendToUser:  make(chan UserMessage, 64),
		stats: HubStats{
			StartTime: time.Now(),
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

func (h *Hub) Run() {
	logrus.Info("WebSocket hub starting...")

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToRoom(message)

		case userMessage := <-h.sendToUser:
			h.sendMessageToUser(userMessage)

		case <-h.ctx.Done():
			logrus.Info("WebSocket hub shutting down...")
			return
		}
	}
}

func (h *Hub) Shutdown() {
	h.cancel()
}

// Register hands a new authenticated client to the hub loop.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client; safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// BroadcastToRoom delivers a message to every client in the room.
// Non-blocking: drops the message if the hub loop is gone.
func (h *Hub) BroadcastToRoom(roomID string, message models.WSMessage) {
	select {
	case h.broadcast <- BroadcastMessage{RoomID: roomID, Message: message}:
	case <-h.ctx.Done():
	}
}

// SendToUser delivers a message to all of a user's connections. A
// disconnected user misses the message; realtime events are best-effort.
func (h *Hub) SendToUser(userID string, message models.WSMessage) {
	select {
	case h.sendToUser <- UserMessage{UserID: userID, Message: message}:
	case <-h.ctx.Done():
	}
}

// JoinRoom places the client in a room, creating the room on first use.
func (h *Hub) JoinRoom(client *Client, roomID string) {
	h.mutex.Lock()
	room := h.getOrCreateRoom(roomID)
	h.mutex.Unlock()

	room.AddClient(client)
	client.trackRoom(roomID)
}

// LeaveRoom removes the client from a room, dropping the room when it
// empties.
func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	room, exists := h.rooms[roomID]
	if !exists {
		return
	}

	room.RemoveClient(client)
	client.untrackRoom(roomID)

	if room.IsEmpty() {
		delete(h.rooms, roomID)
	}
}

// ConnectedUserIDs snapshots the IDs of users with at least one live
// client.
func (h *Hub) ConnectedUserIDs() []string {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	ids := make([]string, 0, len(h.userClients))
	for id := range h.userClients {
		ids = append(ids, id)
	}
	return ids
}

// IsUserConnected reports whether the user has at least one live client.
func (h *Hub) IsUserConnected(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.userClients[userID]) > 0
}

func (h *Hub) GetStats() (active int, rooms int, totalConnections int64, messagesSent int64) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	h.stats.mutex.RLock()
	defer h.stats.mutex.RUnlock()

	return len(h.clients), len(h.rooms), h.stats.TotalConnections, h.stats.MessagesSent
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()

	h.clients[client] = true
	if h.userClients[client.userID] == nil {
		h.userClients[client.userID] = make(map[*Client]bool)
	}
	h.userClients[client.userID][client] = true

	h.stats.mutex.Lock()
	h.stats.ActiveConnections = len(h.clients)
	h.stats.TotalConnections++
	h.stats.mutex.Unlock()

	active := len(h.clients)
	h.mutex.Unlock()

	// Every client always sits in their own user room
	h.JoinRoom(client, UserRoom(client.userID))
	for _, groupID := range client.groupIDs {
		h.JoinRoom(client, GroupRoom(groupID))
	}

	logrus.Infof("WebSocket client connected: %s (active: %d)", client.userID, active)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()

	if _, ok := h.clients[client]; !ok {
		h.mutex.Unlock()
		return
	}

	delete(h.clients, client)
	if clients := h.userClients[client.userID]; clients != nil {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userClients, client.userID)
		}
	}

	for roomID := range client.roomIDs() {
		if room, exists := h.rooms[roomID]; exists {
			room.RemoveClient(client)
			if room.IsEmpty() {
				delete(h.rooms, roomID)
			}
		}
	}

	h.stats.mutex.Lock()
	h.stats.ActiveConnections = len(h.clients)
	h.stats.mutex.Unlock()

	active := len(h.clients)
	h.mutex.Unlock()

	client.close()

	logrus.Infof("WebSocket client disconnected: %s (active: %d)", client.userID, active)
}

func (h *Hub) broadcastToRoom(message BroadcastMessage) {
	h.mutex.RLock()
	room := h.rooms[message.RoomID]
	h.mutex.RUnlock()

	if room == nil {
		return
	}

	sent := room.Broadcast(message.Message, message.ExcludeUsers)

	h.stats.mutex.Lock()
	h.stats.MessagesSent += int64(sent)
	h.stats.mutex.Unlock()
}

func (h *Hub) sendMessageToUser(message UserMessage) {
	h.mutex.RLock()
	clients := make([]*Client, 0, len(h.userClients[message.UserID]))
	for client := range h.userClients[message.UserID] {
		clients = append(clients, client)
	}
	h.mutex.RUnlock()

	sent := 0
	for _, client := range clients {
		if client.SendMessage(message.Message) {
			sent++
		}
	}

	h.stats.mutex.Lock()
	h.stats.MessagesSent += int64(sent)
	h.stats.mutex.Unlock()
}

// caller holds h.mutex
func (h *Hub) getOrCreateRoom(roomID string) *Room {
	if room, exists := h.rooms[roomID]; exists {
		return room
	}

	room := NewRoom(roomID)
	h.rooms[roomID] = room
	return room
}
