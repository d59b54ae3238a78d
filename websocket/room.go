package websocket

import (
	"sync"
	"time"

	"wellnest/models"

	"github.com/sirupsen/logrus"
)

// Room is a delivery fan-out target: either one user's connections or
// one group's connected members.
type Room struct {
	ID string

	clients map[*Client]bool
	mutex   sync.RWMutex

	createdAt    time.Time
	lastActivity time.Time
}

func NewRoom(id string) *Room {
	logrus.Debugf("Created room: %s", id)
	return &Room{
		ID:        id,
		clients:   make(map[*Client]bool),
		createdAt: time.Now(),
	}
}

func (r *Room) AddClient(client *Client) {
	if client == nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.clients[client] {
		return
	}

	r.clients[client] = true
	r.lastActivity = time.Now()

	logrus.Debugf("Client %s joined room %s (size: %d)", client.userID, r.ID, len(r.clients))
}

func (r *Room) RemoveClient(client *Client) {
	if client == nil {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.clients[client] {
		return
	}

	delete(r.clients, client)
	r.lastActivity = time.Now()

	logrus.Debugf("Client %s left room %s (size: %d)", client.userID, r.ID, len(r.clients))
}

// Broadcast delivers the message to every client in the room except the
// excluded users. Returns the number of successful sends; clients with
// full send buffers are skipped, not blocked on.
func (r *Room) Broadcast(message models.WSMessage, excludeUsers []string) int {
	excluded := make(map[string]bool, len(excludeUsers))
	for _, id := range excludeUsers {
		excluded[id] = true
	}

	r.mutex.RLock()
	clients := make([]*Client, 0, len(r.clients))
	for client := range r.clients {
		if !excluded[client.userID] {
			clients = append(clients, client)
		}
	}
	r.mutex.RUnlock()

	sent := 0
	for _, client := range clients {
		if client.SendMessage(message) {
			sent++
		}
	}

	r.mutex.Lock()
	r.lastActivity = time.Now()
	r.mutex.Unlock()

	return sent
}

func (r *Room) IsEmpty() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.clients) == 0
}

func (r *Room) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.clients)
}
