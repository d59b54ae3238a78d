package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"wellnest/models"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Buffer size for client send channel
	sendBufferSize = 64
)

// Client message types the server accepts.
const (
	clientMsgPing       = "ping"
	clientMsgJoinGroup  = "join-group"
	clientMsgLeaveGroup = "leave-group"
)

type Client struct {
	conn *websocket.Conn

	// Authenticated identity, set before registration
	userID string

	// Groups the user belonged to at connect time; the hub joins
	// their rooms on registration
	groupIDs []string

	connectedAt time.Time

	// Buffered channel of outbound messages; carries WSMessage events
	// and WSResponse replies, serialized by the write pump
	send chan interface{}

	hub *Hub

	// Rooms this client currently occupies
	rooms     map[string]bool
	roomMutex sync.RWMutex

	closeOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(conn *websocket.Conn, hub *Hub, userID string, groupIDs []string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		conn:        conn,
		hub:         hub,
		userID:      userID,
		groupIDs:    groupIDs,
		connectedAt: time.Now(),
		send:        make(chan interface{}, sendBufferSize),
		rooms:       make(map[string]bool),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (c *Client) UserID() string {
	return c.userID
}

// SendMessage queues a message for delivery. Returns false when the
// client's buffer is full or the client is closing; slow consumers are
// skipped rather than blocking the hub.
func (c *Client) SendMessage(message models.WSMessage) bool {
	select {
	case c.send <- message:
		return true
	case <-c.ctx.Done():
		return false
	default:
		logrus.Warnf("Dropping message for slow client %s", c.userID)
		return false
	}
}

func (c *Client) ReadPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Errorf("WebSocket read error for user %s: %v", c.userID, err)
			}
			return
		}

		c.handleMessage(data)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				logrus.Errorf("WebSocket write error for user %s: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg models.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendResponse(models.WSResponse{
			Type:      "error",
			Success:   false,
			Error:     "invalid message format",
			Timestamp: time.Now(),
		})
		return
	}

	switch msg.Type {
	case clientMsgPing:
		c.sendResponse(models.WSResponse{
			Type:      "pong",
			Success:   true,
			RequestID: msg.RequestID,
			Timestamp: time.Now(),
		})

	case clientMsgJoinGroup:
		c.handleJoinGroup(msg)

	case clientMsgLeaveGroup:
		if msg.GroupID == "" {
			c.sendError(msg.RequestID, "groupId required")
			return
		}
		c.hub.LeaveRoom(c, GroupRoom(msg.GroupID))
		c.sendAck(msg.Type, msg.RequestID)

	default:
		c.sendError(msg.RequestID, "unknown message type: "+msg.Type)
	}
}

func (c *Client) handleJoinGroup(msg models.WSMessage) {
	if msg.GroupID == "" {
		c.sendError(msg.RequestID, "groupId required")
		return
	}

	checker := c.hub.CanJoinGroup
	if checker == nil {
		c.sendError(msg.RequestID, "group join not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.ctx, 5*time.Second)
	defer cancel()

	if !checker(ctx, c.userID, msg.GroupID) {
		c.sendError(msg.RequestID, "not a member of this group")
		return
	}

	c.hub.JoinRoom(c, GroupRoom(msg.GroupID))
	c.sendAck(msg.Type, msg.RequestID)
}

func (c *Client) sendAck(msgType, requestID string) {
	c.sendResponse(models.WSResponse{
		Type:      msgType,
		Success:   true,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

func (c *Client) sendError(requestID, message string) {
	c.sendResponse(models.WSResponse{
		Type:      "error",
		Success:   false,
		Error:     message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

func (c *Client) sendResponse(resp models.WSResponse) {
	select {
	case c.send <- resp:
	case <-c.ctx.Done():
	default:
		logrus.Debugf("Dropping response for slow client %s", c.userID)
	}
}

func (c *Client) trackRoom(roomID string) {
	c.roomMutex.Lock()
	defer c.roomMutex.Unlock()
	c.rooms[roomID] = true
}

func (c *Client) untrackRoom(roomID string) {
	c.roomMutex.Lock()
	defer c.roomMutex.Unlock()
	delete(c.rooms, roomID)
}

func (c *Client) roomIDs() map[string]bool {
	c.roomMutex.RLock()
	defer c.roomMutex.RUnlock()

	out := make(map[string]bool, len(c.rooms))
	for id := range c.rooms {
		out[id] = true
	}
	return out
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.cancel()
	})
}
