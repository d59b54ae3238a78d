// controllers/websocket_controller.go
package controllers

import (
	"net/http"

	"wellnest/middleware"
	"wellnest/utils"
	"wellnest/websocket"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Token auth gates the connection; origins are open
		return true
	},
}

type WebSocketController struct {
	hub            *websocket.Hub
	authMiddleware *middleware.AuthMiddleware
}

func NewWebSocketController(hub *websocket.Hub, authMiddleware *middleware.AuthMiddleware) *WebSocketController {
	return &WebSocketController{
		hub:            hub,
		authMiddleware: authMiddleware,
	}
}

// HandleConnection upgrades the request and registers the client
// @Summary WebSocket endpoint
// @Description Realtime event channel; authenticate with ?token=<access token>
// @Tags WebSocket
// @Param token query string true "Access token"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} models.APIResponse
// @Router /ws [get]
func (wc *WebSocketController) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.UnauthorizedResponse(c, "Authentication token required")
		return
	}

	user, err := wc.authMiddleware.WebSocketAuth(c.Request.Context(), token)
	if err != nil {
		logrus.Debugf("WebSocket auth failed: %v", err)
		utils.UnauthorizedResponse(c, "Invalid authentication token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("WebSocket upgrade failed for %s: %v", user.ID.Hex(), err)
		return
	}

	groupIDs := make([]string, 0, len(user.SocialData.Groups))
	for _, g := range user.SocialData.Groups {
		groupIDs = append(groupIDs, g.GroupID.Hex())
	}

	client := websocket.NewClient(conn, wc.hub, user.ID.Hex(), groupIDs)
	wc.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// GetStats reports hub connection statistics
// @Summary WebSocket stats
// @Description Connection and room counts for the realtime hub
// @Tags WebSocket
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse
// @Router /ws/stats [get]
func (wc *WebSocketController) GetStats(c *gin.Context) {
	active, rooms, total, sent := wc.hub.GetStats()

	utils.SuccessResponse(c, "WebSocket statistics", gin.H{
		"activeConnections": active,
		"activeRooms":       rooms,
		"totalConnections":  total,
		"messagesSent":      sent,
	})
}
