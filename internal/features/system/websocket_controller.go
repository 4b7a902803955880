package system

import (
	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

type WebSocketController struct {
	Hub    *PolicyHub
	logger *zap.Logger
}

func NewWebSocketController(hub *PolicyHub, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		Hub:    hub,
		logger: logger,
	}
}

// HandleWebSocket keeps the connection subscribed to policy events
// until the client goes away. Inbound messages are ignored.
func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	h.Hub.Register(c)
	defer h.Hub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			h.logger.Debug("websocket closed", zap.Error(err))
			break
		}
	}
}
