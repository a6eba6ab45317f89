package handler

import (
	"net/http"

	"github.com/teamdash/break-service/internal/api"
	"github.com/teamdash/break-service/internal/models"
	"github.com/teamdash/break-service/internal/service"
	"github.com/teamdash/break-service/internal/websockets"
)

type WebSocketHandler struct {
	hub         *websockets.Hub
	authService *service.AuthService
}

func NewWebSocketHandler(hub *websockets.Hub, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

// ServeHTTP upgrades a viewer connection. The session token arrives as a
// query parameter because browsers cannot set headers on WebSocket
// upgrades; it binds the connection to a user id and role so notification
// routing and command checks have an identity to work with.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		api.BadRequest(w, "token is required")
		return
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		api.Unauthorized(w, "invalid or expired token")
		return
	}

	conn, err := websockets.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// If upgrading fails, the upgrader has already written the error to the response
		return
	}

	websockets.ServeWs(h.hub, conn, claims.UserID, models.UserRole(claims.Role))
}
