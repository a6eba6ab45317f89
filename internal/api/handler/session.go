package handler

import (
	"encoding/json"
	"net/http"

	"github.com/teamdash/break-service/internal/api"
	"github.com/teamdash/break-service/internal/middleware"
	"github.com/teamdash/break-service/internal/models"
	"github.com/teamdash/break-service/internal/service"
)

// SessionHandler handles login and logout
type SessionHandler struct {
	authService *service.AuthService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{
		authService: authService,
	}
}

// HandleLogin handles user login. A rejected login is a transient message
// to the caller, never persisted state.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var loginReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		api.BadRequest(w, "Invalid request body")
		return
	}

	token, user, err := h.authService.Login(r.Context(), loginReq.Username, loginReq.Password)
	if err != nil {
		api.Unauthorized(w, err.Error())
		return
	}

	response := struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}{
		Token: token,
		User:  *user,
	}

	respondJSON(w, response)
}

// HandleLogout forces the authenticated user Offline.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "User ID not found in context", http.StatusInternalServerError)
		return
	}

	h.authService.Logout(r.Context(), userID)

	respondJSON(w, struct {
		Success bool `json:"success"`
	}{Success: true})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
