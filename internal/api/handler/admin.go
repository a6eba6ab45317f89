package handler

import (
	"net/http"

	"github.com/teamdash/break-service/internal/service"
)

// AdminHandler exposes the destructive admin operations over HTTP for
// tooling that has no WebSocket session.
type AdminHandler struct {
	authority *service.Authority
}

func NewAdminHandler(authority *service.Authority) *AdminHandler {
	return &AdminHandler{
		authority: authority,
	}
}

// HandleReset replaces the roster with the seed set and restores the
// default break duration. Connected viewers receive the reset state as a
// regular snapshot. Not undoable.
func (h *AdminHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.authority.Reset()

	respondJSON(w, struct {
		Success bool `json:"success"`
	}{Success: true})
}
