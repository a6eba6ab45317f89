// internal/router/router.go
package router

import (
	"net/http"

	"github.com/teamdash/break-service/internal/api/handler"
	"github.com/teamdash/break-service/internal/middleware"
	"github.com/teamdash/break-service/internal/models"
	"github.com/teamdash/break-service/internal/service"
	"github.com/teamdash/break-service/internal/websockets"
)

// Router handles HTTP routing
type Router struct {
	mux       *http.ServeMux
	auth      *service.AuthService
	authority *service.Authority
	hub       *websockets.Hub
}

// New creates a new router
func New(auth *service.AuthService, authority *service.Authority, hub *websockets.Hub) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		auth:      auth,
		authority: authority,
		hub:       hub,
	}

	r.setupRoutes()

	return r
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// setupRoutes sets up the routes for the router
func (r *Router) setupRoutes() {
	sessions := handler.NewSessionHandler(r.auth)
	ws := handler.NewWebSocketHandler(r.hub, r.auth)
	admin := handler.NewAdminHandler(r.authority)

	// Public routes
	r.mux.Handle("/api/auth/login", middleware.Logger(http.HandlerFunc(sessions.HandleLogin)))
	r.mux.Handle("/ws", ws)

	// Protected routes
	apiHandler := http.NewServeMux()
	apiHandler.Handle("/auth/logout", http.HandlerFunc(sessions.HandleLogout))
	apiHandler.Handle("/admin/reset", middleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(admin.HandleReset)))

	apiChain := middleware.Logger(
		middleware.Auth(r.auth)(
			apiHandler,
		),
	)

	r.mux.Handle("/api/", http.StripPrefix("/api", apiChain))
}
