package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teamdash/break-service/internal/config"
	"github.com/teamdash/break-service/internal/policy"
	"github.com/teamdash/break-service/internal/roster"
	"github.com/teamdash/break-service/internal/router"
	"github.com/teamdash/break-service/internal/service"
	"github.com/teamdash/break-service/internal/store"
	"github.com/teamdash/break-service/internal/websockets"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open snapshot persistence
	snapshots, err := store.Open(cfg.Snapshot.Path)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer snapshots.Close()

	// Seed the roster and build the authority around it
	users := roster.NewStore(roster.Seed())

	rules := policy.DefaultRules()
	if cfg.Breaks.MaxPerDay > 0 {
		rules.MaxBreaksPerDay = cfg.Breaks.MaxPerDay
	}

	hub := websockets.NewHub()

	authority := service.NewAuthority(users, rules, service.AuthorityConfig{
		DefaultDurationMinutes: cfg.Breaks.DurationMinutes,
		SweepInterval:          cfg.Breaks.SweepInterval(),
	}, hub, hub, snapshots)
	hub.Bind(authority)

	// Restore the last persisted snapshot, if any
	if snap, err := snapshots.Load(context.Background()); err != nil {
		log.Printf("Failed to load snapshot, starting from seed roster: %v", err)
	} else if snap != nil {
		authority.Restore(*snap)
		log.Println("Restored roster from persisted snapshot")
	}

	go hub.Run()

	// Start the expiry sweeper
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go authority.RunSweeper(sweepCtx)

	auth := service.NewAuthService(users, authority, service.JWTConfig{
		Secret:    cfg.JWT.Secret,
		ExpiresIn: cfg.JWT.ExpiresIn,
	})

	// Initialize router
	r := router.New(auth, authority, hub)

	// Create HTTP server
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
