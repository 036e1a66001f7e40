package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"summariq"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := summariq.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	summariq.SetVerbose(cfg.Verbose)

	// Initialize session database
	db, err := summariq.OpenSessionStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		log.Printf("SESSION_SECRET not set, using a random key; sessions will not survive a restart")
		secret = securecookie.GenerateRandomKey(32)
	}
	cookies := newCookieStore(secret, cfg.CookieSecure, int(cfg.SessionTTL.Seconds()))

	server, err := NewServer(cfg, db, cookies, cfg.NewGenerator())
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.pruneSessions(ctx, cfg.SessionTTL)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Starting server on port %s", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	log.Printf("Server stopped")
}

// pruneSessions removes expired sessions until ctx is done
func (s *Server) pruneSessions(ctx context.Context, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.db.PruneExpired(ctx, ttl)
			if err != nil {
				log.Printf("Failed to prune sessions: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Pruned %d expired sessions", n)
			}
		}
	}
}
