package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"mentor-backend/internal/app"
	"mentor-backend/internal/config"
	"mentor-backend/internal/handlers"
	"mentor-backend/internal/logging"
	"mentor-backend/internal/router"
	"mentor-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	logging.Setup(cfg.Env, cfg.LogLevel)
	log.Info().Msg("Starting Mentor AI backend")

	// ──── Step 2: Model Client, Session Store, Session Manager ────
	mentor, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Initialization failed")
	}
	defer mentor.Close()
	log.Info().Str("store", mentor.StoreKind()).Msg("Sessions ready")

	// ──── Step 3: Handlers ────
	mentorHandler := handlers.NewMentorHandler(mentor.Sessions, cfg.ErrorMode)
	wsHub := websocket.NewHub(mentor.Sessions, cfg.ErrorMode)

	// ──── Step 4: Start HTTP Server ────
	r := router.New(mentorHandler, wsHub, mentor.Identities)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ModelTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", server.Addr).Msg("Failed to listen")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("addr", "http://localhost:"+cfg.Port).
		Str("scope", cfg.SessionScope).
		Str("error_mode", cfg.ErrorMode).
		Msg("Mentor AI ready")

	if err := serve(server, ln, ctx.Done(), wsHub.Close, cfg.ModelTimeout+30*time.Second); err != nil {
		log.Error().Err(err).Msg("Server error")
		return
	}
	log.Info().Msg("Server stopped")
}

// serve runs server on ln until stop fires, then calls onStop and waits up to
// drain for in-flight requests before returning.
func serve(server *http.Server, ln net.Listener, stop <-chan struct{}, onStop func(), drain time.Duration) error {
	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	log.Info().Msg("Shutting down...")
	if onStop != nil {
		onStop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown did not complete: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
