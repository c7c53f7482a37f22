package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mentor-backend/internal/handlers"
	"mentor-backend/internal/middleware"
	"mentor-backend/internal/session"
	"mentor-backend/internal/websocket"
)

func New(
	mentorHandler *handlers.MentorHandler,
	wsHub *websocket.Hub,
	identities *session.Identities,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS())

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(identities))
		r.Post("/mentor", mentorHandler.Mentor)
		r.Post("/chat", mentorHandler.Chat)
	})

	r.Get("/ws", wsHub.HandleWebSocket)

	return r
}
