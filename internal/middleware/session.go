package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"mentor-backend/internal/session"
)

// SessionHeader carries the caller's session token in both directions.
const SessionHeader = "X-Session-ID"

const SessionIDKey contextKey = "session_id"

type contextKey string

// Session resolves the caller's session from SessionHeader, minting a new one
// when the header is missing or invalid, and echoes the token back.
func Session(ids *session.Identities) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(SessionHeader)
			id, ok := ids.Resolve(token)
			if !ok {
				var err error
				id, token, err = ids.Issue()
				if err != nil {
					zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to issue session")
					writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not start a session", r)
					return
				}
			}

			w.Header().Set(SessionHeader, token)
			ctx := context.WithValue(r.Context(), SessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID extracts the session ID from request context
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}
