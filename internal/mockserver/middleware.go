package mockserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/me/shelfctl/internal/store"
	"github.com/me/shelfctl/pkg/model"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// userFromContext extracts the authenticated user from request context.
func userFromContext(ctx context.Context) *store.User {
	if u, ok := ctx.Value(ctxKeyUser).(*store.User); ok {
		return u
	}
	return nil
}

// loggingMiddleware logs HTTP requests at INFO level (method, path, status, duration).
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := uuid.NewString()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			w.Header().Set("X-Request-ID", reqID)

			next.ServeHTTP(sw, r)

			logger.Info("request",
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// authMiddleware validates the bearer token and loads the user into
// context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "authorization header missing")
			return
		}

		userID, err := s.tokens.verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := s.store.GetUserByID(r.Context(), userID)
		if err != nil || user == nil {
			writeError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole fetches the authenticated user and checks it against the
// allowed roles, writing a 403 envelope itself on mismatch.
func (s *Server) requireRole(w http.ResponseWriter, r *http.Request, roles ...model.Role) *store.User {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}
	for _, role := range roles {
		if user.Role == role {
			return user
		}
	}
	writeError(w, http.StatusForbidden, "insufficient permissions")
	return nil
}

// writeJSON writes an arbitrary payload. Each handler picks its own
// envelope shape on purpose: the real backend is inconsistent and the
// client must cope.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeMessage writes the common {"message": ...} mutation envelope.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError writes the {"error": ...} failure envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
