// Package mockserver is a local stand-in for the LibMS backend. It
// implements the REST surface the client consumes, including the
// backend's inconsistent response envelopes, so the full client stack can
// be exercised without the real service. It is a development aid, not a
// production server.
package mockserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/me/shelfctl/internal/store"
)

// Config holds configuration for the mock backend.
type Config struct {
	Addr      string // Listen address (default ":5000")
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: text, json
	DBPath    string // SQLite path (":memory:" for testing)
	JWTSecret string // Token signing secret
}

// DefaultConfig returns sensible defaults for local development.
func DefaultConfig() Config {
	return Config{
		Addr:      ":5000",
		LogLevel:  "info",
		LogFormat: "text",
		DBPath:    ":memory:",
		JWTSecret: "dev-only-secret",
	}
}

// Server is the mock LibMS backend.
type Server struct {
	router chi.Router
	logger *slog.Logger
	store  store.Store
	tokens *tokenIssuer
	now    func() time.Time
}

// New creates a Server with all routes registered.
func New(cfg Config, st store.Store, logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger.With("component", "mockserver"),
		store:  st,
		tokens: newTokenIssuer(cfg.JWTSecret),
		now:    time.Now,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api", func(r chi.Router) {
		// Public endpoints.
		r.Get("/libraries", s.handleListLibraries)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/owner/registration", s.handleOwnerRegistration)

		// Everything else needs a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/auth/userIssueInfo", s.handleUserIssueInfo)
			r.Get("/users", s.handleListUsers)

			r.Route("/books", func(r chi.Router) {
				r.Get("/", s.handleListBooks)
				r.Post("/", s.handleAddBook)
				r.Post("/remove", s.handleRemoveBook)
				r.Put("/{isbn}", s.handleUpdateBook)
			})

			r.Post("/owner/assign-admin", s.handleAssignAdmin)
			r.Post("/owner/revoke-admin", s.handleRevokeAdmin)

			r.Post("/requestEvents", s.handleRaiseRequest)
			r.Route("/issueRequests", func(r chi.Router) {
				r.Get("/", s.handleListRequests)
				r.Put("/{id}", s.handleUpdateRequest)
			})
		})
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}
