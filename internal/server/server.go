// Package server wires the stores, handlers, and middleware into the
// HTTP routing tree.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmaloney/flatnote/internal/auth"
	"github.com/dmaloney/flatnote/internal/handler"
	"github.com/dmaloney/flatnote/internal/middleware"
	"github.com/dmaloney/flatnote/internal/store"
	ws "github.com/dmaloney/flatnote/internal/websocket"
)

type Server struct {
	authH       *handler.AuthHandler
	noteH       *handler.NoteHandler
	tokens      *auth.TokenService
	hub         *ws.Hub
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(users store.UserStore, notes store.NoteStore, tokens *auth.TokenService, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	return &Server{
		authH:       handler.NewAuthHandler(users, tokens, logger.With("component", "auth")),
		noteH:       handler.NewNoteHandler(notes, hub, logger.With("component", "note")),
		tokens:      tokens,
		hub:         hub,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Hub returns the change-feed hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes. The credential endpoints are rate limited by
	// client IP against brute-force attempts.
	outerMux.HandleFunc("POST /auth/register", s.rateLimited(s.authH.Register))
	outerMux.HandleFunc("POST /auth/login", s.rateLimited(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes sit behind the token middleware.
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /note", s.noteH.List)
	protectedMux.HandleFunc("POST /note", s.noteH.Create)
	protectedMux.HandleFunc("GET /note/{id}", s.noteH.Get)
	protectedMux.HandleFunc("PUT /note/{id}", s.noteH.Update)
	protectedMux.HandleFunc("DELETE /note/{id}", s.noteH.Delete)
	protectedMux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	authMiddleware := middleware.RequireAuth(s.tokens)
	outerMux.Handle("/note", authMiddleware(protectedMux))
	outerMux.Handle("/note/", authMiddleware(protectedMux))
	outerMux.Handle("/ws", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
