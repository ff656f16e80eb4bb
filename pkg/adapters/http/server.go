package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jvm123/botstory/internal/logging"
	"github.com/jvm123/botstory/pkg/domain"
)

// SessionCookie carries the session ID between requests.
const SessionCookie = "botstory_session"

// Responder is the session-facing surface of the bot host. One call is
// one conversational turn.
type Responder interface {
	Respond(ctx context.Context, sessionID, text string) (domain.Reply, bool, error)
	Touch(sessionID string)
}

// Server exposes the chatbot over HTTP.
type Server struct {
	sessions Responder
	logger   *slog.Logger
	metrics  *Metrics
	registry *prometheus.Registry
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics attaches a metrics registry and serves it on /metrics.
func WithMetrics(registry *prometheus.Registry) Option {
	return func(s *Server) { s.registry = registry }
}

// NewHandler creates the HTTP handler for the chatbot host.
func NewHandler(sessions Responder, opts ...Option) http.Handler {
	server := &Server{
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.registry == nil {
		server.registry = prometheus.NewRegistry()
	}
	server.metrics = NewMetrics(server.registry)

	r := chi.NewRouter()
	r.Get("/health", server.Health)
	r.Get("/chatbot/ping", server.Ping)
	r.Post("/chatbot/bot", server.Query)
	r.Handle("/metrics", promhttp.HandlerFor(server.registry, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Health handles the GET /health request.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ping handles the GET /chatbot/ping request. It refreshes the session
// activity clock; pinging without a session is meaningless.
func (s *Server) Ping(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": false})
		return
	}
	s.sessions.Touch(cookie.Value)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// QueryRequest is the POST /chatbot/bot body.
type QueryRequest struct {
	Text string `json:"text"`
}

// Query handles the POST /chatbot/bot request: one turn of the
// conversation for the cookie-identified session.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var body QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Query: Invalid request body", "err", err)
		return
	}
	if body.Text == "" {
		http.Error(w, "Missing text", http.StatusBadRequest)
		return
	}

	sessionID := s.sessionID(w, r)

	reply, isNew, err := s.sessions.Respond(r.Context(), sessionID, body.Text)
	if err != nil {
		s.metrics.Turns.WithLabelValues("error").Inc()
		if errors.Is(err, context.Canceled) {
			return
		}
		http.Error(w, "Query failed", http.StatusInternalServerError)
		s.logger.Error("Query failed", "session_id", sessionID, "err", err)
		return
	}

	s.metrics.Turns.WithLabelValues("ok").Inc()
	if isNew {
		s.metrics.Sessions.Inc()
	}

	if reply.Buttons == nil {
		reply.Buttons = []string{}
	}
	writeJSON(w, http.StatusOK, reply)
}

// sessionID reads the session cookie, assigning a fresh ID when the
// client has none yet.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "err", err)
	}
}
