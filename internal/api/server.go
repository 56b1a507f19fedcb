package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ajitpratap0/openclaw-concierge/internal/chat"
	"github.com/ajitpratap0/openclaw-concierge/internal/conversation"
	"github.com/ajitpratap0/openclaw-concierge/internal/lifecycle"
	"github.com/ajitpratap0/openclaw-concierge/internal/metrics"
	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/internal/preferences"
)

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

// Server is an HTTP API server that exposes the concierge.
type Server struct {
	chat      *chat.Service
	prefs     preferences.Store
	lifecycle *lifecycle.Manager
	logger    *slog.Logger
	authToken string // empty = no auth required
}

// NewServer creates a new Server. prefs may be nil, which disables the
// preference endpoints.
func NewServer(svc *chat.Service, prefs preferences.Store, logger *slog.Logger, authToken string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		chat:      svc,
		prefs:     prefs,
		logger:    logger,
		authToken: authToken,
	}
}

// SetLifecycle enables POST /v1/lifecycle.
func (s *Server) SetLifecycle(m *lifecycle.Manager) { s.lifecycle = m }

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check, no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /v1/chat", s.auth(s.handleChat))
	mux.HandleFunc("POST /v1/detect", s.auth(s.handleDetect))
	mux.HandleFunc("POST /v1/classify", s.auth(s.handleClassify))
	mux.HandleFunc("POST /v1/recommend", s.auth(s.handleRecommend))
	mux.HandleFunc("GET /v1/conversations", s.auth(s.handleListConversations))
	mux.HandleFunc("GET /v1/conversations/{id}", s.auth(s.handleGetConversation))
	mux.HandleFunc("DELETE /v1/conversations/{id}", s.auth(s.handleDeleteConversation))
	mux.HandleFunc("GET /v1/preferences/{user}", s.auth(s.handleGetPreferences))
	mux.HandleFunc("PUT /v1/preferences/{user}", s.auth(s.handlePutPreferences))
	mux.HandleFunc("POST /v1/lifecycle", s.auth(s.handleLifecycle))
	mux.HandleFunc("GET /v1/stats", s.auth(s.handleStats))
	mux.Handle("GET /debug/vars", s.auth(expvar.Handler().ServeHTTP))

	return mux
}

// --- middleware ---

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// messageRequest is the body accepted by the analysis endpoints.
type messageRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.TurnRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.chat.Turn(r.Context(), req))
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.writeJSON(w, http.StatusOK, s.chat.Engine().DetectLanguage(req.Message))
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !s.decode(w, r, &req) {
		return
	}
	items := s.chat.Catalog(r.Context())
	s.writeJSON(w, http.StatusOK, s.chat.Engine().Classify(req.Message, items))
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	s.writeJSON(w, http.StatusOK, s.chat.Recommend(r.Context(), req.Message, req.UserID))
}

// conversationResponse is returned by GET /v1/conversations/{id}.
type conversationResponse struct {
	conversation.Snapshot
	History []conversation.Turn `json:"history"`
}

func (s *Server) handleListConversations(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"conversations": s.chat.Registry().List()})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := s.chat.Registry().Get(r.PathValue("id"))
	if errors.Is(err, conversation.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to get conversation")
		return
	}
	s.writeJSON(w, http.StatusOK, conversationResponse{Snapshot: conv.Snapshot(), History: conv.History()})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.End(r.PathValue("id")); err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "failed to end conversation")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	if s.prefs == nil {
		s.writeError(w, http.StatusNotImplemented, "preference store not configured")
		return
	}
	p, err := s.prefs.Get(r.Context(), r.PathValue("user"))
	if errors.Is(err, preferences.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "preferences not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get preferences", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get preferences")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	if s.prefs == nil {
		s.writeError(w, http.StatusNotImplemented, "preference store not configured")
		return
	}
	var p models.UserPreferenceProfile
	if !s.decode(w, r, &p) {
		return
	}
	user := r.PathValue("user")
	if err := s.prefs.Put(r.Context(), user, p); err != nil {
		s.logger.Error("failed to store preferences", "user", user, "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to store preferences")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"stored": true})
}

// lifecycleRequest is the body accepted by POST /v1/lifecycle.
type lifecycleRequest struct {
	DryRun bool `json:"dry_run"`
}

func (s *Server) handleLifecycle(w http.ResponseWriter, r *http.Request) {
	if s.lifecycle == nil {
		s.writeError(w, http.StatusNotImplemented, "lifecycle manager not configured")
		return
	}
	var req lifecycleRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.lifecycle.Run(r.Context(), req.DryRun)
	if err != nil {
		s.logger.Error("lifecycle run failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "lifecycle run failed")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// statsResponse is returned by GET /v1/stats.
type statsResponse struct {
	Conversations int              `json:"conversations"`
	CatalogItems  int              `json:"catalog_items"`
	Counters      map[string]int64 `json:"counters"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statsResponse{
		Conversations: s.chat.Registry().Len(),
		CatalogItems:  len(s.chat.Catalog(r.Context())),
		Counters:      metrics.Snapshot(),
	})
}

// --- helpers ---

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
