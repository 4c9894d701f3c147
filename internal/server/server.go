package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/autoseat/claimlens/internal/enrich"
	"github.com/autoseat/claimlens/internal/model"
)

// Server serves the claims sync API
type Server struct {
	store      *Store
	token      string
	hub        *hub
	classifier enrich.Provider
	log        *zap.Logger
	httpServer *http.Server
}

// New creates a server around a store. classifier may be nil, in which
// case the AI classify endpoint answers with empty results.
func New(store *Store, cfg model.ServerConfig, classifier enrich.Provider, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		store:      store,
		token:      cfg.Token,
		hub:        newHub(),
		classifier: classifier,
		log:        log,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/claims", s.requireToken(s.handleClaims))
	mux.HandleFunc("POST /api/claims/upload", s.requireToken(s.handleUpload))
	mux.HandleFunc("GET /api/notifications/stream", s.requireToken(s.handleStream))
	mux.HandleFunc("POST /api/ai/classify", s.requireToken(s.handleClassify))
	return mux
}

// ListenAndServe runs the server until the context is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", s.httpServer.Addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// Handler exposes the route table for tests
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// requireToken accepts the token as a bearer header or a token query
// parameter; the query form exists for EventSource clients that cannot
// set headers
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if s.token != "" && token != s.token {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClaims(w http.ResponseWriter, r *http.Request) {
	since := r.URL.Query().Get("since")

	var claims []model.CleanedClaim
	var err error
	if since != "" {
		claims, err = s.store.Since(since)
	} else {
		claims, err = s.store.All()
	}
	if err != nil {
		s.log.Error("list claims failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	version, lastUpdated, err := s.store.Meta()
	if err != nil {
		s.log.Error("read meta failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":        claims,
		"version":     version,
		"lastUpdated": lastUpdated,
	})
}

type uploadPayload struct {
	Data       []model.CleanedClaim `json:"data"`
	Source     string               `json:"source"`
	UploadedAt string               `json:"uploadedAt"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var payload uploadPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(payload.Data) == 0 {
		writeError(w, http.StatusBadRequest, "data must be a non-empty array")
		return
	}

	version, lastUpdated, err := s.store.ReplaceAll(payload.Data)
	if err != nil {
		s.log.Error("upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	s.log.Info("claims uploaded",
		zap.Int("count", len(payload.Data)),
		zap.String("source", payload.Source),
		zap.String("version", version))

	s.hub.broadcast(Notification{
		Type:        "claims.updated",
		Version:     version,
		LastUpdated: lastUpdated,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"count":       len(payload.Data),
		"version":     version,
		"lastUpdated": lastUpdated,
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "retry: 10000\n\n")

	version, lastUpdated, err := s.store.Meta()
	if err == nil {
		writeEvent(w, Notification{Type: "connected", Version: version, LastUpdated: lastUpdated})
	}
	flusher.Flush()

	events := s.hub.subscribe()
	defer s.hub.unsubscribe(events)

	for {
		select {
		case <-r.Context().Done():
			return
		case event := <-events:
			writeEvent(w, event)
			flusher.Flush()
		}
	}
}

type classifyPayload struct {
	Claims []enrich.Request `json:"claims"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var payload classifyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	results := map[string]enrich.Result{}
	if s.classifier != nil && len(payload.Claims) > 0 {
		var err error
		results, err = s.classifier.ClassifyBatch(r.Context(), payload.Claims)
		if err != nil {
			s.log.Warn("classification failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "classification failed")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func writeEvent(w http.ResponseWriter, n Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
