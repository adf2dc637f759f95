package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"account-monitor/internal/logger"
)

const maxPayloadBytes = 1 << 20

type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	router     *mux.Router
	httpServer *http.Server
	store      *Store
	config     *ServerConfig
}

func NewServer(config *ServerConfig, store *Store) *Server {
	s := &Server{
		router: mux.NewRouter(),
		store:  store,
		config: config,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tick", s.handleTick).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet, http.MethodOptions)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	logger.Info(context.Background(), "Starting dashboard server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info(ctx, "Shutting down dashboard server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// tickHeader holds the routing fields of an incoming payload; the rest is
// stored as sent. Platform may be any JSON value, only "MT5" routes to mt5.
type tickHeader struct {
	ID       any `json:"id"`
	Platform any `json:"platform"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var hdr tickHeader
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&hdr); err != nil || !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	id, ok := accountKey(hdr.ID)
	if !ok {
		respondError(w, http.StatusBadRequest, "payload is missing id")
		return
	}

	platform, _ := hdr.Platform.(string)
	box := s.store.Put(platform, id, body)
	logger.Info(r.Context(), "Account update received", "box", box, "account_id", id)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "data received")
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Snapshot())
}

// accountKey renders a JSON id (number or string) as the map key.
func accountKey(v any) (string, bool) {
	switch id := v.(type) {
	case json.Number:
		return id.String(), true
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	}
	return "", false
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}
