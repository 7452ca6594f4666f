package catalog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"defi-strategy-agent/internal/common/logger"
	"defi-strategy-agent/pkg/registry"
)

// Server exposes the read-only catalog lookups. It never touches the
// negotiation core; everything it serves is static data.
type Server struct {
	offerings *registry.OfferingRegistry
	logger    logger.Logger
}

func NewServer(offerings *registry.OfferingRegistry, log logger.Logger) *Server {
	return &Server{
		offerings: offerings,
		logger:    log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

// Router builds the chi router for the catalog API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/catalog", func(r chi.Router) {
		r.Get("/chain-risk", s.handleChainRisk)
		r.Get("/asset-profile", s.handleAssetProfile)
		r.Get("/risk-playbook", s.handlePlaybook)
		r.Get("/offerings", s.handleOfferings)
	})
	return r
}

type meta struct {
	Timestamp string `json:"timestamp"`
}

type envelope struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Meta  meta        `json:"meta"`
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		OK:   true,
		Data: data,
		Meta: meta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		OK:    false,
		Error: msg,
		Meta:  meta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChainRisk(w http.ResponseWriter, r *http.Request) {
	chain := r.URL.Query().Get("chain")
	if chain == "" {
		writeData(w, http.StatusOK, KnownChains())
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{
		"chain":           chain,
		"risk_multiplier": ChainRiskMultiplier(chain),
	})
}

func (s *Server) handleAssetProfile(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'symbol' is required")
		return
	}
	writeData(w, http.StatusOK, ProfileFor(symbol))
}

func (s *Server) handlePlaybook(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, Playbook(r.URL.Query().Get("risk")))
}

func (s *Server) handleOfferings(w http.ResponseWriter, _ *http.Request) {
	if s.offerings == nil {
		writeError(w, http.StatusServiceUnavailable, "offering registry not loaded")
		return
	}
	writeData(w, http.StatusOK, s.offerings)
}
