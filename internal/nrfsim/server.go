// Package nrfsim is an in-repo NRF HTTP fixture for tests, exercised by
// its own server_test.go; the internal/sbi/nrf client tests use their own
// httptest.Server handlers rather than this fixture. Grounded on
// nf/nrf/internal/server/{server.go,handlers.go} in the teacher, trimmed
// to the register/deregister/heartbeat/search/oauth2-token surface this
// AMF's NRF client actually calls.
package nrfsim

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/your-org/omnipath/internal/metrics"
)

// Server is a minimal in-memory NRF fixture: a chi router over a map of
// registered NF profiles, keyed by nfInstanceId.
type Server struct {
	mu       sync.Mutex
	profiles map[string]json.RawMessage
	router   *chi.Mux
	log      *zap.Logger
}

// New constructs an empty Server.
func New(log *zap.Logger) *Server {
	s := &Server{
		profiles: make(map[string]json.RawMessage),
		router:   chi.NewRouter(),
		log:      log,
	}
	s.routes()
	return s
}

// Start wraps the Server in an httptest.Server and returns it, for tests
// that need a real base URL to point an nrf.Client at.
func (s *Server) Start() *httptest.Server {
	return httptest.NewServer(s.router)
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(10 * time.Second))

	s.router.Route("/nnrf-nfm/v1/nf-instances/{nfInstanceId}", func(r chi.Router) {
		r.Put("/", s.handleRegister)
		r.Patch("/", s.handleUpdate)
		r.Delete("/", s.handleDeregister)
	})
	s.router.Get("/nnrf-disc/v1/nf-instances", s.handleSearch)
	s.router.Post("/oauth2/token", s.handleToken)
}

// handleRegister mirrors TS 29.510 §5.2.2.2.1: a first-time registration
// gets a 201 with the NRF's own assigned instance id in Location
// (distinct from the id the client PUT to), a re-registration of an id
// the NRF already knows gets a 200 keeping that same id.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	proposedID := chi.URLParam(r, "nfInstanceId")
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	_, existed := s.profiles[proposedID]
	id := proposedID
	if !existed {
		id = uuid.New().String()
	}
	s.profiles[id] = raw
	count := len(s.profiles)
	s.mu.Unlock()

	metrics.RecordNFRegistration("AMF", "success")
	metrics.SetRegisteredNFs("AMF", count)

	w.Header().Set("Content-Type", "application/json")
	if existed {
		w.WriteHeader(http.StatusOK)
	} else {
		w.Header().Set("Location", "/nnrf-nfm/v1/nf-instances/"+id)
		w.WriteHeader(http.StatusCreated)
	}
	_, _ = w.Write(raw)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nfInstanceId")
	s.mu.Lock()
	_, ok := s.profiles[id]
	s.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	metrics.RecordHeartbeat("AMF")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeregister(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nfInstanceId")
	s.mu.Lock()
	delete(s.profiles, id)
	count := len(s.profiles)
	s.mu.Unlock()

	metrics.RecordNFDeregistration("AMF")
	metrics.SetRegisteredNFs("AMF", count)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	targetType := r.URL.Query().Get("target-nf-type")
	metrics.RecordDiscoveryRequest(targetType, "success")

	s.mu.Lock()
	instances := make([]json.RawMessage, 0, len(s.profiles))
	for _, p := range s.profiles {
		instances = append(instances, p)
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"nfInstances": instances})
}

// handleToken expects the client_credentials grant as a form-urlencoded
// body per RFC 6749 §4.4, not JSON — the one NRF endpoint with a
// different Content-Type than the rest of this fixture.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": "nrfsim-token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}
