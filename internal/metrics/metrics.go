// Package metrics exposes this AMF's Prometheus metrics plus the
// /metrics and /health HTTP endpoints serving them. Grounded on
// common/metrics/metrics.go in the teacher (shared across every NF in
// that repo) for the server/gauge shape, but this AMF has no inbound
// HTTP service of its own to instrument the way the teacher's NFs do —
// its only outbound HTTP traffic is the Nnrf_NFManagement/NFDiscovery
// calls in internal/sbi/nrf, so the per-request histogram here is keyed
// by SBI operation and peer status rather than by HTTP method/path.
// AMF-domain gauges/counters live in amf.go, the simulated-NRF-peer ones
// internal/nrfsim exercises live in nrf.go.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// ServiceUp reports whether the AMF process itself is alive; set from
	// cmd/amf around the whole process lifetime, not per-request.
	ServiceUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "amf_up",
			Help: "Whether the AMF process is up (1 = up, 0 = down)",
		},
	)

	// SBIRequestsTotal counts every outbound Nnrf_NFManagement/
	// Nnrf_NFDiscovery/OAuth2 call this AMF's internal/sbi/nrf client
	// makes, by operation and resulting HTTP status.
	SBIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amf_sbi_requests_total",
			Help: "Total number of outbound SBI requests to the NRF",
		},
		[]string{"operation", "status"},
	)

	// SBIRequestDuration is the latency of those same outbound SBI calls.
	SBIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amf_sbi_request_duration_seconds",
			Help:    "Outbound SBI request latency in seconds, by operation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Server is a Prometheus metrics HTTP server.
type Server struct {
	port   int
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a metrics server bound to port.
func NewServer(port int, logger *zap.Logger) *Server {
	return &Server{port: port, logger: logger}
}

// Start runs the metrics HTTP server until it errors or is Stopped.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("starting metrics server", zap.Int("port", s.port))
	return s.server.ListenAndServe()
}

// Stop gracefully stops the metrics server.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// RecordSBIRequest records one outbound SBI call's operation ("register",
// "deregister", "heartbeat", "search", "oauth2 token"), resulting HTTP
// status, and latency.
func RecordSBIRequest(operation string, status int, duration time.Duration) {
	SBIRequestsTotal.WithLabelValues(operation, fmt.Sprintf("%d", status)).Inc()
	SBIRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetServiceUp sets the overall service-health gauge.
func SetServiceUp(up bool) {
	if up {
		ServiceUp.Set(1)
	} else {
		ServiceUp.Set(0)
	}
}
