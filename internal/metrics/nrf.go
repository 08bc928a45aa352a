package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NRF-peer metrics: recorded by internal/nrfsim's test fixture acting as
// the NRF this AMF's client talks to, not by the AMF itself. Kept in
// this repo because internal/nrfsim is the only place an
// Nnrf_NFManagement/Nnrf_NFDiscovery server exists to exercise them.
var (
	RegisteredNFsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nrf_registered_nfs_total",
			Help: "Total number of NFs registered with the simulated NRF, by type",
		},
		[]string{"nf_type"},
	)

	NFRegistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrf_nf_registrations_total",
			Help: "Total number of NF registrations received by the simulated NRF",
		},
		[]string{"nf_type", "status"},
	)

	NFDeregistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrf_nf_deregistrations_total",
			Help: "Total number of NF deregistrations received by the simulated NRF",
		},
		[]string{"nf_type"},
	)

	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrf_discovery_requests_total",
			Help: "Total number of NF discovery requests received by the simulated NRF",
		},
		[]string{"target_nf_type", "status"},
	)

	HeartbeatsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nrf_heartbeats_received_total",
			Help: "Total number of heartbeats received by the simulated NRF",
		},
		[]string{"nf_type"},
	)
)

// SetRegisteredNFs sets the simulated NRF's registered-NF count by type.
func SetRegisteredNFs(nfType string, count int) {
	RegisteredNFsTotal.WithLabelValues(nfType).Set(float64(count))
}

// RecordNFRegistration records a registration received by the simulated NRF.
func RecordNFRegistration(nfType, status string) {
	NFRegistrations.WithLabelValues(nfType, status).Inc()
}

// RecordNFDeregistration records a deregistration received by the simulated NRF.
func RecordNFDeregistration(nfType string) {
	NFDeregistrations.WithLabelValues(nfType).Inc()
}

// RecordDiscoveryRequest records a discovery request received by the simulated NRF.
func RecordDiscoveryRequest(targetNFType, status string) {
	DiscoveryRequests.WithLabelValues(targetNFType, status).Inc()
}

// RecordHeartbeat records a heartbeat received by the simulated NRF.
func RecordHeartbeat(nfType string) {
	HeartbeatsReceived.WithLabelValues(nfType).Inc()
}
