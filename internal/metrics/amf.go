package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AMF-specific metrics (spec.md §4.2, §4.5): the UE and association
// gauges are recorded from internal/ngap/engine, the registration and
// authentication counters from internal/ngap/uecontext, and the NRF
// registration state and heartbeat failures from cmd/amf.
var (
	RegisteredUEs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "amf_registered_ues_total",
			Help: "Total number of UE contexts currently tracked",
		},
	)

	RegistrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amf_registration_attempts_total",
			Help: "Total number of UE registration attempts",
		},
		[]string{"result"},
	)

	AuthenticationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amf_authentication_requests_total",
			Help: "Total number of authentication requests sent downlink",
		},
		[]string{"result"},
	)

	ActiveAssociations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "amf_active_associations",
			Help: "Number of active NG-AP/SCTP associations with gNBs",
		},
	)

	NRFRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "amf_nrf_registered",
			Help: "Whether this AMF is currently registered with the NRF (1 = registered, 0 = not registered)",
		},
	)

	NRFHeartbeatFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "amf_nrf_heartbeat_failures_total",
			Help: "Total number of NRF heartbeat failures",
		},
	)
)

// SetRegisteredUEs sets the count of tracked UE contexts.
func SetRegisteredUEs(count int) {
	RegisteredUEs.Set(float64(count))
}

// RecordRegistrationAttempt records a UE registration attempt's outcome
// ("success", "missing_security_capability", ...).
func RecordRegistrationAttempt(result string) {
	RegistrationAttempts.WithLabelValues(result).Inc()
}

// RecordAuthenticationRequest records an outbound AuthenticationRequest.
func RecordAuthenticationRequest(result string) {
	AuthenticationRequests.WithLabelValues(result).Inc()
}

// SetActiveAssociations sets the number of live gNB associations.
func SetActiveAssociations(count int) {
	ActiveAssociations.Set(float64(count))
}

// SetNRFRegistered sets whether this AMF is currently registered with
// the NRF.
func SetNRFRegistered(registered bool) {
	if registered {
		NRFRegistered.Set(1)
	} else {
		NRFRegistered.Set(0)
	}
}

// RecordNRFHeartbeatFailure increments the heartbeat-failure counter.
func RecordNRFHeartbeatFailure() {
	NRFHeartbeatFailures.Inc()
}
