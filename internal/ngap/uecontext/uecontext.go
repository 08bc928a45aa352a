// Package uecontext holds UeContext, the per-UE data (spec.md §3 row 3)
// and its ContextManager. Grounded on
// app/src/ngap/context/ue_context.rs in original_source for the field
// set and send_downlink_nas_transport, and
// app/src/context/ue_context.rs for the optional-identifier fields
// (GUTI/SUCI/PEI/MAC) a RegistrationRequest populates.
package uecontext

import (
	"fmt"
	"strings"
	"sync"

	"github.com/your-org/omnipath/internal/metrics"
	"github.com/your-org/omnipath/internal/nas/gmm"
	"github.com/your-org/omnipath/internal/nas/nascontext"
	"github.com/your-org/omnipath/internal/ngap/codec"
	"github.com/your-org/omnipath/internal/ngap/model"
)

// UeContext is created on Initial UE Message and destroyed on UE context
// release. It is only ever mutated from inside its owning ContextQueue's
// drainer goroutine, so its own mutex below guards only the optional
// identifier fields (GUTI, SUCI, PEI, MAC) that Identifiers may read while
// a GMM handler is writing them from that goroutine — the mutex keeps the
// invariant checkable locally rather than relying on caller discipline.
type UeContext struct {
	RanUeNgapId           model.RanUeNgapId
	AmfUeNgapId           model.AmfUeNgapId
	RrcEstablishmentCause model.RrcEstablishmentCause
	FiveGSTmsi            *uint32

	Nas *nascontext.NasContext
	Gmm *gmm.StateMachine

	// sendToGnb delivers an encoded NGAP PDU to the owning gNB's Tnla.
	// Injected at construction time instead of holding a pointer into the
	// gNB's GnbContext directly: spec.md §9's cyclic-ownership note calls
	// for the UE->gNB edge to be a weak reference dereferenced on demand,
	// and a closure over the engine's GnbContext manager plus this UE's
	// gNB id is exactly that — it never outlives the gNB's own
	// registration the way a raw pointer retained past a ContextQueue
	// closure would.
	sendToGnb func([]byte) error

	mu   sync.Mutex
	guti string
	suci string
	pei  string
	mac  string
}

// New constructs a UeContext for a freshly-seen UE. sendToGnb is called
// by SendDownlinkNasTransport to deliver the encoded PDU to the owning
// gNB's association.
func New(ranID model.RanUeNgapId, amfID model.AmfUeNgapId, cause model.RrcEstablishmentCause, fiveGSTmsi *uint32, sendToGnb func([]byte) error) *UeContext {
	return &UeContext{
		RanUeNgapId:           ranID,
		AmfUeNgapId:           amfID,
		RrcEstablishmentCause: cause,
		FiveGSTmsi:            fiveGSTmsi,
		Nas:                   nascontext.New(),
		Gmm:                   gmm.New(),
		sendToGnb:             sendToGnb,
	}
}

// ID implements ctxmanager.Identifiable.
func (u *UeContext) ID() model.RanUeNgapId {
	return u.RanUeNgapId
}

// SetSuci, SetGuti, SetPei, SetMac, SetFiveGTmsi implement gmm.UeFields:
// a RegistrationRequest handler populates whichever identifier its mobile
// identity carried (spec.md §3).
func (u *UeContext) SetSuci(v string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.suci = v
}

func (u *UeContext) SetGuti(v string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.guti = v
}

func (u *UeContext) SetPei(v string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.pei = v
}

func (u *UeContext) SetMac(v string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.mac = v
}

func (u *UeContext) SetFiveGTmsi(v string) {
	// The RegistrationRequest's 5G-S-TMSI is carried as decimal text by
	// nascontext.MobileIdentity; FiveGSTmsi itself tracks the NGAP-layer
	// value set at InitialUeMessage time and is left untouched here.
	_ = v
}

// Identifiers returns a snapshot of the optional identifiers populated so
// far (GUTI, SUCI, PEI, MAC).
func (u *UeContext) Identifiers() (guti, suci, pei, mac string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.guti, u.suci, u.pei, u.mac
}

// HandleNas dispatches an inbound NAS PDU into the GMM state machine,
// mirroring UeContext::handle_nas in original_source. The skeleton here
// only recognizes RegistrationRequest- and AuthenticationRequest-shaped
// payloads (see parseGmmMessage); anything else is treated as GmmStatus.
func (u *UeContext) HandleNas(nasPdu []byte) gmm.Response {
	event := parseGmmMessage(nasPdu)
	resp := u.Gmm.Handle(u.Nas, u, event)

	if event.Kind == gmm.MessageRegistrationRequest {
		recordRegistrationAttempt(resp)
	}

	if resp.OutboundAuthenticationRequest != nil {
		if err := u.SendDownlinkNasTransport(resp.OutboundAuthenticationRequest); err != nil {
			resp.Err = fmt.Errorf("gmm: send authentication request: %w", err)
		}
		metrics.RecordAuthenticationRequest(authenticationResult(resp.Err))
	}
	return resp
}

func recordRegistrationAttempt(resp gmm.Response) {
	if resp.Err != nil {
		metrics.RecordRegistrationAttempt(registrationFailureReason(resp.Err))
		return
	}
	metrics.RecordRegistrationAttempt("success")
}

// registrationFailureReason maps applyRegistrationRequest's error cases
// to a low-cardinality metric label.
func registrationFailureReason(err error) string {
	switch {
	case strings.Contains(err.Error(), "security capability"):
		return "missing_security_capability"
	case strings.Contains(err.Error(), "eui64"):
		return "unsupported_mobile_identity"
	default:
		return "other"
	}
}

func authenticationResult(err error) string {
	if err != nil {
		return "send_failed"
	}
	return "success"
}

// SendDownlinkNasTransport wraps nasPdu in a DownlinkNasTransport PDU and
// writes it to the owning gNB's Tnla (spec.md §4.5.5).
func (u *UeContext) SendDownlinkNasTransport(nasPdu []byte) error {
	pdu := model.Pdu{
		Kind: model.KindDownlinkNasTransport,
		DownlinkNasTransport: &model.DownlinkNasTransport{
			RanUeNgapId: u.RanUeNgapId,
			AmfUeNgapId: u.AmfUeNgapId,
			NasPdu:      nasPdu,
		},
	}
	raw, err := codec.Encode(pdu)
	if err != nil {
		return fmt.Errorf("uecontext: encode downlink nas transport: %w", err)
	}
	return u.sendToGnb(raw)
}
