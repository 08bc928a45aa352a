// Package gmm implements the NAS GMM state machine skeleton of
// spec.md §4.5.5: a deregistered state and a registration_initiated
// superstate with unauthenticated/authenticated substates. Grounded on
// app/src/nas/gmm.rs in original_source, which drives the same
// hierarchy through the Rust statig crate; this package hand-rolls the
// equivalent dispatch table since neither the teacher nor any other
// example repo in the pack carries a hierarchical state-machine library,
// and the state set here is small enough that a library would add
// indirection without buying anything a switch doesn't already give.
package gmm

import (
	"fmt"

	"github.com/your-org/omnipath/internal/nas/nascontext"
)

// State names the concrete GMM states this skeleton implements.
type State uint8

const (
	StateDeregistered State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateDeregistered:
		return "deregistered"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// inRegistrationInitiated reports whether s is a substate of the
// registration_initiated superstate — the only superstate this skeleton
// defines.
func (s State) inRegistrationInitiated() bool {
	return s == StateUnauthenticated || s == StateAuthenticated
}

// MessageKind discriminates the GMM messages this skeleton dispatches.
type MessageKind uint8

const (
	MessageRegistrationRequest MessageKind = iota
	MessageAuthenticationRequest
	MessageGmmStatus
)

// Message is one inbound GMM event. RegistrationRequest is populated only
// when Kind is MessageRegistrationRequest.
type Message struct {
	Kind                MessageKind
	RegistrationRequest *nascontext.RegistrationRequest
}

// ResponseKind is the outcome of handling one Message, mirroring statig's
// Handled/Transition/Super result (spec.md §4.5.5).
type ResponseKind uint8

const (
	Handled ResponseKind = iota
	Transitioned
	UnhandledBySuperstate
)

// Response is the result of StateMachine.Handle.
type Response struct {
	Kind  ResponseKind
	State State // valid when Kind == Transitioned

	// OutboundAuthenticationRequest is set when handling produced a NAS
	// message the caller must deliver via
	// UeContext.SendDownlinkNasTransport (spec.md §4.5.5).
	OutboundAuthenticationRequest []byte

	// Err is set when handling failed in a way the caller should log but
	// still treat as Handled (spec.md: "Missing security capability ->
	// handled failure").
	Err error
}

// UeFields is the subset of UeContext's mutable identifiers the
// RegistrationRequest handler populates from the mobile identity (spec.md
// §3: "optional identifiers (GUTI, SUCI, PEI, MAC, PLMN)"). Expressed as
// an interface so this package never imports internal/ngap/uecontext —
// UeContext implements it directly.
type UeFields interface {
	SetSuci(string)
	SetGuti(string)
	SetPei(string)
	SetMac(string)
	SetFiveGTmsi(value string)
}

// StateMachine drives one UE's GMM state. It is never accessed except
// from inside that UE's owning ContextQueue closure, so it carries no
// internal locking of its own (spec.md §5: per-UE mutation is already
// serialized upstream).
type StateMachine struct {
	state State
}

// New creates a StateMachine in the initial Deregistered state.
func New() *StateMachine {
	return &StateMachine{state: StateDeregistered}
}

// Current returns the state machine's current state.
func (m *StateMachine) Current() State {
	return m.state
}

// Handle dispatches event against the current state, mutating nas and ue
// as the handler requires, and returns the outcome.
func (m *StateMachine) Handle(nas *nascontext.NasContext, ue UeFields, event Message) Response {
	switch m.state {
	case StateDeregistered:
		return m.handleDeregistered(nas, ue, event)
	case StateUnauthenticated, StateAuthenticated:
		if resp := m.handleRegistrationInitiated(event); resp.Kind != UnhandledBySuperstate {
			return resp
		}
		return m.handleSubstate(event)
	default:
		return Response{Kind: Handled, Err: fmt.Errorf("gmm: unreachable state %v", m.state)}
	}
}

func (m *StateMachine) handleDeregistered(nas *nascontext.NasContext, ue UeFields, event Message) Response {
	switch event.Kind {
	case MessageGmmStatus:
		return Response{Kind: Handled}

	case MessageRegistrationRequest:
		req := event.RegistrationRequest
		if err := applyRegistrationRequest(nas, ue, req); err != nil {
			return Response{Kind: Handled, Err: err}
		}
		m.state = StateUnauthenticated
		return Response{
			Kind:                          Transitioned,
			State:                         StateUnauthenticated,
			OutboundAuthenticationRequest: buildAuthenticationRequest(),
		}

	default:
		return Response{Kind: Handled}
	}
}

// handleRegistrationInitiated is the registration_initiated superstate
// handler: it only claims GmmStatus, deferring everything else to the
// current substate (spec.md §4.5.5: "Any superstate + GmmStatus ->
// handled").
func (m *StateMachine) handleRegistrationInitiated(event Message) Response {
	if event.Kind == MessageGmmStatus {
		return Response{Kind: Handled}
	}
	return Response{Kind: UnhandledBySuperstate}
}

func (m *StateMachine) handleSubstate(event Message) Response {
	switch m.state {
	case StateUnauthenticated:
		if event.Kind == MessageAuthenticationRequest {
			// Self-loop placeholder (spec.md §4.5.5): a real
			// implementation would send the challenge downlink and await
			// AuthenticationResponse here.
			m.state = StateUnauthenticated
			return Response{Kind: Transitioned, State: StateUnauthenticated}
		}
		return Response{Kind: Handled}

	case StateAuthenticated:
		return Response{Kind: Handled}

	default:
		return Response{Kind: Handled}
	}
}

// buildAuthenticationRequest constructs the NAS payload sent downlink
// immediately after a successful RegistrationRequest (spec.md §4.5.5).
// Concrete NAS message encoding is out of scope (spec.md §1); this
// placeholder carries only the message-type octet a real AMF would
// prefix its EAP/5G-AKA challenge with.
func buildAuthenticationRequest() []byte {
	const nasMessageTypeAuthenticationRequest = 0x56
	return []byte{nasMessageTypeAuthenticationRequest}
}

// applyRegistrationRequest populates nas and ue from req's mobile
// identity and security capability, mirroring
// initial_registration_handler in original_source.
func applyRegistrationRequest(nas *nascontext.NasContext, ue UeFields, req *nascontext.RegistrationRequest) error {
	nas.RegistrationRequest = req

	switch req.MobileIdentity.Kind {
	case nascontext.NoIdentity:
		// Nothing to record.
	case nascontext.Suci:
		ue.SetSuci(req.MobileIdentity.Value)
	case nascontext.FiveGGuti:
		ue.SetGuti(req.MobileIdentity.Value)
	case nascontext.Imei, nascontext.Imeisv:
		ue.SetPei(req.MobileIdentity.Value)
	case nascontext.FiveGSTmsi:
		ue.SetFiveGTmsi(req.MobileIdentity.Value)
	case nascontext.MacAddress:
		ue.SetMac(req.MobileIdentity.Value)
	case nascontext.Eui64:
		return fmt.Errorf("gmm: eui64 mobile identity not supported")
	}

	if req.UeSecurityCapability == nil {
		return fmt.Errorf("gmm: registration request missing UE security capability (5GMM cause: protocol error, unspecified)")
	}
	return nil
}
