// Package nascontext holds NasContext, the per-UE NAS state the GMM
// state machine reads and mutates (spec.md §3, §4.5.5). Grounded on
// app/src/nas/nas_context.rs and
// app/src/nas/handlers/registration_request.rs in original_source.
package nascontext

// RegistrationType is the NAS 5GS registration type carried in a
// RegistrationRequest (TS 24.501 §9.11.3.7). The GMM handler does not
// branch on it: every type goes through the same initial-registration
// handling (spec.md §4.5.5).
type RegistrationType uint8

const (
	InitialRegistration RegistrationType = iota
	MobilityRegistrationUpdating
	PeriodicRegistrationUpdating
	EmergencyRegistration
)

// MobileIdentityKind discriminates the 5GS mobile identity variants a
// RegistrationRequest may carry (TS 24.501 §9.11.3.4).
type MobileIdentityKind uint8

const (
	NoIdentity MobileIdentityKind = iota
	Suci
	FiveGGuti
	Imei
	FiveGSTmsi
	Imeisv
	MacAddress
	Eui64
)

// MobileIdentity is the tagged value carried by a RegistrationRequest;
// Value's encoding depends on Kind (a SUCI/GUTI/IMEI string, or a numeric
// 5G-S-TMSI rendered as decimal text).
type MobileIdentity struct {
	Kind  MobileIdentityKind
	Value string
}

// RegistrationRequest is the NAS message that drives the
// deregistered→unauthenticated transition (spec.md §4.5.5).
type RegistrationRequest struct {
	Type                  RegistrationType
	MobileIdentity        MobileIdentity
	UeSecurityCapability  []byte // nil means absent; absence is a handled failure
}

// NasContext is the per-UE NAS state embedded in UeContext (spec.md §3:
// "last RegistrationRequest, UE security capability").
type NasContext struct {
	RegistrationRequest *RegistrationRequest
}

// New creates an empty NasContext, matching a freshly Deregistered UE.
func New() *NasContext {
	return &NasContext{}
}
