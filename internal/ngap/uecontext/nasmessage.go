package uecontext

import (
	"github.com/your-org/omnipath/internal/nas/gmm"
	"github.com/your-org/omnipath/internal/nas/nascontext"
)

// NAS message type octets this skeleton recognizes on the wire. Real NAS
// message parsing is out of scope (spec.md §1); this is the minimal
// framing needed to drive the GMM skeleton's three message kinds from a
// byte slice.
const (
	nasMsgTypeRegistrationRequest  = 0x41
	nasMsgTypeAuthenticationRequest = 0x56
	nasMsgTypeGmmStatus            = 0x64
)

// parseGmmMessage reads nasPdu's leading message-type octet and, for a
// RegistrationRequest, a minimal follow-on encoding of
// (registration-type, mobile-identity-kind, mobile-identity-value,
// security-capability-present). Anything unrecognized is treated as
// GmmStatus, matching the skeleton's "any other is handled" fallback.
func parseGmmMessage(nasPdu []byte) gmm.Message {
	if len(nasPdu) == 0 {
		return gmm.Message{Kind: gmm.MessageGmmStatus}
	}

	switch nasPdu[0] {
	case nasMsgTypeRegistrationRequest:
		return gmm.Message{
			Kind:                gmm.MessageRegistrationRequest,
			RegistrationRequest: parseRegistrationRequest(nasPdu[1:]),
		}
	case nasMsgTypeAuthenticationRequest:
		return gmm.Message{Kind: gmm.MessageAuthenticationRequest}
	default:
		return gmm.Message{Kind: gmm.MessageGmmStatus}
	}
}

// parseRegistrationRequest decodes the minimal body
// [reg_type][identity_kind][identity_len][identity...][sec_cap_present][sec_cap...].
func parseRegistrationRequest(body []byte) *nascontext.RegistrationRequest {
	req := &nascontext.RegistrationRequest{}
	if len(body) < 2 {
		return req
	}

	req.Type = nascontext.RegistrationType(body[0])
	kind := nascontext.MobileIdentityKind(body[1])
	body = body[2:]

	if len(body) < 1 {
		return req
	}
	idLen := int(body[0])
	body = body[1:]
	if idLen > len(body) {
		idLen = len(body)
	}
	req.MobileIdentity = nascontext.MobileIdentity{Kind: kind, Value: string(body[:idLen])}
	body = body[idLen:]

	if len(body) >= 1 && body[0] == 1 {
		req.UeSecurityCapability = append([]byte(nil), body[1:]...)
	}
	return req
}
