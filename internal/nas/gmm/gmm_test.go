package gmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/omnipath/internal/nas/nascontext"
)

type fakeUe struct {
	suci, guti, pei, mac, fiveGTmsi string
}

func (f *fakeUe) SetSuci(v string)       { f.suci = v }
func (f *fakeUe) SetGuti(v string)       { f.guti = v }
func (f *fakeUe) SetPei(v string)        { f.pei = v }
func (f *fakeUe) SetMac(v string)        { f.mac = v }
func (f *fakeUe) SetFiveGTmsi(v string)  { f.fiveGTmsi = v }

func TestRegistrationRequestTransitionsToUnauthenticated(t *testing.T) {
	m := New()
	nas := nascontext.New()
	ue := &fakeUe{}

	resp := m.Handle(nas, ue, Message{
		Kind: MessageRegistrationRequest,
		RegistrationRequest: &nascontext.RegistrationRequest{
			Type:                 nascontext.InitialRegistration,
			MobileIdentity:       nascontext.MobileIdentity{Kind: nascontext.Suci, Value: "suci-1"},
			UeSecurityCapability: []byte{0x01, 0x02},
		},
	})

	require.Equal(t, Transitioned, resp.Kind)
	assert.Equal(t, StateUnauthenticated, resp.State)
	assert.Equal(t, StateUnauthenticated, m.Current())
	assert.NotEmpty(t, resp.OutboundAuthenticationRequest)
	assert.Equal(t, "suci-1", ue.suci)
	assert.NoError(t, resp.Err)
}

func TestRegistrationRequestMissingSecurityCapabilityIsHandledFailure(t *testing.T) {
	m := New()
	nas := nascontext.New()
	ue := &fakeUe{}

	resp := m.Handle(nas, ue, Message{
		Kind: MessageRegistrationRequest,
		RegistrationRequest: &nascontext.RegistrationRequest{
			MobileIdentity: nascontext.MobileIdentity{Kind: nascontext.Suci, Value: "suci-1"},
		},
	})

	assert.Equal(t, Handled, resp.Kind)
	assert.Error(t, resp.Err)
	assert.Equal(t, StateDeregistered, m.Current())
}

func TestGmmStatusIsHandledInAnyState(t *testing.T) {
	m := New()
	nas := nascontext.New()
	ue := &fakeUe{}

	resp := m.Handle(nas, ue, Message{Kind: MessageGmmStatus})
	assert.Equal(t, Handled, resp.Kind)
	assert.Equal(t, StateDeregistered, m.Current())

	m.state = StateAuthenticated
	resp = m.Handle(nas, ue, Message{Kind: MessageGmmStatus})
	assert.Equal(t, Handled, resp.Kind)
	assert.Equal(t, StateAuthenticated, m.Current())
}

func TestEui64MobileIdentityRejected(t *testing.T) {
	m := New()
	nas := nascontext.New()
	ue := &fakeUe{}

	resp := m.Handle(nas, ue, Message{
		Kind: MessageRegistrationRequest,
		RegistrationRequest: &nascontext.RegistrationRequest{
			MobileIdentity:       nascontext.MobileIdentity{Kind: nascontext.Eui64, Value: "ignored"},
			UeSecurityCapability: []byte{0x01},
		},
	})

	assert.Equal(t, Handled, resp.Kind)
	assert.Error(t, resp.Err)
}
