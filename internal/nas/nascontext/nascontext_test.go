package nascontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsEmpty(t *testing.T) {
	nas := New()
	assert.Nil(t, nas.RegistrationRequest)
}

func TestRegistrationRequestCarriesMobileIdentity(t *testing.T) {
	req := &RegistrationRequest{
		Type:                 InitialRegistration,
		MobileIdentity:       MobileIdentity{Kind: Suci, Value: "suci-1"},
		UeSecurityCapability: []byte{0x01, 0x02},
	}
	nas := New()
	nas.RegistrationRequest = req

	assert.Equal(t, InitialRegistration, nas.RegistrationRequest.Type)
	assert.Equal(t, Suci, nas.RegistrationRequest.MobileIdentity.Kind)
	assert.Equal(t, "suci-1", nas.RegistrationRequest.MobileIdentity.Value)
}
