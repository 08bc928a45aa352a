package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/omnipath/internal/config"
	"github.com/your-org/omnipath/internal/ngap/model"
)

func TestPlmnIDToIdentity(t *testing.T) {
	cases := []struct {
		mcc, mnc string
		want     model.PlmnIdentity
	}{
		{"208", "93", model.PlmnIdentity{0x02, 0xF8, 0x39}},
		{"234", "15", model.PlmnIdentity{0x32, 0xF4, 0x51}},
		{"001", "001", model.PlmnIdentity{0x00, 0x01, 0x10}},
	}

	for _, tc := range cases {
		t.Run(tc.mcc+"_"+tc.mnc, func(t *testing.T) {
			got, err := PlmnIDToIdentity(config.PLMNID{MCC: tc.mcc, MNC: tc.mnc})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			back, err := IdentityToPlmnID(got)
			require.NoError(t, err)
			assert.Equal(t, tc.mcc, back.MCC)
			assert.Equal(t, tc.mnc, back.MNC)
		})
	}
}

func TestPlmnIDToIdentityRejectsBadLengths(t *testing.T) {
	_, err := PlmnIDToIdentity(config.PLMNID{MCC: "20", MNC: "93"})
	assert.Error(t, err)

	_, err = PlmnIDToIdentity(config.PLMNID{MCC: "208", MNC: "9"})
	assert.Error(t, err)
}

func TestIdentityToPlmnIDRejectsInvalidDigits(t *testing.T) {
	_, err := IdentityToPlmnID(model.PlmnIdentity{0xAA, 0xF8, 0x39})
	assert.Error(t, err)
}
