package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/omnipath/internal/config"
)

func TestSnssaiRoundTrip(t *testing.T) {
	cases := []struct {
		sst  uint8
		sd   string
	}{
		{1, ""},
		{2, "abcdef"},
		{0, "000000"},
		{255, "ffffff"},
	}

	for _, tc := range cases {
		m, err := SnssaiToModel(config.SNSSAI{SST: tc.sst, SD: tc.sd})
		require.NoError(t, err)
		assert.Equal(t, tc.sst, m.Sst)

		back := ModelToSnssai(m)
		assert.Equal(t, tc.sst, back.SST)
		assert.Equal(t, tc.sd, back.SD)
	}
}

func TestSnssaiToModelRejectsBadSd(t *testing.T) {
	_, err := SnssaiToModel(config.SNSSAI{SST: 1, SD: "zz"})
	assert.Error(t, err)

	_, err = SnssaiToModel(config.SNSSAI{SST: 1, SD: "aabb"})
	assert.Error(t, err)
}
