package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/omnipath/internal/config"
)

func TestGuamiRoundTrip(t *testing.T) {
	g := config.GUAMI{
		PLMNID:      config.PLMNID{MCC: "208", MNC: "93"},
		AMFRegionID: 1,
		AMFSetID:    1023,
		AMFPointer:  63,
	}

	m, err := GuamiToModel(g)
	require.NoError(t, err)
	assert.Equal(t, uint16(1023), m.AmfSetId)
	assert.Equal(t, uint8(63), m.AmfPointer)

	back, err := ModelToGuami(m)
	require.NoError(t, err)
	assert.Equal(t, g, back)
}

func TestGuamiToModelRejectsOverflow(t *testing.T) {
	_, err := GuamiToModel(config.GUAMI{
		PLMNID:   config.PLMNID{MCC: "208", MNC: "93"},
		AMFSetID: 1024,
	})
	assert.Error(t, err)

	_, err = GuamiToModel(config.GUAMI{
		PLMNID:     config.PLMNID{MCC: "208", MNC: "93"},
		AMFPointer: 64,
	})
	assert.Error(t, err)
}

func TestSupportedTaListToModel(t *testing.T) {
	list := []config.SupportedTAI{
		{
			PLMNID: config.PLMNID{MCC: "208", MNC: "93"},
			TAC:    "000001",
			SNSSAI: []config.SNSSAI{{SST: 1, SD: "000001"}},
		},
	}
	out, err := SupportedTaListToModel(list)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "000001", ModelToTac(out[0].Tac))
	require.Len(t, out[0].BroadcastPlmns, 1)
	require.Len(t, out[0].BroadcastPlmns[0].SliceSupportList, 1)
	assert.Equal(t, uint8(1), out[0].BroadcastPlmns[0].SliceSupportList[0].Snssai.Sst)
}
