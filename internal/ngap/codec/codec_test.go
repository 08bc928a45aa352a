package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/omnipath/internal/ngap/model"
)

func TestNgSetupRequestRoundTrip(t *testing.T) {
	req := &model.NgSetupRequest{
		GlobalRanNodeId: model.GlobalRanNodeId{
			PlmnIdentity: model.PlmnIdentity{0x02, 0xF8, 0x39},
			GnbIdBits:    22,
			GnbIdValue:   1,
		},
		RanNodeName: "gnb-1",
		SupportedTaList: []model.SupportedTaItem{{
			Tac: model.Tac{0x00, 0x00, 0x01},
			BroadcastPlmns: []model.PlmnSupportItem{{
				PlmnIdentity: model.PlmnIdentity{0x02, 0xF8, 0x39},
				SliceSupportList: []model.SliceSupportItem{{
					Snssai: model.Snssai{Sst: 1},
				}},
			}},
		}},
		DefaultPagingDrx: 32,
	}

	raw, err := Encode(model.Pdu{Kind: model.KindNgSetupRequest, NgSetupRequest: req})
	require.NoError(t, err)

	pdu, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, model.KindNgSetupRequest, pdu.Kind)
	assert.Equal(t, req, pdu.NgSetupRequest)
}

func TestNgSetupResponseRoundTrip(t *testing.T) {
	resp := &model.NgSetupResponse{
		AmfName: "omnipath-amf1",
		ServedGuamiList: []model.ServedGuamiItem{{
			Guami: model.Guami{
				PlmnIdentity: model.PlmnIdentity{0x02, 0xF8, 0x39},
				AmfRegionId:  1,
				AmfSetId:     1023,
				AmfPointer:   63,
			},
		}},
		RelativeAmfCapacity: 255,
		PlmnSupportList: []model.PlmnSupportItem{{
			PlmnIdentity:     model.PlmnIdentity{0x02, 0xF8, 0x39},
			SliceSupportList: []model.SliceSupportItem{{Snssai: model.Snssai{Sst: 1}}},
		}},
	}

	raw, err := Encode(model.Pdu{Kind: model.KindNgSetupResponse, NgSetupResponse: resp})
	require.NoError(t, err)

	pdu, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, resp, pdu.NgSetupResponse)
}

func TestInitialUeMessageRoundTrip(t *testing.T) {
	tmsi := uint32(0xABCD1234)
	msg := &model.InitialUeMessage{
		RanUeNgapId:           7,
		NasPdu:                []byte{0x7e, 0x00, 0x41},
		RrcEstablishmentCause: 3,
		FiveGSTmsi:            &tmsi,
	}

	raw, err := Encode(model.Pdu{Kind: model.KindInitialUeMessage, InitialUeMessage: msg})
	require.NoError(t, err)

	pdu, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, msg, pdu.InitialUeMessage)
}

func TestDecodeMalformedMessageSynthesizesErrorIndication(t *testing.T) {
	// A truncated NgSetupRequest: kind byte present, nothing else.
	raw := []byte{byte(model.KindNgSetupRequest)}

	pdu, err := Decode(raw)
	require.Error(t, err)
	require.Equal(t, model.KindErrorIndication, pdu.Kind)
	require.NotNil(t, pdu.ErrorIndication)
	assert.Equal(t, model.CauseGroupProtocol, pdu.ErrorIndication.Cause.Group)
	assert.Equal(t, model.CauseProtocolAbstractSyntaxErrorFalselyConstructedMessage, pdu.ErrorIndication.Cause.Value)

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeEmptyMessage(t *testing.T) {
	pdu, err := Decode(nil)
	require.Error(t, err)
	assert.Equal(t, model.KindErrorIndication, pdu.Kind)
}

func TestDecodeUnknownKind(t *testing.T) {
	pdu, err := Decode([]byte{0xFF})
	require.Error(t, err)
	assert.Equal(t, model.KindErrorIndication, pdu.Kind)
}
