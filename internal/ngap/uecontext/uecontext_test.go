package uecontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/omnipath/internal/ngap/codec"
	"github.com/your-org/omnipath/internal/ngap/model"
)

func newTestUe(t *testing.T, sent *[][]byte) *UeContext {
	t.Helper()
	sendToGnb := func(raw []byte) error {
		*sent = append(*sent, raw)
		return nil
	}
	return New(model.RanUeNgapId(1), model.AmfUeNgapId(1), model.RrcEstablishmentCause(0), nil, sendToGnb)
}

func TestHandleNasRegistrationRequestSendsAuthenticationRequest(t *testing.T) {
	var sent [][]byte
	ue := newTestUe(t, &sent)

	body := []byte{0x41, 0x00, 0x01, 0x03, 's', 'u', 'c', 0x01, 0xAA}
	resp := ue.HandleNas(body)

	require.NoError(t, resp.Err)
	require.Len(t, sent, 1)

	pdu, err := codec.Decode(sent[0])
	require.NoError(t, err)
	require.Equal(t, model.KindDownlinkNasTransport, pdu.Kind)
	assert.Equal(t, ue.RanUeNgapId, pdu.DownlinkNasTransport.RanUeNgapId)
	assert.Equal(t, ue.AmfUeNgapId, pdu.DownlinkNasTransport.AmfUeNgapId)

	_, suci, _, _ := ue.Identifiers()
	assert.Equal(t, "suc", suci)
}

func TestHandleNasUnknownMessageIsHandledWithoutSend(t *testing.T) {
	var sent [][]byte
	ue := newTestUe(t, &sent)

	resp := ue.HandleNas([]byte{0xFF})
	assert.NoError(t, resp.Err)
	assert.Empty(t, sent)
}

func TestIDReturnsRanUeNgapId(t *testing.T) {
	var sent [][]byte
	ue := newTestUe(t, &sent)
	assert.Equal(t, model.RanUeNgapId(1), ue.ID())
}
