package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/omnipath/internal/appctx"
	"github.com/your-org/omnipath/internal/config"
	"github.com/your-org/omnipath/internal/ctxmanager"
	"github.com/your-org/omnipath/internal/ngap/gnbcontext"
	"github.com/your-org/omnipath/internal/ngap/model"
)

func testConfig() *config.Configuration {
	return &config.Configuration{
		AMFName: "amf1",
		ServedGUAMI: []config.GUAMI{
			{PLMNID: config.PLMNID{MCC: "208", MNC: "93"}, AMFRegionID: 1, AMFSetID: 1, AMFPointer: 1},
		},
		SupportTAI: []config.SupportedTAI{
			{PLMNID: config.PLMNID{MCC: "208", MNC: "93"}, TAC: "000001"},
		},
		PLMNSupport: []config.PLMNSupport{
			{PLMNID: config.PLMNID{MCC: "208", MNC: "93"}},
		},
		Initialization: config.Initialization{Retries: 3},
	}
}

func testApp() *appctx.AppContext {
	return appctx.New(testConfig(), &appctx.Sbi{})
}

func matchingSupportedTaList() []model.SupportedTaItem {
	return []model.SupportedTaItem{
		{
			Tac: model.Tac{0x00, 0x00, 0x01},
			BroadcastPlmns: []model.PlmnSupportItem{
				{PlmnIdentity: model.PlmnIdentity{0x02, 0xF8, 0x39}},
			},
		},
	}
}

func TestHandleNgSetupRequestAccepts(t *testing.T) {
	app := testApp()
	gnbs := ctxmanager.New[model.GlobalRanNodeId, *gnbcontext.GnbContext]()
	gnb := gnbcontext.New(nil, func() {})

	req := &model.NgSetupRequest{
		GlobalRanNodeId: model.GlobalRanNodeId{GnbIdValue: 1},
		RanNodeName:     "gnb-1",
		SupportedTaList: matchingSupportedTaList(),
	}

	resp, failure := HandleNgSetupRequest(app, gnbs, gnb, req)
	require.Nil(t, failure)
	require.NotNil(t, resp)
	assert.Equal(t, "amf1", resp.AmfName)
	assert.Equal(t, uint8(255), resp.RelativeAmfCapacity)
	assert.Len(t, resp.ServedGuamiList, 1)
	assert.Len(t, resp.PlmnSupportList, 1)

	assert.Equal(t, "gnb-1", gnb.Name)
	assert.Equal(t, req.GlobalRanNodeId, gnb.GlobalRanNodeId)
}

func TestHandleNgSetupRequestPrefersExtendedName(t *testing.T) {
	app := testApp()
	gnbs := ctxmanager.New[model.GlobalRanNodeId, *gnbcontext.GnbContext]()
	gnb := gnbcontext.New(nil, func() {})

	req := &model.NgSetupRequest{
		GlobalRanNodeId:     model.GlobalRanNodeId{GnbIdValue: 1},
		RanNodeName:         "gnb-1",
		ExtendedRanNodeName: "gnb-1-extended",
		SupportedTaList:     matchingSupportedTaList(),
	}

	_, failure := HandleNgSetupRequest(app, gnbs, gnb, req)
	require.Nil(t, failure)
	assert.Equal(t, "gnb-1-extended", gnb.Name)
}

func TestHandleNgSetupRequestRejectsUnknownTai(t *testing.T) {
	app := testApp()
	gnbs := ctxmanager.New[model.GlobalRanNodeId, *gnbcontext.GnbContext]()
	gnb := gnbcontext.New(nil, func() {})

	req := &model.NgSetupRequest{
		GlobalRanNodeId: model.GlobalRanNodeId{GnbIdValue: 1},
		SupportedTaList: []model.SupportedTaItem{
			{
				Tac: model.Tac{0x00, 0x00, 0x02},
				BroadcastPlmns: []model.PlmnSupportItem{
					{PlmnIdentity: model.PlmnIdentity{0x32, 0xF4, 0x51}},
				},
			},
		},
	}

	resp, failure := HandleNgSetupRequest(app, gnbs, gnb, req)
	assert.Nil(t, resp)
	require.NotNil(t, failure)
	assert.Equal(t, model.CauseGroupMisc, failure.Cause.Group)
	assert.Equal(t, model.CauseMiscUnknownPlmnOrSnpn, failure.Cause.Value)
}

func TestHandleNgSetupRequestRejectsDuplicateGnb(t *testing.T) {
	app := testApp()
	gnbs := ctxmanager.New[model.GlobalRanNodeId, *gnbcontext.GnbContext]()

	existing := gnbcontext.New(nil, func() {})
	existing.GlobalRanNodeId = model.GlobalRanNodeId{GnbIdValue: 1}
	require.NoError(t, gnbs.Add(existing))

	gnb := gnbcontext.New(nil, func() {})
	req := &model.NgSetupRequest{
		GlobalRanNodeId: model.GlobalRanNodeId{GnbIdValue: 1},
		SupportedTaList: matchingSupportedTaList(),
	}

	resp, failure := HandleNgSetupRequest(app, gnbs, gnb, req)
	assert.Nil(t, resp)
	require.NotNil(t, failure)
	assert.Equal(t, model.CauseGroupProtocol, failure.Cause.Group)
	assert.Equal(t, model.CauseProtocolSemanticError, failure.Cause.Value)
}
