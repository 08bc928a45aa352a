package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/your-org/omnipath/internal/ctxmanager"
	"github.com/your-org/omnipath/internal/ngap/gnbcontext"
	"github.com/your-org/omnipath/internal/ngap/model"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	gnbs := ctxmanager.New[model.GlobalRanNodeId, *gnbcontext.GnbContext]()
	return &Engine{
		App:                   testApp(),
		Gnbs:                  gnbs,
		Log:                   zap.NewNop(),
		Tracer:                noop.NewTracerProvider().Tracer("test"),
		initializationRetries: 3,
	}
}

func TestHandleInitialUeMessageRegistersUeContext(t *testing.T) {
	e := testEngine(t)
	gnb := gnbcontext.New(nil, func() {})
	gnb.GlobalRanNodeId = model.GlobalRanNodeId{GnbIdValue: 1}

	msg := &model.InitialUeMessage{
		RanUeNgapId: model.RanUeNgapId(1),
		NasPdu:      []byte{0xFF},
	}

	err := e.HandleInitialUeMessage(gnb, msg)
	require.NoError(t, err)
	assert.True(t, gnb.UeContexts.Contains(model.RanUeNgapId(1)))
}

func TestHandleInitialUeMessageRejectsDuplicateRanUeNgapId(t *testing.T) {
	e := testEngine(t)
	gnb := gnbcontext.New(nil, func() {})
	gnb.GlobalRanNodeId = model.GlobalRanNodeId{GnbIdValue: 1}

	msg := &model.InitialUeMessage{RanUeNgapId: model.RanUeNgapId(1), NasPdu: []byte{0xFF}}
	require.NoError(t, e.HandleInitialUeMessage(gnb, msg))

	err := e.HandleInitialUeMessage(gnb, msg)
	assert.Error(t, err)
}
