package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/your-org/omnipath/internal/metrics"
	"github.com/your-org/omnipath/internal/ngap/gnbcontext"
	"github.com/your-org/omnipath/internal/ngap/model"
	"github.com/your-org/omnipath/internal/ngap/uecontext"
)

// HandleInitialUeMessage implements spec.md §4.5.4: allocate an
// AmfUeNgapId, create the UeContext, register it under the gNB, and feed
// its NasPdu into the GMM skeleton. Grounded on initial_ue_message.rs in
// original_source.
func (e *Engine) HandleInitialUeMessage(gnb *gnbcontext.GnbContext, msg *model.InitialUeMessage) error {
	_, span := e.Tracer.Start(context.Background(), "Engine.HandleInitialUeMessage",
		trace.WithAttributes(attribute.Int64("ran_ue_ngap_id", int64(msg.RanUeNgapId))))
	defer span.End()

	if gnb.UeContexts.Contains(msg.RanUeNgapId) {
		return fmt.Errorf("engine: ran_ue_ngap_id %d already has a ue context", msg.RanUeNgapId)
	}

	amfUeNgapId := gnb.NextAmfUeNgapId()
	gnbId := gnb.GlobalRanNodeId

	sendToGnb := func(raw []byte) error {
		return withGnb(e.Gnbs, gnbId, func(g *gnbcontext.GnbContext) error {
			return g.Tnla.Write(raw)
		})
	}

	ue := uecontext.New(msg.RanUeNgapId, amfUeNgapId, msg.RrcEstablishmentCause, msg.FiveGSTmsi, sendToGnb)
	if err := gnb.UeContexts.Add(ue); err != nil {
		return fmt.Errorf("engine: register ue context: %w", err)
	}
	metrics.SetRegisteredUEs(gnb.UeContexts.Len())

	_, err := uecontext.WithUe(gnb.UeContexts, msg.RanUeNgapId, func(u **uecontext.UeContext) error {
		resp := (*u).HandleNas(msg.NasPdu)
		return resp.Err
	})
	return err
}
