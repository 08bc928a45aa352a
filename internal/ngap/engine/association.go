package engine

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/omnipath/internal/ctxmanager"
	"github.com/your-org/omnipath/internal/metrics"
	"github.com/your-org/omnipath/internal/ngap/codec"
	"github.com/your-org/omnipath/internal/ngap/gnbcontext"
	"github.com/your-org/omnipath/internal/ngap/model"
	"github.com/your-org/omnipath/internal/ngap/transport"
)

// handleAssociation runs one Tnla through Accepted -> NgSetupPending ->
// Established -> Closed (spec.md §4.5.1). It always returns once the
// association is torn down, unregistering it from both e.Gnbs (if it got
// that far) and e.Network.
func (e *Engine) handleAssociation(ctx context.Context, tnla *transport.Tnla) {
	ctx, span := e.Tracer.Start(ctx, "Engine.handleAssociation")
	defer span.End()

	log := e.Log.With(zap.Uint64("association_id", tnla.ID))

	defer func() {
		e.Network.Remove(tnla)
		_ = tnla.Close()
	}()

	assocCtx, gnb, ok := e.runNgSetupPending(ctx, tnla, log)
	if !ok {
		return
	}

	if err := e.Gnbs.Add(gnb); err != nil {
		log.Warn("gnb already registered, rejecting association", zap.Error(err))
		gnb.Cancel()
		return
	}
	metrics.SetActiveAssociations(e.Gnbs.Len())
	defer func() {
		e.Gnbs.Remove(gnb.GlobalRanNodeId)
		metrics.SetActiveAssociations(e.Gnbs.Len())
		gnb.Cancel()
	}()

	e.runSteadyLoop(assocCtx, tnla, gnb, log)
}

// runNgSetupPending implements the NgSetupPending state: read exactly one
// PDU, expect NgSetupRequest, retry up to initializationRetries times on
// a semantic failure, abort on anything else (spec.md §4.5.1). It returns
// the association-scoped context gnb.Cancel tears down, so callers that
// proceed to the steady loop observe the same cancellation.
func (e *Engine) runNgSetupPending(ctx context.Context, tnla *transport.Tnla, log *zap.Logger) (context.Context, *gnbcontext.GnbContext, bool) {
	assocCtx, baseCancel := context.WithCancel(ctx)
	gnb := gnbcontext.New(tnla, func() {
		baseCancel()
		_ = tnla.Close()
	})

	buf := make([]byte, 65536)

	for attempt := 0; attempt <= e.initializationRetries; {
		select {
		case <-assocCtx.Done():
			gnb.Cancel()
			return assocCtx, nil, false
		default:
		}

		n, err := readPdu(tnla, buf)
		if err != nil {
			if isReadTimeout(err) {
				continue
			}
			log.Warn("ng setup: socket closed before setup completed", zap.Error(err))
			gnb.Cancel()
			return assocCtx, nil, false
		}

		pdu, decErr := codec.Decode(buf[:n])
		if decErr != nil {
			log.Warn("ng setup: malformed pdu", zap.Error(decErr))
			writeErrorIndication(tnla, pdu, log)
			gnb.Cancel()
			return assocCtx, nil, false
		}

		if pdu.Kind != model.KindNgSetupRequest {
			log.Warn("ng setup: unexpected pdu kind while pending", zap.String("kind", pdu.Kind.String()))
			writeErrorIndication(tnla, model.Pdu{
				Kind: model.KindErrorIndication,
				ErrorIndication: &model.ErrorIndication{
					Cause: model.Cause{
						Group: model.CauseGroupProtocol,
						Value: model.CauseProtocolMessageNotCompatibleWithReceiverState,
					},
				},
			}, log)
			gnb.Cancel()
			return assocCtx, nil, false
		}

		resp, failure := HandleNgSetupRequest(e.App, e.Gnbs, gnb, pdu.NgSetupRequest)
		if failure != nil {
			writePdu(tnla, model.Pdu{Kind: model.KindNgSetupFailure, NgSetupFailure: failure}, log)
			attempt++
			continue
		}

		writePdu(tnla, model.Pdu{Kind: model.KindNgSetupResponse, NgSetupResponse: resp}, log)
		return assocCtx, gnb, true
	}

	log.Warn("ng setup: exhausted retries")
	gnb.Cancel()
	return assocCtx, nil, false
}

// runSteadyLoop implements the Established state: each inbound PDU is
// decoded and routed from its own goroutine (spec.md §4.5.2), while reads
// themselves stay sequential on the Tnla. Each read carries
// defaultReadTimeout so a cancelled ctx is noticed within one timeout
// instead of only between reads (spec.md §9 graceful shutdown).
func (e *Engine) runSteadyLoop(ctx context.Context, tnla *transport.Tnla, gnb *gnbcontext.GnbContext, log *zap.Logger) {
	buf := make([]byte, 65536)

	for {
		select {
		case <-ctx.Done():
			gnb.Cancel()
			return
		default:
		}

		n, err := readPdu(tnla, buf)
		if err != nil {
			if isReadTimeout(err) {
				continue
			}
			log.Info("association closed", zap.Error(err))
			return
		}

		raw := append([]byte(nil), buf[:n]...)
		go e.routePdu(raw, gnb, log)
	}
}

// routePdu decodes and dispatches one PDU from the steady loop
// (spec.md §4.5.2).
func (e *Engine) routePdu(raw []byte, gnb *gnbcontext.GnbContext, log *zap.Logger) {
	pdu, err := codec.Decode(raw)
	if err != nil {
		log.Warn("routing: malformed pdu", zap.Error(err))
		writeErrorIndication(gnb.Tnla, pdu, log)
		return
	}

	switch pdu.Kind {
	case model.KindInitialUeMessage:
		if err := e.HandleInitialUeMessage(gnb, pdu.InitialUeMessage); err != nil {
			log.Warn("initial ue message failed", zap.Error(err))
		}
	default:
		log.Warn("routing: unsupported pdu kind", zap.String("kind", pdu.Kind.String()))
		writePdu(gnb.Tnla, model.Pdu{
			Kind: model.KindErrorIndication,
			ErrorIndication: &model.ErrorIndication{
				Cause: model.Cause{Group: model.CauseGroupProtocol, Value: model.CauseProtocolSemanticError},
			},
		}, log)
	}
}

// readPdu bounds the next Read with defaultReadTimeout before issuing it,
// so a caller's loop wakes up periodically to recheck its context instead
// of blocking on Read indefinitely.
func readPdu(tnla *transport.Tnla, buf []byte) (int, error) {
	if err := tnla.SetReadDeadline(time.Now().Add(defaultReadTimeout)); err != nil {
		return 0, err
	}
	n, err := tnla.Read(buf)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("engine: peer half-closed")
	}
	return n, nil
}

// isReadTimeout reports whether err is (or wraps) a deadline timeout from
// readPdu, as opposed to a genuine transport failure.
func isReadTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func writePdu(tnla *transport.Tnla, pdu model.Pdu, log *zap.Logger) {
	raw, err := codec.Encode(pdu)
	if err != nil {
		log.Error("failed to encode outbound pdu", zap.Error(err))
		return
	}
	if err := tnla.Write(raw); err != nil {
		log.Warn("failed to write outbound pdu", zap.Error(err))
	}
}

func writeErrorIndication(tnla *transport.Tnla, pdu model.Pdu, log *zap.Logger) {
	if pdu.Kind != model.KindErrorIndication {
		return
	}
	writePdu(tnla, pdu, log)
}

// withGnb dispatches fn against the gNB registered under id. Inside this
// package it backs the send closure handed to each UeContext (the UE's
// weak back-reference to its gNB).
func withGnb(gnbs *GnbManager, id model.GlobalRanNodeId, fn func(*gnbcontext.GnbContext) error) error {
	_, err := ctxmanager.WithContext(gnbs, id, func(g **gnbcontext.GnbContext) error {
		return fn(*g)
	})
	return err
}
