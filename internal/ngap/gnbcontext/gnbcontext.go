// Package gnbcontext holds GnbContext, the per-association gNB state
// (spec.md §4.2 row 2). Grounded on
// app/src/ngap/context/gnb_context.rs in original_source.
package gnbcontext

import (
	"context"
	"sync/atomic"

	"github.com/your-org/omnipath/internal/ngap/model"
	"github.com/your-org/omnipath/internal/ngap/transport"
	"github.com/your-org/omnipath/internal/ngap/uecontext"
)

// GnbContext is created by the association's setup goroutine when NG
// Setup begins and lives until the association tears down. Until NG Setup
// succeeds it is owned exclusively by that goroutine (spec.md §7:
// "Accepted" state); it is registered in the engine's GnbContext manager
// only once setup succeeds ("Established"). Once registered, all mutation
// goes through that manager's per-context queue.
type GnbContext struct {
	Tnla             *transport.Tnla
	GlobalRanNodeId  model.GlobalRanNodeId
	Name             string
	DefaultPagingDrx model.PagingDrx
	UeContexts       *uecontext.Manager
	Cancel           context.CancelFunc

	amfUeIdCounter atomic.Uint64
}

// New creates a GnbContext bound to tnla, with cancel invoked to tear the
// association's read loop down during shutdown or on peer half-close.
func New(tnla *transport.Tnla, cancel context.CancelFunc) *GnbContext {
	return &GnbContext{
		Tnla:       tnla,
		UeContexts: uecontext.NewManager(),
		Cancel:     cancel,
	}
}

// ID implements ctxmanager.Identifiable. It is only meaningful once NG
// Setup has populated GlobalRanNodeId — GnbContext is never registered in
// the engine's manager before that point.
func (g *GnbContext) ID() model.GlobalRanNodeId {
	return g.GlobalRanNodeId
}

// NextAmfUeNgapId allocates the next AMF UE NGAP ID for a new UE under
// this gNB. IDs are never reused within the gNB's lifetime (spec.md §4.2
// invariant: "AMF UE id monotonicity").
func (g *GnbContext) NextAmfUeNgapId() model.AmfUeNgapId {
	return model.AmfUeNgapId(g.amfUeIdCounter.Add(1))
}
