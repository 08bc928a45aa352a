// Package engine implements the NGAP per-association lifecycle and PDU
// routing (spec.md §4.5). Grounded on the per-association state machine
// described throughout original_source's app/src/ngap/ tree (ng_setup.rs,
// initial_ue_message.rs, network.rs) and on the teacher's own
// accept/serve loop shape in nf/amf/cmd/main.go and
// nf/nrf/internal/server/server.go, generalized from an HTTP server loop
// to one goroutine per SCTP association.
package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/your-org/omnipath/internal/appctx"
	"github.com/your-org/omnipath/internal/ctxmanager"
	"github.com/your-org/omnipath/internal/ngap/gnbcontext"
	"github.com/your-org/omnipath/internal/ngap/model"
	"github.com/your-org/omnipath/internal/ngap/transport"
)

// GnbManager is the engine-wide registry of established gNB contexts,
// keyed by GlobalRanNodeId (spec.md §4.2 invariant: "at most one
// GnbContext per GlobalRanNodeId").
type GnbManager = ctxmanager.ContextManager[model.GlobalRanNodeId, *gnbcontext.GnbContext]

// defaultReadTimeout bounds how long a single read on an association
// blocks; on timeout the engine rechecks for cancellation and reads again
// rather than treating the association as failed — spec.md §5 notes
// "no per-read timeout is specified and one must be added by
// implementations (suggested 5 s)".
const defaultReadTimeout = 5 * time.Second

// Engine owns the SCTP network, the gNB registry, and the app context
// every procedure handler reads configuration from.
type Engine struct {
	App     *appctx.AppContext
	Network *transport.Network
	Gnbs    *GnbManager
	Log     *zap.Logger
	Tracer  trace.Tracer

	initializationRetries int
}

// New constructs an Engine bound to network, reading
// Initialization.Retries from app's current configuration for the NG
// Setup retry budget (spec.md §4.5.1).
func New(app *appctx.AppContext, network *transport.Network, log *zap.Logger) *Engine {
	retries := app.GetConfig().Initialization.Retries
	if retries <= 0 {
		retries = 3
	}
	return &Engine{
		App:                   app,
		Network:               network,
		Gnbs:                  ctxmanager.New[model.GlobalRanNodeId, *gnbcontext.GnbContext](),
		Log:                   log,
		Tracer:                otel.Tracer("ngap-engine"),
		initializationRetries: retries,
	}
}

// Run accepts associations until ctx is cancelled, running each through
// the NG-setup-then-steady-loop lifecycle of spec.md §4.5.1.
func (e *Engine) Run(ctx context.Context) error {
	return e.Network.AcceptLoop(ctx, func(tnla *transport.Tnla) {
		e.handleAssociation(ctx, tnla)
	})
}
