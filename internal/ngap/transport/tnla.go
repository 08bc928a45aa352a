// Package transport owns the SCTP transport-network-layer association
// (TNLA) listener and per-association read/write plumbing NGAP runs over
// (spec.md §4.1, §6). Grounded on
// lightning-nf/omnipath/ngap/src/network.rs in original_source
// (tokio_sctp + an associations registry keyed by association id),
// re-expressed over github.com/ishidawataru/sctp — the one out-of-pack
// dependency this repo needs, since no example repo in the retrieval
// pack touches SCTP at all; its use here is named, not grounded, per the
// allowance for genuinely new domain concerns.
package transport

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/ishidawataru/sctp"

	"github.com/your-org/omnipath/internal/ngaperr"
)

// NgapPpid is the SCTP Payload Protocol Identifier reserved for NGAP
// (TS 38.412 §8, IANA PPID 60).
const NgapPpid = 60

var nextAssociationID atomic.Uint64

// Tnla is one SCTP association carrying NGAP traffic between this AMF and
// a single gNB. Reads and writes are serialized per-association by the
// caller (internal/ngap/engine runs one read loop per Tnla); Write itself
// is safe to call concurrently since SCTPWrite is not split across
// goroutines here.
type Tnla struct {
	ID         uint64
	conn       *sctp.SCTPConn
	LocalAddr  net.Addr
	RemoteAddr net.Addr
}

func newTnla(conn *sctp.SCTPConn) *Tnla {
	return &Tnla{
		ID:         nextAssociationID.Add(1),
		conn:       conn,
		LocalAddr:  conn.LocalAddr(),
		RemoteAddr: conn.RemoteAddr(),
	}
}

// Write sends one NGAP PDU over the association on stream 0, tagged with
// the NGAP PPID.
func (t *Tnla) Write(pdu []byte) error {
	info := &sctp.SndRcvInfo{
		Stream: 0,
		PPID:   NgapPpid,
	}
	if _, err := t.conn.SCTPWrite(pdu, info); err != nil {
		return ngaperr.New(ngaperr.KindTransport, "sctp write", fmt.Errorf("association %d: %w", t.ID, err))
	}
	return nil
}

// Read blocks until the next NGAP PDU arrives on the association, or the
// connection is closed/errors/the read deadline set by SetReadDeadline
// elapses. The PDU is copied into buf and the number of bytes read is
// returned.
func (t *Tnla) Read(buf []byte) (int, error) {
	n, _, err := t.conn.SCTPRead(buf)
	if err != nil {
		return 0, ngaperr.New(ngaperr.KindTransport, "sctp read", fmt.Errorf("association %d: %w", t.ID, err))
	}
	return n, nil
}

// SetReadDeadline bounds the next Read call, so a caller's read loop can
// periodically recheck a context for cancellation instead of blocking on
// Read indefinitely (spec.md §9 graceful shutdown; §5's suggested 5s
// per-read timeout).
func (t *Tnla) SetReadDeadline(deadline time.Time) error {
	return t.conn.SetReadDeadline(deadline)
}

// Close tears down the underlying SCTP association. Calling Close more
// than once is safe; subsequent calls return the net package's "already
// closed" error, which every caller here ignores.
func (t *Tnla) Close() error {
	return t.conn.Close()
}
