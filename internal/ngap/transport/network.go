package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ishidawataru/sctp"
	"go.uber.org/zap"

	"github.com/your-org/omnipath/internal/config"
	"github.com/your-org/omnipath/internal/ngaperr"
)

type addrPair struct {
	local, remote string
}

// Associations is the registry of live Tnla associations, keyed by
// association ID, with a parallel (local, remote) address set used to
// reject a duplicate association from the same gNB socket pair. Grounded
// on original_source's network.rs Associations type.
type Associations struct {
	mu      sync.RWMutex
	byID    map[uint64]*Tnla
	byAddrs map[addrPair]struct{}
}

func newAssociations() *Associations {
	return &Associations{
		byID:    make(map[uint64]*Tnla),
		byAddrs: make(map[addrPair]struct{}),
	}
}

// ErrAssociationAlreadyExists is returned by add when an association with
// the same (local, remote) address pair is already registered.
type ErrAssociationAlreadyExists struct {
	Local, Remote string
}

func (e *ErrAssociationAlreadyExists) Error() string {
	return fmt.Sprintf("transport: association already exists for %s <-> %s", e.Local, e.Remote)
}

func (a *Associations) add(conn *sctp.SCTPConn) (*Tnla, error) {
	tnla := newTnla(conn)
	key := addrPair{local: tnla.LocalAddr.String(), remote: tnla.RemoteAddr.String()}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.byAddrs[key]; exists {
		return nil, &ErrAssociationAlreadyExists{Local: key.local, Remote: key.remote}
	}
	a.byAddrs[key] = struct{}{}
	a.byID[tnla.ID] = tnla
	return tnla, nil
}

func (a *Associations) remove(tnla *Tnla) {
	key := addrPair{local: tnla.LocalAddr.String(), remote: tnla.RemoteAddr.String()}

	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.byID, tnla.ID)
	delete(a.byAddrs, key)
}

// Len reports the number of currently registered associations.
func (a *Associations) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.byID)
}

// Network owns the bound SCTP listener and the Associations registry for
// every gNB currently connected to it. Grounded on
// lightning-nf/omnipath/ngap/src/network.rs in original_source (tokio_sctp
// listener + RwLock<Associations>), re-expressed with
// github.com/ishidawataru/sctp's synchronous Accept/Read/Write API driven
// from goroutines instead of tokio tasks.
type Network struct {
	listener     *sctp.SCTPListener
	associations *Associations
	log          *zap.Logger
}

// Listen binds an SCTP listener on ip:port, passing sctpCfg's
// NumOstreams/MaxInstreams/MaxAttempts/MaxInitTimeout through as the
// association's SCTP_INITMSG socket option (spec.md §6). SCTP_NODELAY is
// set on every accepted connection in Accept, per spec.md:220.
func Listen(ip net.IP, port int, sctpCfg config.SCTP, log *zap.Logger) (*Network, error) {
	addr := &sctp.SCTPAddr{
		IPAddrs: []net.IPAddr{{IP: ip}},
		Port:    port,
	}

	listener, err := sctp.ListenSCTPExt("sctp", addr, sctp.InitMsg{
		NumOstreams:    uint16(sctpCfg.NumOstreams),
		MaxInstreams:   uint16(sctpCfg.MaxInstreams),
		MaxAttempts:    uint16(sctpCfg.MaxAttempts),
		MaxInitTimeout: uint16(sctpCfg.MaxInitTimeout / time.Millisecond),
	})
	if err != nil {
		return nil, ngaperr.New(ngaperr.KindTransport, "sctp listen", fmt.Errorf("%s:%d: %w", ip, port, err))
	}

	return &Network{
		listener:     listener,
		associations: newAssociations(),
		log:          log,
	}, nil
}

// Associations exposes the live-association registry for introspection
// (e.g. metrics, graceful-shutdown fan-out).
func (n *Network) Associations() *Associations {
	return n.associations
}

// Accept blocks for the next incoming SCTP association, sets
// SCTP_NODELAY on it (spec.md:220), and registers it. It returns
// transport.ErrAssociationAlreadyExists if a connection from the same
// (local, remote) pair is already registered; the caller decides whether
// that is fatal to the accept loop.
func (n *Network) Accept() (*Tnla, error) {
	conn, err := n.listener.AcceptSCTP()
	if err != nil {
		return nil, ngaperr.New(ngaperr.KindTransport, "sctp accept", err)
	}
	if err := conn.SetNoDelay(true); err != nil {
		n.log.Warn("failed to set SCTP_NODELAY", zap.Error(err))
	}
	tnla, err := n.associations.add(conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return tnla, nil
}

// Remove unregisters tnla from the associations registry. It does not
// close the underlying connection — callers close it themselves once
// their per-association read loop has returned.
func (n *Network) Remove(tnla *Tnla) {
	n.associations.remove(tnla)
}

// AcceptLoop accepts associations until ctx is cancelled, calling onAccept
// for each new Tnla from its own goroutine; onAccept is responsible for
// running that association's read loop and for calling Remove+Close on
// exit. AcceptLoop returns once ctx is cancelled and the listener has been
// closed, after waiting for every onAccept goroutine it spawned to return.
func (n *Network) AcceptLoop(ctx context.Context, onAccept func(*Tnla)) error {
	var wg sync.WaitGroup
	acceptErrCh := make(chan error, 1)

	go func() {
		for {
			tnla, err := n.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					acceptErrCh <- nil
					return
				default:
				}
				if _, dup := err.(*ErrAssociationAlreadyExists); dup {
					n.log.Warn("rejected duplicate association", zap.Error(err))
					continue
				}
				acceptErrCh <- err
				return
			}

			n.log.Info("accepted association",
				zap.Uint64("association_id", tnla.ID),
				zap.String("remote", tnla.RemoteAddr.String()))

			wg.Add(1)
			go func() {
				defer wg.Done()
				onAccept(tnla)
			}()
		}
	}()

	select {
	case err := <-acceptErrCh:
		wg.Wait()
		return err
	case <-ctx.Done():
		_ = n.listener.Close()
		<-acceptErrCh
		wg.Wait()
		return nil
	}
}

// Close closes the listener without waiting for in-flight associations.
func (n *Network) Close() error {
	return n.listener.Close()
}
