package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeAddr string

func (f fakeAddr) Network() string { return "sctp" }
func (f fakeAddr) String() string  { return string(f) }

func newTestTnla(id uint64, local, remote string) *Tnla {
	return &Tnla{ID: id, LocalAddr: fakeAddr(local), RemoteAddr: fakeAddr(remote)}
}

func TestAssociationsLenTracksAddAndRemove(t *testing.T) {
	a := newAssociations()
	t1 := newTestTnla(1, "10.0.0.1:38412", "10.0.0.2:38412")

	key := addrPair{local: t1.LocalAddr.String(), remote: t1.RemoteAddr.String()}
	a.byAddrs[key] = struct{}{}
	a.byID[t1.ID] = t1
	assert.Equal(t, 1, a.Len())

	a.remove(t1)
	assert.Equal(t, 0, a.Len())
}

func TestErrAssociationAlreadyExistsMessage(t *testing.T) {
	err := &ErrAssociationAlreadyExists{Local: "10.0.0.1:38412", Remote: "10.0.0.2:38412"}
	assert.Contains(t, err.Error(), "10.0.0.1:38412")
	assert.Contains(t, err.Error(), "10.0.0.2:38412")
}
