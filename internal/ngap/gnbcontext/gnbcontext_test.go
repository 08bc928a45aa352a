package gnbcontext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/omnipath/internal/ngap/model"
)

func TestNewGnbContextStartsEmpty(t *testing.T) {
	g := New(nil, func() {})
	assert.Equal(t, model.GlobalRanNodeId{}, g.ID())
	assert.Equal(t, 0, g.UeContexts.Len())
}

func TestNextAmfUeNgapIdIsMonotonic(t *testing.T) {
	g := New(nil, func() {})
	first := g.NextAmfUeNgapId()
	second := g.NextAmfUeNgapId()
	assert.Equal(t, model.AmfUeNgapId(1), first)
	assert.Equal(t, model.AmfUeNgapId(2), second)
}

func TestCancelInvokesSuppliedFunc(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := New(nil, cancel)
	g.Cancel()
	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected ctx to be cancelled")
	}
}
