package uecontext

import (
	"github.com/your-org/omnipath/internal/ctxmanager"
	"github.com/your-org/omnipath/internal/ngap/model"
)

// Manager is the per-gNB registry of UeContext, keyed by RanUeNgapId
// (spec.md §4.2: "UE uniqueness within a gNB").
type Manager = ctxmanager.ContextManager[model.RanUeNgapId, *UeContext]

// NewManager creates an empty UE context manager.
func NewManager() *Manager {
	return ctxmanager.New[model.RanUeNgapId, *UeContext]()
}

// WithUe dispatches fn into the per-UE queue registered under id.
func WithUe[O any](m *Manager, id model.RanUeNgapId, fn func(**UeContext) O) (O, error) {
	return ctxmanager.WithContext(m, id, fn)
}
