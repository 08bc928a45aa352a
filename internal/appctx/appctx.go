// Package appctx holds the process-wide AppContext: an atomically
// swappable Configuration snapshot plus a separately swappable Sbi runtime
// snapshot (spec.md §4.6; the Sbi/Configuration split is grounded on
// lightning-nf/omnipath/app/src/context/app_context.rs in original_source).
package appctx

import (
	"sync"
	"sync/atomic"

	"github.com/your-org/omnipath/internal/config"
)

// Sbi is the runtime SBI endpoint snapshot, kept apart from what was
// requested in Configuration.SBI. cmd/amf seeds it from Configuration.SBI
// at startup and it changes only through CommitSbi; nothing in this
// repository binds an SBI server, so Port is the configured value.
type Sbi struct {
	Scheme       string
	BindingIPv4  string
	RegisterIPv4 string
	Port         int
	OAuthEnabled bool
}

// AppContext is the process-wide, read-mostly runtime state. Readers call
// GetConfig/GetSbi and receive a pointer to an immutable snapshot; writers
// call CommitConfig/CommitSbi, which copy-on-write and publish atomically.
// Tests construct their own AppContext with New instead of touching the
// global published by Init/Global.
type AppContext struct {
	configSnapshot atomic.Pointer[config.Configuration]
	sbiSnapshot    atomic.Pointer[Sbi]
}

// New builds an isolated AppContext seeded with the given configuration
// and Sbi snapshot. Procedure handlers take an explicit *AppContext so
// tests never need the process-wide singleton below.
func New(cfg *config.Configuration, sbi *Sbi) *AppContext {
	ac := &AppContext{}
	ac.configSnapshot.Store(cfg)
	ac.sbiSnapshot.Store(sbi)
	return ac
}

// GetConfig returns the current Configuration snapshot. The returned
// pointer is never mutated after publication — callers may hold it across
// suspension points without risk of a torn read.
func (ac *AppContext) GetConfig() *config.Configuration {
	return ac.configSnapshot.Load()
}

// GetSbi returns the current Sbi snapshot.
func (ac *AppContext) GetSbi() *Sbi {
	return ac.sbiSnapshot.Load()
}

// CommitConfig clones the current Configuration, applies update, and
// publishes the result atomically. Concurrent GetConfig calls observe
// either the pre- or post-commit snapshot in full, never a mix.
func (ac *AppContext) CommitConfig(update func(*config.Configuration)) {
	current := ac.configSnapshot.Load()
	next := *current
	update(&next)
	ac.configSnapshot.Store(&next)
}

// CommitSbi clones the current Sbi snapshot, applies update, and publishes
// the result atomically.
func (ac *AppContext) CommitSbi(update func(*Sbi)) {
	current := ac.sbiSnapshot.Load()
	next := *current
	update(&next)
	ac.sbiSnapshot.Store(&next)
}

var (
	globalOnce sync.Once
	global     *AppContext
)

// Init publishes the process-wide AppContext. It must be called exactly
// once, from the top-level binder (cmd/amf/main.go); subsequent calls are
// no-ops. Procedure handlers should prefer an explicitly-passed
// *AppContext over Global() so they remain testable in isolation.
func Init(cfg *config.Configuration, sbi *Sbi) *AppContext {
	globalOnce.Do(func() {
		global = New(cfg, sbi)
	})
	return global
}

// Global returns the process-wide AppContext published by Init. It panics
// if Init has not yet been called — this is a programmer error, not a
// runtime condition to recover from.
func Global() *AppContext {
	if global == nil {
		panic("appctx: Global() called before Init()")
	}
	return global
}
