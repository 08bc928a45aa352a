// Package ngaperr classifies the NGAP-side error taxonomy of spec.md §7
// (Transport, Codec, Procedure, Lifecycle) into a flat Kind enum, so
// callers can switch on errors.Is/errors.As instead of matching error
// strings. Grounded on the NetworkError/TnlaError enums in
// original_source's app/src/ngap/network/error.rs and ngap/src/error.rs,
// which partition the same transport/association failures; re-expressed
// as a single Kind-tagged struct instead of one Go error type per Rust
// variant, since Go has no enum-with-payload construct to mirror it
// directly.
package ngaperr

import "fmt"

// Kind is one of the flat error kinds of spec.md §7's NGAP-side taxonomy.
type Kind uint8

const (
	// KindTransport covers socket creation, bind, accept, read, write,
	// and configuration failures at the Tnla/Network level.
	KindTransport Kind = iota
	// KindCodec covers encode/decode failures. Decode errors are turned
	// into ErrorIndication PDUs before reaching callers, and the codec
	// reports encode failures as plain errors; no code in this repository
	// constructs a KindCodec error.
	KindCodec
	// KindProcedure covers NG Setup and Initial UE Message failures
	// (conflicting RAN id, unsupported TAIs, PLMN conversion, UE context
	// already exists or not found).
	KindProcedure
	// KindLifecycle covers the runtime/deregistration outcome
	// combinations at shutdown. No code in this repository constructs it:
	// cmd/amf logs an engine failure and an NRF deregistration failure
	// separately and does not report them as one combined outcome.
	KindLifecycle
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindCodec:
		return "codec"
	case KindProcedure:
		return "procedure"
	case KindLifecycle:
		return "lifecycle"
	default:
		return "unknown"
	}
}

// Error is an ngap-layer error tagged with its taxonomy Kind. Op names the
// operation that failed (e.g. "sctp listen", "ng setup", "deregister").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("ngap: %s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("ngap: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, ngaperr.New(ngaperr.KindProcedure, "", nil)) or,
// more idiomatically, errors.As plus a Kind comparison.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New wraps err with the given Kind and operation name.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
