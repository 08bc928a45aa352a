// Package nrferr classifies the NRF-side error taxonomy of spec.md §7
// (invalid Location, invalid response body, problem-details-bearing
// non-2xx, authorization error, token-store error) into a flat Kind enum.
// Grounded on NrfManagementError/NrfDiscoveryError/GenericClientError in
// original_source's utils/client/src/{nrf_client.rs,lib.rs}, which
// partition the same failures one Rust error variant per case;
// re-expressed as a single Kind-tagged struct for the same reason
// ngaperr is.
package nrferr

import "fmt"

// Kind is one of the flat error kinds of spec.md §7's NRF-side taxonomy.
type Kind uint8

const (
	// KindInvalidLocation covers a Register response whose Location
	// header is missing or not parseable.
	KindInvalidLocation Kind = iota
	// KindInvalidBody covers a response body that fails to decode as the
	// expected JSON shape (NFProfile, SearchResult, access token response).
	KindInvalidBody
	// KindProblemDetails covers a non-2xx response, whether or not it
	// carries a TS 29.500 ProblemDetails body.
	KindProblemDetails
	// KindAuthorization covers OAuth2 token acquisition/application
	// failures.
	KindAuthorization
	// KindTokenStore covers errors surfaced by tokenstore.Store itself
	// (ErrUpdateAlreadyInProgress, ErrMaxReadIterations, a prior failed
	// update).
	KindTokenStore
)

func (k Kind) String() string {
	switch k {
	case KindInvalidLocation:
		return "invalid_location"
	case KindInvalidBody:
		return "invalid_body"
	case KindProblemDetails:
		return "problem_details"
	case KindAuthorization:
		return "authorization"
	case KindTokenStore:
		return "token_store"
	default:
		return "unknown"
	}
}

// Error is an nrf-client error tagged with its taxonomy Kind. Op names
// the operation that failed (e.g. "register", "search", "oauth2 token").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("nrf: %s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("nrf: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
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
