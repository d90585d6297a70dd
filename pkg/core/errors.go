package core

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a failed operation.
type ErrorKind int

// Error kind constants categorize failures for diagnostics.
const (
	// KindUnknown indicates an unclassified error.
	KindUnknown ErrorKind = iota
	// KindTransport indicates a connection failure, timeout or non-JSON response.
	KindTransport
	// KindExchange indicates the exchange rejected the request.
	KindExchange
	// KindProtocol indicates a successful response that lacks an expected field or value.
	KindProtocol
	// KindConfig indicates invalid configuration or credentials.
	KindConfig
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	return [...]string{
		"UNKNOWN",
		"TRANSPORT",
		"EXCHANGE",
		"PROTOCOL",
		"CONFIG",
	}[k]
}

// Sentinel errors for common failure conditions.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrNonJSONResponse is returned when a response body is not valid JSON.
	ErrNonJSONResponse = errors.New("response is not json")
	// ErrInvalidRequest is returned when a request is malformed or carries both a query and a body.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidSignInput is returned when signer inputs could concatenate ambiguously.
	ErrInvalidSignInput = errors.New("invalid signature input")
	// ErrEmptyData is returned when a response has no data records.
	ErrEmptyData = errors.New("no data in response")
	// ErrMissingField is returned when a required response field is absent.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField is returned when a response field is present but cannot be parsed.
	ErrInvalidField = errors.New("invalid field")
	// ErrNoSuchChain is returned when a coin does not list the requested chain.
	ErrNoSuchChain = errors.New("no such chain")
	// ErrWrongStatus is returned when a withdrawal record has an unexpected status.
	ErrWrongStatus = errors.New("wrong status")
	// ErrEmptySubAccounts is returned when the account has no sub-accounts.
	ErrEmptySubAccounts = errors.New("empty sub-accounts list")
	// ErrNoSuchSubAccount is returned when a sub-account id is not in the response.
	ErrNoSuchSubAccount = errors.New("no such sub-account")
	// ErrNoSuchAsset is returned when a balance list does not contain the requested coin.
	ErrNoSuchAsset = errors.New("no such asset")
)

// Error is the failure half of the result protocol. Every catalog operation reports
// failures as an *Error whose text starts with the operation that observed it.
type Error struct {
	// Op is the operation that failed.
	Op Operation `json:"op"`
	// Kind categorizes the failure.
	Kind ErrorKind `json:"kind"`
	// StatusCode is the HTTP status code, zero when no response was received.
	StatusCode int `json:"status_code,omitempty"`
	// Code is the exchange-specific error code.
	Code string `json:"code,omitempty"`
	// Message is the human-readable description. For exchange errors it is the
	// exchange's message verbatim.
	Message string `json:"message,omitempty"`
	// Err is the underlying cause.
	Err error `json:"-"`
}

// Error implements the error interface. The format is "op: message" or "op: cause".
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error of the given kind wrapping err.
func NewError(op Operation, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// NewExchangeError creates an Error for a request the exchange rejected.
func NewExchangeError(op Operation, statusCode int, code, message string) *Error {
	return &Error{
		Op:         op,
		Kind:       KindExchange,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// Wrap attributes err to op. The kind, status and code of the innermost *Error are kept
// so that a chained operation reports the same category as the step that failed.
// Wrap returns nil for a nil error.
func Wrap(op Operation, err error) error {
	if err == nil {
		return nil
	}
	wrapped := &Error{Op: op, Kind: KindUnknown, Err: err}
	var inner *Error
	if errors.As(err, &inner) {
		wrapped.Kind = inner.Kind
		wrapped.StatusCode = inner.StatusCode
		wrapped.Code = inner.Code
	}
	return wrapped
}

// KindOf returns the kind of the outermost *Error in err's chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsTransportError returns true if the failure happened before a usable response arrived.
func IsTransportError(err error) bool {
	return KindOf(err) == KindTransport
}

// IsExchangeError returns true if the exchange rejected the request.
func IsExchangeError(err error) bool {
	return KindOf(err) == KindExchange
}

// IsProtocolError returns true if the response did not have the expected shape.
func IsProtocolError(err error) bool {
	return KindOf(err) == KindProtocol
}

// IsConfigError returns true if the failure stems from configuration or credentials.
func IsConfigError(err error) bool {
	return KindOf(err) == KindConfig
}
