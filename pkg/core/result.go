package core

// Result holds the outcome of one operation as a value: either a payload or an error,
// never both. It is the channel and slice element type for concurrent fan-out; direct
// calls return the equivalent (T, error) pair.
type Result[T any] struct {
	value T
	err   error
}

// Ok returns a successful Result carrying v.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail returns a failed Result carrying err. A nil err is replaced so that a failed
// Result can never be mistaken for a success.
func Fail[T any](err error) Result[T] {
	if err == nil {
		err = &Error{Op: -1, Kind: KindUnknown, Message: "failure without cause"}
	}
	return Result[T]{err: err}
}

// From converts a (T, error) pair. A non-nil error discards v.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the Result carries a payload.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Err returns the failure, or nil for a success.
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the (T, error) pair. On failure the payload is T's zero value.
func (r Result[T]) Unwrap() (T, error) {
	if r.err != nil {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}
