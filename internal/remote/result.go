package remote

import "fmt"

// Kind classifies the outcome of one remote call.
type Kind int

const (
	// KindNone means no call was issued.
	KindNone Kind = iota
	// KindOK means the service answered with a success status.
	KindOK
	// KindRejected means the service answered but refused the request.
	KindRejected
	// KindUnreachable means no usable answer was obtained.
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindRejected:
		return "rejected"
	case KindUnreachable:
		return "unreachable"
	default:
		return "none"
	}
}

// Result is the tagged outcome of a gateway call. Payload is only meaningful for KindOK.
type Result[T any] struct {
	Kind    Kind
	Status  int
	Payload T
	Err     error
}

// OK builds a successful result.
func OK[T any](status int, payload T) Result[T] {
	return Result[T]{Kind: KindOK, Status: status, Payload: payload}
}

// Rejected builds a result for a call the service refused.
func Rejected[T any](status int) Result[T] {
	return Result[T]{Kind: KindRejected, Status: status}
}

// Unreachable builds a result for a call that did not complete.
func Unreachable[T any](cause error) Result[T] {
	return Result[T]{Kind: KindUnreachable, Err: cause}
}

func (r Result[T]) IsOK() bool          { return r.Kind == KindOK }
func (r Result[T]) IsRejected() bool    { return r.Kind == KindRejected }
func (r Result[T]) IsUnreachable() bool { return r.Kind == KindUnreachable }

func (r Result[T]) String() string {
	switch r.Kind {
	case KindRejected:
		return fmt.Sprintf("rejected (status %d)", r.Status)
	case KindUnreachable:
		return fmt.Sprintf("unreachable: %v", r.Err)
	default:
		return r.Kind.String()
	}
}
