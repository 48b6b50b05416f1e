// Package viewstate models the lifecycle phases a use case publishes to its observers.
package viewstate

// Kind is the active variant of a State.
type Kind uint8

const (
	// KindIdle means no action has been taken yet.
	KindIdle Kind = iota
	// KindLoading means a request is in flight.
	KindLoading
	// KindSuccess carries the use-case result.
	KindSuccess
	// KindError carries a user-facing message.
	KindError
	// KindDeleted marks a list whose content changed through a deletion.
	KindDeleted
)

var kindNames = [...]string{"IDLE", "LOADING", "SUCCESS", "ERROR", "DELETED"}

// String returns the upper-case tag of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// MarshalText renders the kind as its tag.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is an immutable view-state value. Data is meaningful only for
// KindSuccess and Message only for KindError.
type State[T any] struct {
	Kind    Kind
	Data    T
	Message string
}

// Idle returns the initial state.
func Idle[T any]() State[T] {
	return State[T]{Kind: KindIdle}
}

// Loading returns the in-flight state.
func Loading[T any]() State[T] {
	return State[T]{Kind: KindLoading}
}

// Success returns a terminal state carrying data.
func Success[T any](data T) State[T] {
	return State[T]{Kind: KindSuccess, Data: data}
}

// Failed returns a terminal state carrying a user-facing message.
func Failed[T any](message string) State[T] {
	return State[T]{Kind: KindError, Message: message}
}

// Deleted returns the refresh marker published on list streams after a deletion.
func Deleted[T any]() State[T] {
	return State[T]{Kind: KindDeleted}
}

// Settled reports whether the state is terminal for an invocation.
func (s State[T]) Settled() bool {
	return s.Kind == KindSuccess || s.Kind == KindError
}

// Map converts the payload of a Success state with f. Other variants keep
// their kind and message.
func Map[T, V any](s State[T], f func(T) V) State[V] {
	out := State[V]{Kind: s.Kind, Message: s.Message}
	if s.Kind == KindSuccess {
		out.Data = f(s.Data)
	}
	return out
}
