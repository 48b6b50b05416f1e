package viewstate

import "sync"

// DefaultBuffer is the per-subscriber channel capacity used when Subscribe gets a smaller value.
const DefaultBuffer = 8

// Observable is the read-only handle the presentation layer holds on a stream.
type Observable[T any] interface {
	// Current returns the latest published state.
	Current() State[T]
	// Subscribe returns a channel that first receives the current state and
	// then every later transition, plus a function that ends the subscription.
	Subscribe(buffer int) (<-chan State[T], func())
}

// Stream is a single-writer, multi-reader broadcast of State values.
// Publish replaces the current value wholesale; subscribers never see a
// value mutated in place. When a subscriber falls behind, its oldest
// buffered value is dropped so the latest one is always delivered.
type Stream[T any] struct {
	mu      sync.Mutex
	current State[T]
	subs    map[uint64]chan State[T]
	nextID  uint64
}

// NewStream returns a stream whose current value is Idle.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{
		current: Idle[T](),
		subs:    make(map[uint64]chan State[T]),
	}
}

// Current implements Observable.
func (s *Stream[T]) Current() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Publish makes st the current state and fans it out to subscribers.
func (s *Stream[T]) Publish(st State[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = st
	for _, ch := range s.subs {
		offer(ch, st)
	}
}

// Subscribe implements Observable.
func (s *Stream[T]) Subscribe(buffer int) (<-chan State[T], func()) {
	if buffer < DefaultBuffer {
		buffer = DefaultBuffer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan State[T], buffer)
	ch <- s.current
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Observe returns the stream as a read-only handle.
func (s *Stream[T]) Observe() Observable[T] {
	return s
}

// offer delivers st without blocking, evicting the oldest value if ch is full.
// Callers hold the stream lock, so only one writer touches ch at a time.
func offer[T any](ch chan State[T], st State[T]) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
