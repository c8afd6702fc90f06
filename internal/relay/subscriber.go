package relay

import "sync"

// Subscriber is one downstream connection handle: an id and a bounded
// send queue drained by the transport's write pump. The transport itself
// stays opaque to the relay core.
type Subscriber struct {
	Id string

	mu     sync.Mutex
	closed bool
	send   chan Message
}

func NewSubscriber(id string, queueSize int) *Subscriber {
	return &Subscriber{
		Id:   id,
		send: make(chan Message, queueSize),
	}
}

// TrySend queues a message without blocking. It reports false when the
// subscriber is closed or its queue is full.
func (s *Subscriber) TrySend(message Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	select {
	case s.send <- message:
		return true
	default:
		return false
	}
}

// Receive is the queue end drained by the write pump; it is closed when
// the subscriber is closed.
func (s *Subscriber) Receive() <-chan Message {
	return s.send
}

// Close makes the subscriber refuse further sends and closes the queue.
// Idempotent.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	close(s.send)
}
