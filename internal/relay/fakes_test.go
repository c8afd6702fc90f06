package relay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/overlaykit/streamrelay/internal/upstream"
)

// fakeConnector is a scriptable upstream.Connector. When gated, Connect
// blocks until the gate is opened, so tests control when the handshake
// outcome reaches subscribers.
type fakeConnector struct {
	username   string
	connectErr error
	gate       chan struct{}

	events chan upstream.Event
	once   sync.Once

	mu           sync.Mutex
	disconnected bool
}

func (f *fakeConnector) Connect(ctx context.Context) error {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return f.connectErr
}

func (f *fakeConnector) Events() <-chan upstream.Event {
	return f.events
}

func (f *fakeConnector) Disconnect() {
	f.once.Do(func() {
		f.mu.Lock()
		f.disconnected = true
		f.mu.Unlock()

		close(f.events)
	})
}

func (f *fakeConnector) isDisconnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.disconnected
}

func (f *fakeConnector) emit(event upstream.Event) {
	f.events <- event
}

func (f *fakeConnector) openGate() {
	close(f.gate)
}

type fakeFactory struct {
	connectErr error
	gated      bool

	mu      sync.Mutex
	created []*fakeConnector
}

func (ff *fakeFactory) factory() upstream.Factory {
	return func(username string) upstream.Connector {
		connector := &fakeConnector{
			username:   username,
			connectErr: ff.connectErr,
			events:     make(chan upstream.Event),
		}
		if ff.gated {
			connector.gate = make(chan struct{})
		}

		ff.mu.Lock()
		ff.created = append(ff.created, connector)
		ff.mu.Unlock()

		return connector
	}
}

func (ff *fakeFactory) count() int {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	return len(ff.created)
}

func (ff *fakeFactory) byUsername(username string) *fakeConnector {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	for _, connector := range ff.created {
		if connector.username == username {
			return connector
		}
	}

	return nil
}

func (ff *fakeFactory) last() *fakeConnector {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if len(ff.created) == 0 {
		return nil
	}

	return ff.created[len(ff.created)-1]
}

// captureSink records everything broadcast through it.
type captureSink struct {
	mu     sync.Mutex
	frames []sinkFrame
}

type sinkFrame struct {
	streamer string
	message  Message
}

func (c *captureSink) Broadcast(streamer string, message Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames = append(c.frames, sinkFrame{streamer, message})
}

func (c *captureSink) snapshot() []sinkFrame {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]sinkFrame(nil), c.frames...)
}

func recvMessage(t *testing.T, subscriber *Subscriber) Message {
	t.Helper()

	select {
	case message, open := <-subscriber.Receive():
		if !open {
			t.Fatal("subscriber queue closed while waiting for message")
		}
		return message
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func assertNoMessage(t *testing.T, subscriber *Subscriber) {
	t.Helper()

	select {
	case message, open := <-subscriber.Receive():
		if open {
			t.Fatalf("unexpected message: %+v", message)
		}
	case <-time.After(100 * time.Millisecond):
	}
}
