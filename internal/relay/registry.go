package relay

import (
	"context"
	"sync"

	"github.com/overlaykit/streamrelay/internal/upstream"
	"go.uber.org/zap"
)

// SessionState is the lifecycle of one shared upstream connection.
type SessionState string

const (
	StateConnecting SessionState = "connecting"
	StateConnected  SessionState = "connected"
	StateFailed     SessionState = "failed"
	StateClosed     SessionState = "closed"
)

// Sink receives normalized messages for a streamer. Implemented by
// Broadcaster.
type Sink interface {
	Broadcast(streamer string, message Message)
}

// Session owns the single upstream connection for one streamer and the
// pump goroutine feeding its events through the normalizer into the sink.
type Session struct {
	streamer  string
	connector upstream.Connector
	cancel    context.CancelFunc

	mu    sync.RWMutex
	state SessionState
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
}

// SessionInfo is a point-in-time view of a session for the operator API.
type SessionInfo struct {
	Streamer    string       `json:"streamer"`
	State       SessionState `json:"state"`
	Subscribers int          `json:"subscribers"`
}

// Registry holds the shared upstream session per streamer. At most one
// session exists per streamer at any time; check-then-create runs under
// the registry lock so concurrent acquires for the same streamer observe
// the winner's in-flight session.
type Registry struct {
	logger  *zap.Logger
	factory upstream.Factory
	sink    Sink

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(
	logger *zap.Logger,
	factory upstream.Factory,
	sink Sink,
) *Registry {
	return &Registry{
		logger:   logger,
		factory:  factory,
		sink:     sink,
		sessions: make(map[string]*Session),
	}
}

// Acquire returns the session for streamer, creating it on first use.
// Creation only starts the asynchronous connect; the outcome reaches
// subscribers later as a connectedStatus frame.
func (r *Registry) Acquire(streamer string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[streamer]; ok {
		return session
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := &Session{
		streamer:  streamer,
		connector: r.factory(streamer),
		cancel:    cancel,
		state:     StateConnecting,
	}

	r.sessions[streamer] = session

	r.logger.Info("opening upstream session",
		zap.String("streamer", streamer))

	go r.pump(ctx, session)

	return session
}

// Release tears down and removes the session for streamer, reporting
// whether one existed. Releasing an unknown streamer is a no-op.
func (r *Registry) Release(streamer string) bool {
	r.mu.Lock()
	session, ok := r.sessions[streamer]
	if ok {
		delete(r.sessions, streamer)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}

	session.setState(StateClosed)
	session.cancel()
	session.connector.Disconnect()

	r.logger.Info("released upstream session",
		zap.String("streamer", streamer))

	return true
}

// Sessions returns a snapshot of all live sessions, with subscriber
// counts filled in from the directory.
func (r *Registry) Sessions(directory *Directory) []SessionInfo {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	r.mu.Unlock()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		infos = append(infos, SessionInfo{
			Streamer:    session.streamer,
			State:       session.State(),
			Subscribers: directory.Count(session.streamer),
		})
	}

	return infos
}

// Shutdown releases every live session.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	streamers := make([]string, 0, len(r.sessions))
	for streamer := range r.sessions {
		streamers = append(streamers, streamer)
	}
	r.mu.Unlock()

	for _, streamer := range streamers {
		r.Release(streamer)
	}
}

// pump drives one session: connect, report the outcome, then forward the
// event feed in order until it ends. Events of a single streamer pass
// through here sequentially, which keeps per-streamer delivery FIFO.
func (r *Registry) pump(ctx context.Context, session *Session) {
	if err := session.connector.Connect(ctx); err != nil {
		// The failed session stays registered until its subscribers
		// drain; no retry.
		if session.State() != StateClosed {
			session.setState(StateFailed)
		}

		r.logger.Error("upstream connect failed",
			zap.String("streamer", session.streamer),
			zap.Error(err))

		r.sink.Broadcast(session.streamer, NewConnectedStatus(StatusFailed))

		return
	}

	if session.State() != StateClosed {
		session.setState(StateConnected)
	}

	r.logger.Info("upstream connected",
		zap.String("streamer", session.streamer))

	r.sink.Broadcast(session.streamer, NewConnectedStatus(StatusConnected))

	for event := range session.connector.Events() {
		message, ok := Normalize(event)
		if !ok {
			continue
		}

		r.sink.Broadcast(session.streamer, message)
	}
}
