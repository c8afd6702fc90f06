package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/overlaykit/streamrelay/internal/relay"
	"go.uber.org/zap"
)

const (
	readLimit     = 1024
	sendQueueSize = 256
)

// watchRequest is the only recognized inbound frame.
type watchRequest struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type WebSocketServer struct {
	logger     *zap.Logger
	upgrader   *websocket.Upgrader
	controller *relay.Controller
}

func NewWebSocketServer(
	logger *zap.Logger,
	upgrader *websocket.Upgrader,
	controller *relay.Controller,
) *WebSocketServer {
	return &WebSocketServer{
		logger,
		upgrader,
		controller,
	}
}

func (s *WebSocketServer) Register(router *mux.Router) {
	router.HandleFunc("/ws", s.handle)
}

func (s *WebSocketServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	conn.SetReadLimit(readLimit)

	subscriber := relay.NewSubscriber(gonanoid.Must(), sendQueueSize)
	logger := s.logger.With(zap.String("subscriberId", subscriber.Id))

	logger.Info("subscriber connected",
		zap.String("remoteAddr", conn.RemoteAddr().String()))

	go s.writePump(logger, conn, subscriber)

	s.readLoop(logger, conn, subscriber)

	s.controller.Close(subscriber)
	conn.Close()

	logger.Info("subscriber disconnected")
}

// readLoop consumes inbound frames until the transport closes. Malformed
// or unrecognized frames are dropped without answering; the connection
// stays usable.
func (s *WebSocketServer) readLoop(logger *zap.Logger, conn *websocket.Conn, subscriber *relay.Subscriber) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var request watchRequest
		if err := json.Unmarshal(data, &request); err != nil {
			logger.Debug("ignoring malformed frame", zap.Error(err))
			continue
		}

		if request.Type != "connectStreamer" {
			logger.Debug("ignoring unrecognized frame",
				zap.String("type", request.Type))
			continue
		}

		if err := s.controller.Watch(subscriber, request.Username); err != nil {
			logger.Warn("watch request refused",
				zap.String("streamer", request.Username),
				zap.Error(err))
		}
	}
}

// writePump drains the subscriber queue onto the wire until the queue
// closes or a write fails.
func (s *WebSocketServer) writePump(logger *zap.Logger, conn *websocket.Conn, subscriber *relay.Subscriber) {
	for message := range subscriber.Receive() {
		if err := conn.WriteJSON(message); err != nil {
			logger.Debug("write to subscriber failed", zap.Error(err))
			conn.Close()
			return
		}
	}

	conn.Close()
}
