package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/overlaykit/streamrelay/internal/auth"
	"github.com/overlaykit/streamrelay/internal/relay"
	"go.uber.org/zap"
)

// RESTServer exposes the operator API: inspecting live upstream sessions
// and evicting one. The subscriber wire protocol is untouched by this.
type RESTServer struct {
	logger        *zap.Logger
	authenticator *auth.Authenticator
	registry      *relay.Registry
	directory     *relay.Directory
}

func NewRESTServer(
	logger *zap.Logger,
	authenticator *auth.Authenticator,
	registry *relay.Registry,
	directory *relay.Directory,
) *RESTServer {
	return &RESTServer{
		logger,
		authenticator,
		registry,
		directory,
	}
}

func (s *RESTServer) Register(router *mux.Router) {
	router.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	router.HandleFunc("/sessions/{username}", s.handleEvictSession).Methods("DELETE")
}

type sessionsResponse struct {
	Sessions []relay.SessionInfo `json:"sessions"`
}

func (s *RESTServer) handleListSessions(w http.ResponseWriter, r *http.Request) {
	authentication, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	if !authentication.CanRead() {
		http.Error(w, "read scope required", http.StatusForbidden)
		return
	}

	response := sessionsResponse{
		Sessions: s.registry.Sessions(s.directory),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("failed to encode sessions response", zap.Error(err))
	}
}

func (s *RESTServer) handleEvictSession(w http.ResponseWriter, r *http.Request) {
	authentication, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	if !authentication.CanManage() {
		http.Error(w, "manage scope required", http.StatusForbidden)
		return
	}

	username := mux.Vars(r)["username"]

	if !s.registry.Release(username) {
		http.Error(w, "no session for streamer", http.StatusNotFound)
		return
	}

	s.logger.Info("session evicted by operator",
		zap.String("streamer", username),
		zap.String("subject", authentication.Subject))

	w.WriteHeader(http.StatusNoContent)
}

func (s *RESTServer) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Authentication, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return nil, false
	}

	authentication, err := s.authenticator.Authenticate(token)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return nil, false
	}

	return authentication, true
}
