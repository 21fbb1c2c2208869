package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

// ReadinessChecker probes a dependency for readyz.
type ReadinessChecker func(ctx domain.Context) error

// Server carries the handler dependencies.
type Server struct {
	sessions *usecase.SessionRegistry
	flow     *usecase.FlowController
	ready    map[string]ReadinessChecker
}

// NewServer constructs the HTTP server facade.
func NewServer(sessions *usecase.SessionRegistry, flow *usecase.FlowController, ready map[string]ReadinessChecker) *Server {
	return &Server{sessions: sessions, flow: flow, ready: ready}
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	usecase.StagePayload
}

// CreateSession handles POST /v1/sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	sess.Lock()
	defer sess.Unlock()
	payload := s.flow.Describe(r.Context(), sess.ID, sess.Profile)
	LoggerFrom(r).Info("session created", "session_id", sess.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sess.ID, StagePayload: payload})
}

// GetSession handles GET /v1/sessions/{id}. Reads hold the profile mutex:
// Describe can run extraction into the profile, and encoding the payload
// reads profile fields, so neither may interleave with an in-flight action.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := s.sessions.Get(id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	sess.Lock()
	defer sess.Unlock()
	payload := s.flow.Describe(r.Context(), sess.ID, sess.Profile)
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, StagePayload: payload})
}

type actionRequest struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Question string `json:"question"`
}

// ApplyAction handles POST /v1/sessions/{id}/actions. Actions are serialized
// per session; an overlapping submit is refused with SESSION_BUSY.
func (s *Server) ApplyAction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid JSON body", domain.ErrInvalidArgument), nil)
		return
	}
	if req.Type == "" {
		writeError(w, r, fmt.Errorf("%w: action type is required", domain.ErrInvalidArgument), nil)
		return
	}

	sess, err := s.sessions.Acquire(id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	defer s.sessions.Release(id)
	sess.Lock()
	defer sess.Unlock()

	action := domain.Action{
		Type:     domain.ActionType(req.Type),
		Value:    req.Value,
		Question: req.Question,
	}
	payload := s.flow.Apply(r.Context(), sess.ID, sess.Profile, action)
	if payload.Rejected {
		LoggerFrom(r).Warn("action rejected",
			"session_id", sess.ID,
			"stage", string(payload.Stage),
			"action", req.Type)
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, StagePayload: payload})
}

// Healthz reports process liveness.
func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports dependency readiness. The engine stays up in degraded mode,
// so individual failures are reported but only mark the service not-ready.
func (s *Server) Readyz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(s.ready))
	for name, check := range s.ready {
		if err := check(r.Context()); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	writeJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": checks})
}
