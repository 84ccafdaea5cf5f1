package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"alertgraph/internal/interaction"
	"alertgraph/internal/service"
)

// LoadRequest selects the alert a session inspects
type LoadRequest struct {
	AlertID string `json:"alert_id"`
	// Wait holds the reply until both fetches have finished
	Wait *bool `json:"wait,omitempty"`
}

// TransparentRequest toggles transparent elements
type TransparentRequest struct {
	Show bool `json:"show"`
}

// ClickRequest reports elements under the pointer
type ClickRequest struct {
	Kind string   `json:"kind"` // "node" or "edge"
	IDs  []string `json:"ids"`
}

// SessionHandler serves stateful inspection sessions
type SessionHandler struct {
	sessions    *service.Sessions
	logger      *zap.Logger
	loadTimeout time.Duration
}

// NewSessionHandler creates a new session handler. loadTimeout bounds loads
// that continue after the request returns.
func NewSessionHandler(sessions *service.Sessions, logger *zap.Logger, loadTimeout time.Duration) *SessionHandler {
	if loadTimeout <= 0 {
		loadTimeout = 30 * time.Second
	}
	return &SessionHandler{sessions: sessions, logger: logger, loadTimeout: loadTimeout}
}

// CreateSession opens a session, optionally loading an alert right away
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	session := h.sessions.Create()
	if req.AlertID == "" {
		writeJSON(w, h.logger, session.Snapshot(), http.StatusCreated)
		return
	}

	h.load(r, session, req)
	writeJSON(w, h.logger, session.Snapshot(), http.StatusCreated)
}

// ListSessions returns every open session
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, h.sessions.List(), http.StatusOK)
}

// GetSession returns one session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, session.Snapshot(), http.StatusOK)
}

// DeleteSession closes a session
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		writeError(w, h.logger, "Not found", err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadAlert switches a session to another alert. By default the reply waits
// for both fetches; with wait=false it returns 202 while they continue.
func (h *SessionHandler) LoadAlert(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req LoadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if alertID := r.PathValue("alertId"); alertID != "" {
		req.AlertID = alertID
	}
	if req.AlertID == "" {
		writeError(w, h.logger, "Alert ID is required", "", http.StatusBadRequest)
		return
	}

	status := http.StatusOK
	if !h.load(r, session, req) {
		status = http.StatusAccepted
	}
	writeJSON(w, h.logger, session.Snapshot(), status)
}

// load starts req on session and reports whether it waited for completion.
// Fetch failures are recorded on the session itself.
func (h *SessionHandler) load(r *http.Request, session *service.Session, req LoadRequest) bool {
	// The load outlives a disconnecting client; a newer load supersedes it
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.loadTimeout)

	run := func() {
		defer cancel()
		if err := session.Load(ctx, req.AlertID); err != nil {
			h.logger.Warn("session load incomplete", zap.String("session_id", session.ID()), zap.Error(err))
		}
	}

	if req.Wait != nil && !*req.Wait {
		go run()
		return false
	}
	run()
	return true
}

// SetTransparent toggles display of transparent elements
func (h *SessionHandler) SetTransparent(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req TransparentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, h.logger, session.SetShowTransparent(req.Show), http.StatusOK)
}

// Click applies a node or edge click
func (h *SessionHandler) Click(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req ClickRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	var event interaction.Event
	switch req.Kind {
	case "node":
		event = interaction.NodeClick{IDs: req.IDs}
	case "edge":
		event = interaction.EdgeClick{IDs: req.IDs}
	default:
		writeError(w, h.logger, "Invalid click kind", `kind must be "node" or "edge"`, http.StatusBadRequest)
		return
	}
	writeJSON(w, h.logger, session.Dispatch(event), http.StatusOK)
}

// ClosePopup dismisses the open popup
func (h *SessionHandler) ClosePopup(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, session.Dispatch(interaction.Close{}), http.StatusOK)
}

func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	session, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, h.logger, "Not found", err.Error(), http.StatusNotFound)
		} else {
			writeError(w, h.logger, "Failed to get session", err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}
	return session, true
}
