package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"alertgraph/internal/client"
	"alertgraph/internal/service"
)

// Authenticator checks dashboard credentials. *client.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*client.LoginResult, error)
}

// LoginRequest carries dashboard credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AlertsHandler serves the alert dashboard listing and login
type AlertsHandler struct {
	alerts *service.AlertService
	auth   Authenticator
	logger *zap.Logger
}

// NewAlertsHandler creates a new alerts handler
func NewAlertsHandler(alerts *service.AlertService, auth Authenticator, logger *zap.Logger) *AlertsHandler {
	return &AlertsHandler{alerts: alerts, auth: auth, logger: logger}
}

// ListAlerts returns the filtered and sorted alert listing. Filters are
// repeatable or comma separated: machine, severity, program. from and to
// bound the occurrence time, varied=true includes multi-occurrence alerts,
// sort names the key and order=desc reverses it.
func (h *AlertsHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	varied, err := parseBool(q.Get("varied"))
	if err != nil {
		writeError(w, h.logger, "Invalid varied flag", err.Error(), http.StatusBadRequest)
		return
	}

	filter := service.AlertFilter{
		Machines:      q["machine"],
		Severities:    q["severity"],
		Programs:      q["program"],
		From:          q.Get("from"),
		To:            q.Get("to"),
		IncludeVaried: varied,
		SortBy:        q.Get("sort"),
		Descending:    q.Get("order") == "desc",
	}

	alerts, err := h.alerts.List(r.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			writeError(w, h.logger, "Invalid filter", err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Warn("alert listing failed", zap.Error(err))
		writeError(w, h.logger, "Failed to list alerts", err.Error(), upstreamStatus(err))
		return
	}

	writeJSON(w, h.logger, map[string]interface{}{"alerts": alerts}, http.StatusOK)
}

// Login forwards credentials to the data service
func (h *AlertsHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if req.Username == "" {
		writeError(w, h.logger, "Username is required", "", http.StatusBadRequest)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, "Login failed", err.Error(), upstreamStatus(err))
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnauthorized
	}
	writeJSON(w, h.logger, result, status)
}
