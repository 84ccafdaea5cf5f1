package handler

import (
	"net/http"

	"go.uber.org/zap"

	"alertgraph/internal/metrics"
)

// Routes are the handlers mounted by NewRouter. Nil entries are skipped.
type Routes struct {
	View     *ViewHandler
	Sessions *SessionHandler
	Alerts   *AlertsHandler
	Events   http.Handler
	Metrics  *metrics.Registry
}

// NewRouter mounts routes on a mux and applies the standard middleware
func NewRouter(routes Routes, logger *zap.Logger, corsOrigin string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", Health)

	if h := routes.View; h != nil {
		mux.HandleFunc("GET /api/view/{alertId}", h.GetView)
		mux.HandleFunc("GET /api/view/{alertId}/export/{format}", h.ExportView)
		mux.HandleFunc("GET /api/options", h.GetOptions)
	}

	if h := routes.Sessions; h != nil {
		mux.HandleFunc("GET /api/sessions", h.ListSessions)
		mux.HandleFunc("POST /api/sessions", h.CreateSession)
		mux.HandleFunc("GET /api/sessions/{id}", h.GetSession)
		mux.HandleFunc("DELETE /api/sessions/{id}", h.DeleteSession)
		mux.HandleFunc("POST /api/sessions/{id}/load", h.LoadAlert)
		mux.HandleFunc("POST /api/sessions/{id}/load/{alertId}", h.LoadAlert)
		mux.HandleFunc("PUT /api/sessions/{id}/transparent", h.SetTransparent)
		mux.HandleFunc("POST /api/sessions/{id}/click", h.Click)
		mux.HandleFunc("POST /api/sessions/{id}/close", h.ClosePopup)
	}

	if h := routes.Alerts; h != nil {
		mux.HandleFunc("GET /api/alerts", h.ListAlerts)
		mux.HandleFunc("POST /api/login", h.Login)
	}

	if routes.Events != nil {
		mux.Handle("GET /events", routes.Events)
	}

	var recorder MetricsRecorder
	if routes.Metrics != nil {
		mux.Handle("GET /metrics", routes.Metrics.Handler())
		recorder = routes.Metrics
	}

	return Chain(mux,
		Recover(logger),
		CORS(corsOrigin),
		Logger(logger),
		Metrics(recorder),
	)
}
