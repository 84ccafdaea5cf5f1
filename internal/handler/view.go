package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"alertgraph/internal/codec"
	"alertgraph/internal/render"
	"alertgraph/internal/service"
)

// ViewHandler serves stateless alert graph renders
type ViewHandler struct {
	graphs *service.GraphService
	logger *zap.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(graphs *service.GraphService) *ViewHandler {
	return &ViewHandler{graphs: graphs, logger: graphs.Logger()}
}

// GetView renders one alert. The transparent query flag shows transparent
// elements.
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	alertID := r.PathValue("alertId")
	show, err := parseBool(r.URL.Query().Get("transparent"))
	if err != nil {
		writeError(w, h.logger, "Invalid transparent flag", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.graphs.View(r.Context(), alertID, show)
	if err != nil {
		h.logger.Warn("view failed", zap.String("alert_id", alertID), zap.Error(err))
		writeError(w, h.logger, "Failed to load alert network", err.Error(), upstreamStatus(err))
		return
	}

	writeJSON(w, h.logger, result, http.StatusOK)
}

// ExportView renders one alert and writes it in the requested format
func (h *ViewHandler) ExportView(w http.ResponseWriter, r *http.Request) {
	alertID := r.PathValue("alertId")
	exporter, err := codec.ExporterFor(r.PathValue("format"))
	if err != nil {
		writeError(w, h.logger, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}
	show, err := parseBool(r.URL.Query().Get("transparent"))
	if err != nil {
		writeError(w, h.logger, "Invalid transparent flag", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.graphs.View(r.Context(), alertID, show)
	if err != nil {
		writeError(w, h.logger, "Failed to load alert network", err.Error(), upstreamStatus(err))
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=alert-%s.%s", alertID, exporter.Format()))
	if err := exporter.Export(result.Graph, w); err != nil {
		// Headers are already sent
		h.logger.Error("export failed", zap.String("alert_id", alertID), zap.String("format", exporter.Format()), zap.Error(err))
	}
}

// GetOptions returns the rendering options that go with projected graphs
func (h *ViewHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, render.DefaultOptions(), http.StatusOK)
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
