package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alertgraph/internal/domain"
	"alertgraph/internal/layout"
	"alertgraph/internal/metrics"
	"alertgraph/internal/render"
	"alertgraph/internal/visibility"
)

// Fetcher retrieves alert data. *client.Client satisfies it.
type Fetcher interface {
	FetchAlert(ctx context.Context, alertID string) (*domain.Alert, error)
	FetchNetwork(ctx context.Context, alertID string) (*domain.Network, error)
}

// Prepared is a validated and laid out network
type Prepared struct {
	Model      *layout.Model
	Rejections []domain.Rejection
}

// ViewResult is one rendered alert
type ViewResult struct {
	AlertID         string             `json:"alert_id"`
	Alert           *domain.Alert      `json:"alert,omitempty"`
	AlertError      string             `json:"alert_error,omitempty"`
	ShowTransparent bool               `json:"show_transparent"`
	HasHidden       bool               `json:"has_hidden"`
	Graph           *render.Graph      `json:"graph"`
	Rejected        []domain.Rejection `json:"rejected,omitempty"`
	DuplicateEdges  []string           `json:"duplicate_edges,omitempty"`
	TimeErrors      []string           `json:"time_errors,omitempty"`
}

// GraphService runs the layout pipeline
type GraphService struct {
	fetcher   Fetcher
	builder   *layout.Builder
	projector *render.Projector
	logger    *zap.Logger
	metrics   *metrics.Registry
}

// NewGraphService creates a new graph service. A nil builder uses the
// default spacing; nil logger and registry are replaced by private ones.
func NewGraphService(fetcher Fetcher, builder *layout.Builder, logger *zap.Logger, reg *metrics.Registry) *GraphService {
	if builder == nil {
		builder = layout.NewBuilder(layout.DefaultConfig())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &GraphService{
		fetcher:   fetcher,
		builder:   builder,
		projector: render.NewProjector(),
		logger:    logger,
		metrics:   reg,
	}
}

// Prepare validates and lays out a network. Quarantined records, duplicate
// edge pairs and unparseable edge times are logged and counted but never fatal.
func (s *GraphService) Prepare(alertID string, network *domain.Network) *Prepared {
	start := time.Now()
	clean, rejections := domain.Sanitize(network)
	model := s.builder.Build(clean)
	s.metrics.RecordLayout(len(model.Nodes), time.Since(start))

	log := s.logger.With(zap.String("alert_id", alertID))
	nodeRejects, edgeRejects := 0, 0
	for _, r := range rejections {
		if r.Kind == domain.RecordNode {
			nodeRejects++
		} else {
			edgeRejects++
		}
		log.Warn("record rejected", zap.String("kind", string(r.Kind)), zap.Int("index", r.Index),
			zap.String("id", r.ID), zap.String("reason", r.Reason))
	}
	s.metrics.RecordRejected(string(domain.RecordNode), nodeRejects)
	s.metrics.RecordRejected(string(domain.RecordEdge), edgeRejects)

	for _, key := range model.DuplicateKeys {
		log.Warn("duplicate edge pair, last edge wins", zap.String("edge", key.String()))
	}
	s.metrics.RecordDuplicateEdges(len(model.DuplicateKeys))

	for _, terr := range model.TimeErrors {
		log.Warn("unparseable edge time", zap.String("edge", terr.Key.String()), zap.String("time", terr.Value))
	}
	s.metrics.RecordTimeParseErrors(len(model.TimeErrors))

	log.Debug("layout built", zap.Int("nodes", len(model.Nodes)), zap.Int("edges", len(model.Edges)),
		zap.Int("layers", len(model.Layers)))

	return &Prepared{Model: model, Rejections: rejections}
}

// Render filters a model and projects the visible part
func (s *GraphService) Render(model *layout.Model, showTransparent bool) (*visibility.View, *render.Graph) {
	view := visibility.Filter(model, showTransparent)
	return view, s.projector.Project(view)
}

// View fetches and renders one alert. The metadata and network fetches run
// concurrently; a metadata failure is reported in the result while a network
// failure fails the call.
func (s *GraphService) View(ctx context.Context, alertID string, showTransparent bool) (*ViewResult, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("view alert %s: no data source configured", alertID)
	}

	var (
		g          errgroup.Group
		alert      *domain.Alert
		alertErr   error
		network    *domain.Network
		networkErr error
	)
	g.Go(func() error {
		alert, alertErr = s.fetcher.FetchAlert(ctx, alertID)
		return nil
	})
	g.Go(func() error {
		network, networkErr = s.fetcher.FetchNetwork(ctx, alertID)
		return networkErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("view alert %s: %w", alertID, err)
	}

	result := s.FromNetwork(alertID, network, showTransparent)
	result.Alert = alert
	if alertErr != nil {
		s.logger.Warn("alert metadata unavailable", zap.String("alert_id", alertID), zap.Error(alertErr))
		result.AlertError = alertErr.Error()
	}
	return result, nil
}

// FromNetwork renders a network that is already at hand, such as one read
// from a file
func (s *GraphService) FromNetwork(alertID string, network *domain.Network, showTransparent bool) *ViewResult {
	prepared := s.Prepare(alertID, network)
	view, graph := s.Render(prepared.Model, showTransparent)

	result := &ViewResult{
		AlertID:         alertID,
		ShowTransparent: showTransparent,
		HasHidden:       view.HasHidden,
		Graph:           graph,
		Rejected:        prepared.Rejections,
	}
	for _, key := range prepared.Model.DuplicateKeys {
		result.DuplicateEdges = append(result.DuplicateEdges, key.String())
	}
	for _, terr := range prepared.Model.TimeErrors {
		result.TimeErrors = append(result.TimeErrors, terr.Error())
	}
	return result
}

// Logger returns the service logger
func (s *GraphService) Logger() *zap.Logger {
	return s.logger
}

// Metrics returns the metrics registry
func (s *GraphService) Metrics() *metrics.Registry {
	return s.metrics
}
