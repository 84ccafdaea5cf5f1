package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"alertgraph/internal/client"
	"alertgraph/internal/domain"
	"alertgraph/internal/interaction"
	"alertgraph/internal/layout"
	"alertgraph/internal/render"
	"alertgraph/internal/visibility"
)

// Snapshot is a point-in-time copy of a session's state
type Snapshot struct {
	ID              string                 `json:"id"`
	AlertID         string                 `json:"alert_id,omitempty"`
	Generation      uint64                 `json:"generation"`
	Alert           *domain.Alert          `json:"alert,omitempty"`
	AlertLoading    bool                   `json:"alert_loading"`
	NetworkLoading  bool                   `json:"network_loading"`
	AlertError      string                 `json:"alert_error,omitempty"`
	NetworkError    string                 `json:"network_error,omitempty"`
	ShowTransparent bool                   `json:"show_transparent"`
	HasHidden       bool                   `json:"has_hidden"`
	Graph           *render.Graph          `json:"graph,omitempty"`
	Selection       interaction.State      `json:"selection"`
	NodePopup       *interaction.NodePopup `json:"node_popup,omitempty"`
	EdgePopup       *interaction.EdgePopup `json:"edge_popup,omitempty"`
	Rejected        []domain.Rejection     `json:"rejected,omitempty"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// Session is the inspection state of one viewer. All methods are safe for
// concurrent use; state changes are serialized.
type Session struct {
	id     string
	graphs *GraphService
	bus    *EventBus
	logger *zap.Logger

	mu              sync.Mutex
	generation      uint64
	alertID         string
	alert           *domain.Alert
	alertErr        error
	networkErr      error
	alertLoading    bool
	networkLoading  bool
	prepared        *Prepared
	showTransparent bool
	view            *visibility.View
	graph           *render.Graph
	controller      *interaction.Controller
	updatedAt       time.Time
}

// NewSession creates an empty session
func NewSession(id string, graphs *GraphService, bus *EventBus) *Session {
	s := &Session{
		id:        id,
		graphs:    graphs,
		bus:       bus,
		logger:    graphs.logger.With(zap.String("session_id", id)),
		updatedAt: time.Now(),
	}
	s.view, s.graph = graphs.Render(nil, false)
	s.controller = interaction.NewController(s.view)
	return s
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Load switches the session to alertID. The previous alert, model and
// selection are cleared immediately; metadata and network are then fetched
// concurrently and applied as each arrives, unless a later Load has started
// in the meantime. Load returns once both fetches have finished. A failed
// fetch is recorded on the session and also returned.
func (s *Session) Load(ctx context.Context, alertID string) error {
	gen := s.begin(alertID)

	s.logger.Info("loading alert", zap.String("alert_id", alertID), zap.Uint64("generation", gen))

	fetcher := s.graphs.fetcher
	if fetcher == nil {
		err := fmt.Errorf("load alert %s: no data source configured", alertID)
		s.applyAlert(gen, alertID, nil, err)
		s.applyNetwork(gen, alertID, nil, err)
		return err
	}

	// No shared cancellation: one failing fetch must not abort the other
	var g errgroup.Group
	g.Go(func() error {
		alert, err := fetcher.FetchAlert(ctx, alertID)
		s.applyAlert(gen, alertID, alert, err)
		return err
	})
	g.Go(func() error {
		network, err := fetcher.FetchNetwork(ctx, alertID)
		s.applyNetwork(gen, alertID, network, err)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load alert %s: %w", alertID, err)
	}
	return nil
}

// LoadNetwork installs a network that is already at hand under alertID,
// without contacting the data service
func (s *Session) LoadNetwork(alertID string, alert *domain.Alert, network *domain.Network) {
	gen := s.begin(alertID)

	s.applyAlert(gen, alertID, alert, nil)
	s.applyNetwork(gen, alertID, network, nil)
}

// begin starts a new load generation for alertID and clears everything the
// previous alert left behind
func (s *Session) begin(alertID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.alertID = alertID
	s.alert = nil
	s.alertErr = nil
	s.networkErr = nil
	s.alertLoading = true
	s.networkLoading = true
	s.setPrepared(nil)
	s.touch()
	return s.generation
}

func (s *Session) applyAlert(gen uint64, alertID string, alert *domain.Alert, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.discardStale(client.OpAlert, alertID, gen)
		return
	}

	s.alertLoading = false
	s.touch()
	if err != nil {
		s.alertErr = err
		s.logger.Warn("alert fetch failed", zap.String("alert_id", alertID), zap.Error(err))
		s.publish(EventLoadFailed, map[string]string{"op": client.OpAlert, "error": err.Error()})
		return
	}

	s.alert = alert
	s.alertErr = nil
	s.publish(EventAlertLoaded, alert)
}

func (s *Session) applyNetwork(gen uint64, alertID string, network *domain.Network, err error) {
	if err == nil {
		// Layout runs outside the lock; the result is dropped below if stale
		prepared := s.graphs.Prepare(alertID, network)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.generation {
			s.discardStale(client.OpNetwork, alertID, gen)
			return
		}
		s.networkLoading = false
		s.networkErr = nil
		s.touch()
		s.setPrepared(prepared)
		s.publish(EventNetworkLoaded, map[string]int{
			"nodes":    len(prepared.Model.Nodes),
			"edges":    len(prepared.Model.Edges),
			"rejected": len(prepared.Rejections),
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.discardStale(client.OpNetwork, alertID, gen)
		return
	}
	s.networkLoading = false
	s.networkErr = err
	s.touch()
	s.logger.Warn("network fetch failed", zap.String("alert_id", alertID), zap.Error(err))
	s.publish(EventLoadFailed, map[string]string{"op": client.OpNetwork, "error": err.Error()})
}

// discardStale must be called with s.mu held
func (s *Session) discardStale(op, alertID string, gen uint64) {
	s.logger.Info("discarding stale response",
		zap.String("op", op), zap.String("alert_id", alertID),
		zap.Uint64("generation", gen), zap.Uint64("current", s.generation))
	s.graphs.metrics.RecordStaleResponse(op)
	s.bus.Publish(Event{
		Type:      EventStaleDiscarded,
		SessionID: s.id,
		AlertID:   alertID,
		Payload:   map[string]string{"op": op},
	})
}

// setPrepared installs a model and rebuilds the visible graph; a nil model
// clears it. Must be called with s.mu held.
func (s *Session) setPrepared(prepared *Prepared) {
	s.prepared = prepared
	s.controller = interaction.NewController(nil)
	s.rebuildView()
}

// rebuildView must be called with s.mu held
func (s *Session) rebuildView() interaction.State {
	var model *layout.Model
	if s.prepared != nil {
		model = s.prepared.Model
	}
	s.view, s.graph = s.graphs.Render(model, s.showTransparent)
	return s.controller.SetView(s.view)
}

// SetShowTransparent toggles display of transparent elements. A selection
// that becomes hidden is cleared.
func (s *Session) SetShowTransparent(show bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.showTransparent == show {
		return s.snapshot()
	}

	before := s.controller.State()
	s.showTransparent = show
	after := s.rebuildView()
	s.touch()

	s.publish(EventVisibilityChanged, map[string]bool{"show_transparent": show})
	if before != after {
		s.selectionChanged(after)
	}
	return s.snapshot()
}

// Dispatch applies a pointer event to the selection
func (s *Session) Dispatch(event interaction.Event) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, changed := s.controller.Dispatch(event)
	if changed {
		s.touch()
		s.selectionChanged(state)
	}
	return s.snapshot()
}

// selectionChanged must be called with s.mu held
func (s *Session) selectionChanged(state interaction.State) {
	s.graphs.metrics.RecordSelection(state.Kind.String())
	s.publish(EventSelectionChanged, state)
}

// Snapshot returns a copy of the session state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// View returns the current visible graph and selection controller state
func (s *Session) View() (*visibility.View, interaction.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.controller.State()
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{
		ID:              s.id,
		AlertID:         s.alertID,
		Generation:      s.generation,
		Alert:           s.alert,
		AlertLoading:    s.alertLoading,
		NetworkLoading:  s.networkLoading,
		ShowTransparent: s.showTransparent,
		HasHidden:       s.view.HasHidden,
		Graph:           s.graph,
		Selection:       s.controller.State(),
		UpdatedAt:       s.updatedAt,
	}
	if s.alertErr != nil {
		snap.AlertError = s.alertErr.Error()
	}
	if s.networkErr != nil {
		snap.NetworkError = s.networkErr.Error()
	}
	if s.prepared != nil {
		snap.Rejected = s.prepared.Rejections
	}
	if popup, ok := s.controller.NodePopup(); ok {
		snap.NodePopup = popup
	}
	if popup, ok := s.controller.EdgePopup(); ok {
		snap.EdgePopup = popup
	}
	return snap
}

// publish must be called with s.mu held
func (s *Session) publish(eventType EventType, payload interface{}) {
	s.bus.Publish(Event{
		Type:      eventType,
		SessionID: s.id,
		AlertID:   s.alertID,
		Payload:   payload,
	})
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}
