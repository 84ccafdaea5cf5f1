package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alertgraph/internal/domain"
	"alertgraph/internal/interaction"
)

func drain(ch <-chan Event) []EventType {
	var types []EventType
	for {
		select {
		case e := <-ch:
			types = append(types, e.Type)
		default:
			return types
		}
	}
}

func TestSessionLoad(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.alerts["1"] = &domain.Alert{ID: "1", Name: "Dropper"}
	fetcher.networks["1"] = chainNetwork("a")

	session := NewSession("s1", NewGraphService(fetcher, nil, nil, nil), NewEventBus())

	require.NoError(t, session.Load(context.Background(), "1"))

	snap := session.Snapshot()
	assert.Equal(t, "1", snap.AlertID)
	assert.Equal(t, uint64(1), snap.Generation)
	assert.False(t, snap.AlertLoading)
	assert.False(t, snap.NetworkLoading)
	require.NotNil(t, snap.Alert)
	assert.Equal(t, "Dropper", snap.Alert.Name)
	assert.ElementsMatch(t, []string{"ap", "af"}, graphNodeIDs(snap))
	assert.Equal(t, interaction.Idle, snap.Selection.Kind)
}

func TestSessionStaleResponseDiscarded(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.networks["X"] = chainNetwork("x")
	fetcher.networks["Y"] = chainNetwork("y")
	gate := fetcher.gate("X")

	graphs := NewGraphService(fetcher, nil, nil, nil)
	bus := NewEventBus()
	events := make(chan Event, 64)
	bus.Subscribe(events)
	session := NewSession("s1", graphs, bus)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- session.Load(ctx, "X") }()
	fetcher.waitEntered(t, "X", 2)

	require.NoError(t, session.Load(ctx, "Y"))
	close(gate)
	require.NoError(t, <-done)

	snap := session.Snapshot()
	assert.Equal(t, "Y", snap.AlertID)
	assert.Equal(t, uint64(2), snap.Generation)
	assert.ElementsMatch(t, []string{"yp", "yf"}, graphNodeIDs(snap))
	require.NotNil(t, snap.Alert)
	assert.Equal(t, "Y", snap.Alert.ID)

	assert.Equal(t, float64(1), counterValue(t, graphs.Metrics().StaleResponsesTotal.WithLabelValues("alert")))
	assert.Equal(t, float64(1), counterValue(t, graphs.Metrics().StaleResponsesTotal.WithLabelValues("network")))

	stale := 0
	for _, typ := range drain(events) {
		if typ == EventStaleDiscarded {
			stale++
		}
	}
	assert.Equal(t, 2, stale)
}

func TestSessionIndependentFailures(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.alerts["1"] = &domain.Alert{ID: "1", Name: "Dropper"}
	fetcher.networkErr["1"] = errors.New("network unavailable")
	fetcher.networks["2"] = chainNetwork("b")
	fetcher.alertErr["2"] = errors.New("metadata unavailable")

	session := NewSession("s1", NewGraphService(fetcher, nil, nil, nil), NewEventBus())
	ctx := context.Background()

	t.Run("network fails", func(t *testing.T) {
		err := session.Load(ctx, "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load alert 1")

		snap := session.Snapshot()
		require.NotNil(t, snap.Alert)
		assert.Empty(t, snap.AlertError)
		assert.Equal(t, "network unavailable", snap.NetworkError)
		assert.Empty(t, graphNodeIDs(snap))
	})

	t.Run("alert fails", func(t *testing.T) {
		require.Error(t, session.Load(ctx, "2"))

		snap := session.Snapshot()
		assert.Nil(t, snap.Alert)
		assert.Equal(t, "metadata unavailable", snap.AlertError)
		assert.Empty(t, snap.NetworkError)
		assert.ElementsMatch(t, []string{"bp", "bf"}, graphNodeIDs(snap))
	})

	t.Run("local network clears earlier failures", func(t *testing.T) {
		fetcher.alertErr["3"] = errors.New("metadata unavailable")
		fetcher.networkErr["3"] = errors.New("network unavailable")
		require.Error(t, session.Load(ctx, "3"))

		session.LoadNetwork("4", &domain.Alert{ID: "4"}, chainNetwork("c"))

		snap := session.Snapshot()
		assert.Equal(t, "4", snap.AlertID)
		require.NotNil(t, snap.Alert)
		assert.Equal(t, "4", snap.Alert.ID)
		assert.Empty(t, snap.AlertError)
		assert.Empty(t, snap.NetworkError)
		assert.ElementsMatch(t, []string{"cp", "cf"}, graphNodeIDs(snap))
	})
}

func TestSessionLoadClearsSelection(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.networks["1"] = chainNetwork("a")
	fetcher.networks["2"] = chainNetwork("a")

	session := NewSession("s1", NewGraphService(fetcher, nil, nil, nil), NewEventBus())
	ctx := context.Background()

	require.NoError(t, session.Load(ctx, "1"))
	snap := session.Dispatch(interaction.NodeClick{IDs: []string{"ap"}})
	require.Equal(t, interaction.NodeSelected, snap.Selection.Kind)

	require.NoError(t, session.Load(ctx, "2"))
	assert.Equal(t, interaction.Idle, session.Snapshot().Selection.Kind)
}

func TestSessionVisibilityAndSelection(t *testing.T) {
	network := &domain.Network{
		Nodes: []domain.Node{
			{ID: "a", Type: domain.NodeTypeProcess, Names: []string{"a.exe", "a"}},
			{ID: "b", Rank: 1},
			{ID: "c", Rank: 1, Transparent: true},
		},
		Edges: []domain.Edge{
			{Source: "a", Target: "b", Label: "write", Time: "2024-01-01T00:00:00Z"},
			{Source: "a", Target: "c", Label: "read", Time: "2024-01-01T00:00:01Z", Transparent: true, Alname: "Related"},
		},
	}

	bus := NewEventBus()
	events := make(chan Event, 64)
	bus.Subscribe(events)
	graphs := NewGraphService(nil, nil, nil, nil)
	session := NewSession("s1", graphs, bus)
	session.LoadNetwork("9", nil, network)

	snap := session.Snapshot()
	assert.False(t, snap.ShowTransparent)
	assert.True(t, snap.HasHidden)
	assert.ElementsMatch(t, []string{"a", "b"}, graphNodeIDs(snap))

	snap = session.SetShowTransparent(true)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, graphNodeIDs(snap))

	snap = session.Dispatch(interaction.EdgeClick{IDs: []string{"a-c"}})
	require.Equal(t, interaction.EdgeSelected, snap.Selection.Kind)
	require.NotNil(t, snap.EdgePopup)
	assert.Equal(t, "Related", snap.EdgePopup.Alname)

	snap = session.SetShowTransparent(false)
	assert.Equal(t, interaction.Idle, snap.Selection.Kind)
	assert.Nil(t, snap.EdgePopup)

	snap = session.Dispatch(interaction.NodeClick{IDs: []string{"a"}})
	require.NotNil(t, snap.NodePopup)
	assert.Equal(t, []string{"a.exe", "a"}, snap.NodePopup.Names)

	snap = session.Dispatch(interaction.Close{})
	assert.Equal(t, interaction.Idle, snap.Selection.Kind)
	assert.Nil(t, snap.NodePopup)

	types := drain(events)
	assert.Contains(t, types, EventVisibilityChanged)
	assert.Contains(t, types, EventSelectionChanged)
}

func TestSessions(t *testing.T) {
	graphs := NewGraphService(nil, nil, nil, nil)
	sessions := NewSessions(graphs, NewEventBus())

	a := sessions.Create()
	b := sessions.Create()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, sessions.Len())
	assert.Len(t, sessions.List(), 2)

	got, err := sessions.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	require.NoError(t, sessions.Delete(a.ID()))
	_, err = sessions.Get(a.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, sessions.Delete(a.ID()), ErrSessionNotFound)
	assert.Equal(t, 1, sessions.Len())
}
