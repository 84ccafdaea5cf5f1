package interaction

import (
	"testing"

	"alertgraph/internal/domain"
	"alertgraph/internal/layout"
	"alertgraph/internal/visibility"
)

func testView(showTransparent bool) *visibility.View {
	model := layout.NewBuilder(layout.DefaultConfig()).Build(&domain.Network{
		Nodes: []domain.Node{
			{ID: "p1", Label: "cmd.exe", Type: domain.NodeTypeProcess, Names: []string{"cmd.exe", "cmd"}},
			{ID: "f1", Label: "payload.dll", Type: domain.NodeTypeFile, Rank: 1},
			{ID: "s1", Type: domain.NodeTypeSocket, Rank: 1},
		},
		Edges: []domain.Edge{
			{Source: "p1", Target: "f1", Label: "write", Time: "2024-01-01T00:00:01Z", Alname: "Dropper"},
			{Source: "p1", Target: "s1", Label: "connect", Time: "2024-01-01T00:00:02Z", Transparent: true},
		},
	})
	return visibility.Filter(model, showTransparent)
}

func TestReduce(t *testing.T) {
	view := testView(false)

	tests := []struct {
		name  string
		state State
		event Event
		want  State
	}{
		{"idle to node", State{}, NodeClick{IDs: []string{"p1"}}, State{Kind: NodeSelected, NodeID: "p1"}},
		{"idle to edge", State{}, EdgeClick{IDs: []string{"p1-f1"}}, State{Kind: EdgeSelected, EdgeID: "p1-f1"}},
		{"first id wins", State{}, NodeClick{IDs: []string{"f1", "p1"}}, State{Kind: NodeSelected, NodeID: "f1"}},
		{"node replaces edge", State{Kind: EdgeSelected, EdgeID: "p1-f1"}, NodeClick{IDs: []string{"f1"}}, State{Kind: NodeSelected, NodeID: "f1"}},
		{"edge replaces node", State{Kind: NodeSelected, NodeID: "p1"}, EdgeClick{IDs: []string{"p1-f1"}}, State{Kind: EdgeSelected, EdgeID: "p1-f1"}},
		{"empty node click", State{Kind: NodeSelected, NodeID: "p1"}, NodeClick{}, State{Kind: NodeSelected, NodeID: "p1"}},
		{"empty edge click", State{Kind: EdgeSelected, EdgeID: "p1-f1"}, EdgeClick{IDs: []string{}}, State{Kind: EdgeSelected, EdgeID: "p1-f1"}},
		{"stale node", State{Kind: NodeSelected, NodeID: "p1"}, NodeClick{IDs: []string{"gone"}}, State{}},
		{"hidden edge", State{}, EdgeClick{IDs: []string{"p1-s1"}}, State{}},
		{"close from node", State{Kind: NodeSelected, NodeID: "p1"}, Close{}, State{}},
		{"close from edge", State{Kind: EdgeSelected, EdgeID: "p1-f1"}, Close{}, State{}},
		{"close from idle", State{}, Close{}, State{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reduce(tt.state, tt.event, view); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestControllerSingleSelection(t *testing.T) {
	c := NewController(testView(false))

	c.Dispatch(NodeClick{IDs: []string{"p1"}})
	state, _ := c.Dispatch(EdgeClick{IDs: []string{"p1-f1"}})

	if state.Kind != EdgeSelected || state.NodeID != "" {
		t.Errorf("expected only the edge to be selected, got %+v", state)
	}
	if _, ok := c.SelectedNode(); ok {
		t.Error("expected no selected node after selecting an edge")
	}
	if edge, ok := c.SelectedEdge(); !ok || edge.Label != "write" {
		t.Errorf("expected write edge selected, got %+v", edge)
	}
}

func TestControllerIdempotentReselect(t *testing.T) {
	c := NewController(testView(false))

	first, changed := c.Dispatch(NodeClick{IDs: []string{"p1"}})
	if !changed {
		t.Error("expected first click to change the selection")
	}
	second, changed := c.Dispatch(NodeClick{IDs: []string{"p1"}})
	if changed || first != second {
		t.Errorf("expected re-selecting p1 to be a no-op, got %+v -> %+v", first, second)
	}
}

func TestControllerPopups(t *testing.T) {
	c := NewController(testView(true))

	t.Run("node with names", func(t *testing.T) {
		c.Dispatch(NodeClick{IDs: []string{"p1"}})
		popup, ok := c.NodePopup()
		if !ok {
			t.Fatal("expected node popup")
		}
		if len(popup.Names) != 2 || popup.Names[0] != "cmd.exe" {
			t.Errorf("unexpected popup names %v", popup.Names)
		}
		if _, ok := c.EdgePopup(); ok {
			t.Error("expected no edge popup while a node is selected")
		}
	})

	t.Run("node without names", func(t *testing.T) {
		c.Dispatch(NodeClick{IDs: []string{"f1"}})
		if _, ok := c.NodePopup(); ok {
			t.Error("expected no popup for a node without names")
		}
	})

	t.Run("edge with alname", func(t *testing.T) {
		c.Dispatch(EdgeClick{IDs: []string{"p1-f1"}})
		popup, ok := c.EdgePopup()
		if !ok {
			t.Fatal("expected edge popup")
		}
		if popup.Alname != "Dropper" || popup.Label != "write" {
			t.Errorf("unexpected popup %+v", popup)
		}
	})

	t.Run("edge without alname", func(t *testing.T) {
		c.Dispatch(EdgeClick{IDs: []string{"p1-s1"}})
		if _, ok := c.EdgePopup(); ok {
			t.Error("expected no popup for an edge without alname")
		}
	})

	t.Run("close", func(t *testing.T) {
		c.Dispatch(Close{})
		if c.State().Kind != Idle {
			t.Errorf("expected idle after close, got %s", c.State().Kind)
		}
		if _, ok := c.NodePopup(); ok {
			t.Error("expected no popup after close")
		}
	})
}

func TestControllerSetView(t *testing.T) {
	c := NewController(testView(true))

	c.Dispatch(NodeClick{IDs: []string{"s1"}})
	if state := c.SetView(testView(false)); state.Kind != Idle {
		t.Errorf("expected hidden selection to resolve to idle, got %+v", state)
	}

	c.SetView(testView(true))
	c.Dispatch(EdgeClick{IDs: []string{"p1-f1"}})
	if state := c.SetView(testView(false)); state.Kind != EdgeSelected {
		t.Errorf("expected visible selection to survive, got %+v", state)
	}
}

func TestKindMarshalText(t *testing.T) {
	for kind, want := range map[Kind]string{Idle: "idle", NodeSelected: "node_selected", EdgeSelected: "edge_selected"} {
		got, err := kind.MarshalText()
		if err != nil || string(got) != want {
			t.Errorf("Kind(%d).MarshalText() = %q, %v; want %q", kind, got, err, want)
		}
	}
}

func TestKindUnmarshalText(t *testing.T) {
	var kind Kind
	if err := kind.UnmarshalText([]byte("edge_selected")); err != nil || kind != EdgeSelected {
		t.Errorf("expected edge_selected, got %s (%v)", kind, err)
	}
	if err := kind.UnmarshalText([]byte("hovered")); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}
