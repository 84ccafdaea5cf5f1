// Package interaction tracks click-driven inspection of a rendered alert graph.
//
// The selection is a small state machine with three states: Idle,
// NodeSelected and EdgeSelected. Reduce is the pure transition function;
// Controller is a thin stateful wrapper for callers that keep one selection
// alive across events. At most one node or one edge is selected at a time.
//
// Click events carry the ids reported by the rendering surface. Only the
// first id is honored. An id that is not part of the visible graph resolves
// to Idle rather than an error, since the surface may report a stale element
// after a reload or a visibility toggle.
package interaction

import (
	"fmt"

	"alertgraph/internal/domain"
)

// Kind is the selection state
type Kind int

const (
	Idle Kind = iota
	NodeSelected
	EdgeSelected
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case NodeSelected:
		return "node_selected"
	case EdgeSelected:
		return "edge_selected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	for _, kind := range []Kind{Idle, NodeSelected, EdgeSelected} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown selection kind %q", text)
}

// State is the current selection. NodeID is set only in NodeSelected and
// EdgeID only in EdgeSelected.
type State struct {
	Kind   Kind   `json:"kind"`
	NodeID string `json:"node_id,omitempty"`
	EdgeID string `json:"edge_id,omitempty"`
}

// Event is an input to the state machine
type Event interface {
	event()
}

// NodeClick reports nodes under the pointer
type NodeClick struct {
	IDs []string
}

// EdgeClick reports edges under the pointer, by rendered edge id
type EdgeClick struct {
	IDs []string
}

// Close dismisses any open popup
type Close struct{}

func (NodeClick) event() {}
func (EdgeClick) event() {}
func (Close) event()     {}

// Lookup resolves ids against the visible graph
type Lookup interface {
	Node(id string) (*domain.PositionedNode, bool)
	EdgeByID(id string) (*domain.Edge, bool)
}

// Reduce returns the state following event. It never mutates its inputs.
func Reduce(state State, event Event, lookup Lookup) State {
	switch e := event.(type) {
	case NodeClick:
		if len(e.IDs) == 0 {
			return state
		}
		if lookup == nil {
			return State{Kind: Idle}
		}
		if _, ok := lookup.Node(e.IDs[0]); !ok {
			return State{Kind: Idle}
		}
		return State{Kind: NodeSelected, NodeID: e.IDs[0]}

	case EdgeClick:
		if len(e.IDs) == 0 {
			return state
		}
		if lookup == nil {
			return State{Kind: Idle}
		}
		if _, ok := lookup.EdgeByID(e.IDs[0]); !ok {
			return State{Kind: Idle}
		}
		return State{Kind: EdgeSelected, EdgeID: e.IDs[0]}

	case Close:
		return State{Kind: Idle}
	}
	return state
}

// Revalidate drops a selection that is no longer part of the visible graph
func Revalidate(state State, lookup Lookup) State {
	switch state.Kind {
	case NodeSelected:
		if lookup != nil {
			if _, ok := lookup.Node(state.NodeID); ok {
				return state
			}
		}
		return State{Kind: Idle}
	case EdgeSelected:
		if lookup != nil {
			if _, ok := lookup.EdgeByID(state.EdgeID); ok {
				return state
			}
		}
		return State{Kind: Idle}
	}
	return State{Kind: Idle}
}
