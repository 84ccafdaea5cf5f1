// Package visibility selects the subset of a layout model that is shown for a
// given transparency setting.
//
// With transparent elements hidden, only edges not marked transparent are
// visible, and a node is visible only when it participates in at least one
// visible edge. Isolated nodes therefore disappear in that mode. With
// transparent elements shown, the whole model is visible.
//
// Filtering never mutates the model; toggling back and forth always yields
// the same visible sets.
package visibility

import (
	"alertgraph/internal/domain"
	"alertgraph/internal/layout"
)

// View is the visible subset of a model
type View struct {
	ShowTransparent bool                    `json:"show_transparent"`
	Nodes           []domain.PositionedNode `json:"nodes"`
	Edges           []domain.Edge           `json:"edges"`
	// HasHidden reports whether the model has any transparent element, in
	// which case the transparency toggle is meaningful
	HasHidden bool `json:"has_hidden"`

	nodeIndex map[string]int
	edgeIndex map[domain.EdgeKey]int
	edgeIDs   map[string]int
}

// Filter returns the elements of model visible when transparent elements are
// shown or hidden. A nil model yields an empty view.
func Filter(model *layout.Model, showTransparent bool) *View {
	view := &View{
		ShowTransparent: showTransparent,
		Nodes:           make([]domain.PositionedNode, 0),
		Edges:           make([]domain.Edge, 0),
		nodeIndex:       make(map[string]int),
		edgeIndex:       make(map[domain.EdgeKey]int),
		edgeIDs:         make(map[string]int),
	}
	if model == nil {
		return view
	}
	view.HasHidden = model.HasTransparent()

	connected := make(map[string]bool)
	for _, edge := range model.Edges {
		if !showTransparent && edge.Transparent {
			continue
		}
		connected[edge.Source] = true
		connected[edge.Target] = true

		view.Edges = append(view.Edges, edge)
		i := len(view.Edges) - 1
		view.edgeIndex[edge.Key()] = i
		view.edgeIDs[edge.ID()] = i
	}

	for _, node := range model.Nodes {
		if !showTransparent && !connected[node.ID] {
			continue
		}
		view.Nodes = append(view.Nodes, node)
		view.nodeIndex[node.ID] = len(view.Nodes) - 1
	}

	return view
}

// Node returns the visible node with the given id
func (v *View) Node(id string) (*domain.PositionedNode, bool) {
	i, ok := v.nodeIndex[id]
	if !ok {
		return nil, false
	}
	return &v.Nodes[i], true
}

// Edge returns the visible edge indexed under key, last in chronological
// order when the pair repeats
func (v *View) Edge(key domain.EdgeKey) (*domain.Edge, bool) {
	i, ok := v.edgeIndex[key]
	if !ok {
		return nil, false
	}
	return &v.Edges[i], true
}

// EdgeByID resolves an edge id as reported by a rendering surface.
// Ids are "source-target" strings, so a pair whose ids contain a dash may
// collide with another pair; the later edge wins.
func (v *View) EdgeByID(id string) (*domain.Edge, bool) {
	i, ok := v.edgeIDs[id]
	if !ok {
		return nil, false
	}
	return &v.Edges[i], true
}

// NodeIDs returns the ids of visible nodes in model order
func (v *View) NodeIDs() []string {
	ids := make([]string, len(v.Nodes))
	for i := range v.Nodes {
		ids[i] = v.Nodes[i].ID
	}
	return ids
}

// EdgeIDs returns the ids of visible edges in chronological order
func (v *View) EdgeIDs() []string {
	ids := make([]string, len(v.Edges))
	for i := range v.Edges {
		ids[i] = v.Edges[i].ID()
	}
	return ids
}
