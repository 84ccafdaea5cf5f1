package interaction

import "alertgraph/internal/domain"

// NodePopup is the detail box for a selected node
type NodePopup struct {
	NodeID string   `json:"node_id"`
	Label  string   `json:"label"`
	Names  []string `json:"names"`
}

// EdgePopup is the detail box for a selected edge
type EdgePopup struct {
	EdgeID string `json:"edge_id"`
	Label  string `json:"label"`
	Time   string `json:"time"`
	Alname string `json:"alname"`
}

// Controller holds the selection for one rendered graph.
// It is not safe for concurrent use.
type Controller struct {
	lookup Lookup
	state  State
}

// NewController creates an idle controller over the given visible graph
func NewController(lookup Lookup) *Controller {
	return &Controller{lookup: lookup}
}

// State returns the current selection
func (c *Controller) State() State {
	return c.state
}

// Dispatch applies event and reports whether the selection changed
func (c *Controller) Dispatch(event Event) (State, bool) {
	next := Reduce(c.state, event, c.lookup)
	changed := next != c.state
	c.state = next
	return next, changed
}

// SetView replaces the visible graph, dropping a selection it no longer contains
func (c *Controller) SetView(lookup Lookup) State {
	c.lookup = lookup
	c.state = Revalidate(c.state, lookup)
	return c.state
}

// SelectedNode returns the selected node, if any
func (c *Controller) SelectedNode() (*domain.PositionedNode, bool) {
	if c.state.Kind != NodeSelected || c.lookup == nil {
		return nil, false
	}
	return c.lookup.Node(c.state.NodeID)
}

// SelectedEdge returns the selected edge, if any
func (c *Controller) SelectedEdge() (*domain.Edge, bool) {
	if c.state.Kind != EdgeSelected || c.lookup == nil {
		return nil, false
	}
	return c.lookup.EdgeByID(c.state.EdgeID)
}

// NodePopup returns the popup of the selected node. Nodes without alternate
// names have no popup.
func (c *Controller) NodePopup() (*NodePopup, bool) {
	node, ok := c.SelectedNode()
	if !ok || !node.HasNames() {
		return nil, false
	}
	return &NodePopup{
		NodeID: node.ID,
		Label:  node.Label,
		Names:  append([]string(nil), node.Names...),
	}, true
}

// EdgePopup returns the popup of the selected edge. Only edges referencing a
// related alert have one.
func (c *Controller) EdgePopup() (*EdgePopup, bool) {
	edge, ok := c.SelectedEdge()
	if !ok || !edge.HasAlname() {
		return nil, false
	}
	return &EdgePopup{
		EdgeID: c.state.EdgeID,
		Label:  edge.Label,
		Time:   edge.Time,
		Alname: edge.Alname,
	}, true
}
